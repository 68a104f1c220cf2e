// Package reconstruct rebuilds the pre-change content of a file from its Patch and the post-change content.
//
// A unified diff only carries the lines near each change; every line outside a hunk is identical in both versions. So the old file is the
// post-change file with each hunk's new-side span swapped for the hunk's old-side lines.
package reconstruct

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codalotl/splitdiff/internal/patch"
)

var (
	// ErrInconsistent means the diff does not describe the post-change content it was paired with (ex: the file changed again after the
	// diff was produced).
	ErrInconsistent = errors.New("diff does not match file content")

	// ErrInvalidHunks means a Patch's hunks overlap, are out of order, or disagree with their own headers.
	ErrInvalidHunks = errors.New("invalid hunks")
)

// InconsistencyError reports where the diff and the post-change content disagree: a line the diff needs is past the end of the content, or a
// hunk was never reached.
type InconsistencyError struct {
	Path         string
	SourceLineNo int // source line being reconstructed
	TargetLineNo int // target line that was needed but does not exist
	TargetLines  int // number of lines actually available
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("%s: source line %d maps to target line %d, but the file has %d lines: %v", e.Path, e.SourceLineNo, e.TargetLineNo, e.TargetLines, ErrInconsistent)
}

func (e *InconsistencyError) Unwrap() error { return ErrInconsistent }

// Source returns the pre-change lines of the file p describes, given the post-change lines target (newline-preserving, as from
// SplitLines). Concatenating the result yields the exact pre-change content.
//
// Source validates p's hunks first (see Validate). It returns an *InconsistencyError if target does not have the length p implies.
func Source(p *patch.Patch, target []string) ([]string, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}

	sourceLineNoMax := len(target) - p.AddedLineCount + p.RemovedLineCount

	byStart := make(map[int]*patch.Hunk, len(p.Hunks))
	for _, h := range p.Hunks {
		byStart[hunkKey(h)] = h
	}

	out := make([]string, 0, max(sourceLineNoMax, 0))
	sourceLineNo := 1
	targetLineNo := 1
	for sourceLineNo <= sourceLineNoMax {
		if h, ok := byStart[sourceLineNo]; ok {
			for _, ln := range h.Lines {
				if ln.Kind != patch.Added {
					out = append(out, ln.Text)
				}
			}
			sourceLineNo += h.SourceLength
			targetLineNo += h.TargetLength
			// Pure insertions don't advance sourceLineNo; the hunk must not be matched again.
			delete(byStart, hunkKey(h))
			continue
		}

		idx := targetLineNo - 1
		if idx < 0 || idx >= len(target) {
			return nil, &InconsistencyError{Path: p.Path, SourceLineNo: sourceLineNo, TargetLineNo: targetLineNo, TargetLines: len(target)}
		}
		out = append(out, target[idx])
		sourceLineNo++
		targetLineNo++
	}

	// An insertion after the last line is keyed just past the end.
	if h, ok := byStart[sourceLineNo]; ok && h.SourceLength == 0 {
		targetLineNo += h.TargetLength
		delete(byStart, sourceLineNo)
	}

	// Every hunk must have been reached, and every target line accounted for.
	if len(byStart) > 0 {
		first := 0
		for k := range byStart {
			if first == 0 || k < first {
				first = k
			}
		}
		return nil, &InconsistencyError{Path: p.Path, SourceLineNo: first, TargetLineNo: byStart[first].TargetStart, TargetLines: len(target)}
	}
	if targetLineNo-1 != len(target) {
		return nil, &InconsistencyError{Path: p.Path, SourceLineNo: sourceLineNo, TargetLineNo: targetLineNo, TargetLines: len(target)}
	}

	return out, nil
}

// SourceText is Source over whole-file text.
func SourceText(p *patch.Patch, target string) (string, error) {
	lines, err := Source(p, SplitLines(target))
	if err != nil {
		return "", err
	}
	return strings.Join(lines, ""), nil
}

// Validate checks the preconditions Source relies on: hunks are in increasing source order, do not overlap, have unique start keys, and
// contain as many lines per side as their headers declare.
func Validate(p *patch.Patch) error {
	prevEnd := 0
	seen := make(map[int]bool, len(p.Hunks))
	for i, h := range p.Hunks {
		var src, tgt int
		for _, ln := range h.Lines {
			switch ln.Kind {
			case patch.Context:
				src++
				tgt++
			case patch.Removed:
				src++
			case patch.Added:
				tgt++
			}
		}
		if src != h.SourceLength || tgt != h.TargetLength {
			return fmt.Errorf("%w: %s: hunk %d: header is -%d,%d +%d,%d but lines give -%d +%d", ErrInvalidHunks, p.Path, i+1, h.SourceStart, h.SourceLength, h.TargetStart, h.TargetLength, src, tgt)
		}

		key := hunkKey(h)
		if seen[key] {
			return fmt.Errorf("%w: %s: hunk %d: duplicate source start %d", ErrInvalidHunks, p.Path, i+1, key)
		}
		seen[key] = true

		if key <= prevEnd {
			return fmt.Errorf("%w: %s: hunk %d: starts at source line %d, before the previous hunk ends (%d)", ErrInvalidHunks, p.Path, i+1, key, prevEnd)
		}
		prevEnd = key + h.SourceLength - 1
	}
	return nil
}

// hunkKey is the first source line a hunk replaces. A hunk with no source lines reports the line it follows, so it is keyed one later.
func hunkKey(h *patch.Hunk) int {
	if h.SourceLength == 0 {
		return h.SourceStart + 1
	}
	return h.SourceStart
}

// SplitLines splits text into lines, keeping each line's "\n". The last line has no "\n" if text doesn't end with one. Returns nil for "".
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
