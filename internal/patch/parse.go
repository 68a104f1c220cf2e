package patch

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// ErrMalformed is returned (wrapped) by Parse when the input is not a valid unified diff.
var ErrMalformed = errors.New("malformed diff")

// Parse reads a whole unified diff from r. Text before the first file header (ex: a commit message) is ignored.
func Parse(r io.Reader) (*PatchSet, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read diff: %w", err)
	}
	text := string(raw)

	files, _, err := gitdiff.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	headers := scanHeaders(text)
	if len(headers) != len(files) {
		headers = nil
	}

	set := &PatchSet{Patches: make([]*Patch, 0, len(files))}
	for i, f := range files {
		if headers != nil && !headers[i].git {
			useTraditionalNames(f, headers[i])
		}
		p, err := fromFile(f)
		if err != nil {
			return nil, err
		}
		set.Patches = append(set.Patches, p)
	}
	return set, nil
}

// ParseString is Parse for in-memory diffs.
func ParseString(diff string) (*PatchSet, error) {
	return Parse(strings.NewReader(diff))
}

// useTraditionalNames replaces gitdiff's single name for a traditional header with both names from h. Path keeps gitdiff's choice of the old
// name when the new one extends it (ex: "x" and "x.new").
func useTraditionalNames(f *gitdiff.File, h fileHeader) {
	oldName, newName := h.names()
	if oldName == "" || newName == "" {
		return
	}
	switch {
	case f.IsNew:
		f.NewName = newName
	case f.IsDelete:
		f.OldName = oldName
	default:
		f.OldName = oldName
		f.NewName = newName
		if strings.HasPrefix(newName, oldName) {
			f.NewName = oldName
		}
	}
}

func fromFile(f *gitdiff.File) (*Patch, error) {
	p := &Patch{
		Path:       f.NewName,
		SourcePath: f.OldName,
		IsAdded:    f.IsNew,
		IsRemoved:  f.IsDelete,
		IsRenamed:  f.IsRename,
		IsBinary:   f.IsBinary,
	}
	if p.IsRemoved || p.Path == "" {
		p.Path = f.OldName
	}
	if p.IsAdded {
		p.SourcePath = ""
	}

	for i, frag := range f.TextFragments {
		h, err := fromFragment(frag)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: hunk %d: %v", ErrMalformed, p.Path, i+1, err)
		}
		p.Hunks = append(p.Hunks, h)
		for _, ln := range h.Lines {
			switch ln.Kind {
			case Added:
				p.AddedLineCount++
			case Removed:
				p.RemovedLineCount++
			}
		}
	}
	return p, nil
}

func fromFragment(frag *gitdiff.TextFragment) (*Hunk, error) {
	h := &Hunk{
		SourceStart:  int(frag.OldPosition),
		SourceLength: int(frag.OldLines),
		TargetStart:  int(frag.NewPosition),
		TargetLength: int(frag.NewLines),
		Section:      strings.TrimSpace(frag.Comment),
		Lines:        make([]Line, 0, len(frag.Lines)),
	}

	// A zero-length side reports the line before the change; the first line of that side (if any) would be the next one.
	sourceNo := h.SourceStart
	if h.SourceLength == 0 {
		sourceNo++
	}
	targetNo := h.TargetStart
	if h.TargetLength == 0 {
		targetNo++
	}

	var sourceCount, targetCount int
	for _, fl := range frag.Lines {
		ln := Line{Text: fl.Line}
		switch fl.Op {
		case gitdiff.OpContext:
			ln.Kind = Context
			ln.SourceLineNo = sourceNo
			ln.TargetLineNo = targetNo
			sourceNo++
			targetNo++
			sourceCount++
			targetCount++
		case gitdiff.OpDelete:
			ln.Kind = Removed
			ln.SourceLineNo = sourceNo
			sourceNo++
			sourceCount++
		case gitdiff.OpAdd:
			ln.Kind = Added
			ln.TargetLineNo = targetNo
			targetNo++
			targetCount++
		default:
			return nil, fmt.Errorf("unknown line op %v", fl.Op)
		}
		h.Lines = append(h.Lines, ln)
	}

	if sourceCount != h.SourceLength {
		return nil, fmt.Errorf("header declares %d source lines, found %d", h.SourceLength, sourceCount)
	}
	if targetCount != h.TargetLength {
		return nil, fmt.Errorf("header declares %d target lines, found %d", h.TargetLength, targetCount)
	}
	return h, nil
}
