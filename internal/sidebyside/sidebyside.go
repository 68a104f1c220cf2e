// Package sidebyside renders a whole patch set: for each file it reconstructs the old content, highlights both sides, aligns each hunk,
// computes intraline ranges, and draws the result.
package sidebyside

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codalotl/splitdiff/internal/align"
	"github.com/codalotl/splitdiff/internal/highlight"
	"github.com/codalotl/splitdiff/internal/intraline"
	"github.com/codalotl/splitdiff/internal/patch"
	"github.com/codalotl/splitdiff/internal/reconstruct"
	"github.com/codalotl/splitdiff/internal/render"
	"github.com/codalotl/splitdiff/internal/simplelogger"
	"github.com/codalotl/splitdiff/internal/workspace"
)

// ErrFileProblems is returned (wrapped) by Render when every file was drawn but at least one could not be drawn in full (missing from the
// workspace, or inconsistent with the diff).
var ErrFileProblems = errors.New("some files could not be fully rendered")

// Files provides post-change file content by the paths used in the diff. *workspace.Workspace implements it.
type Files interface {
	ReadFile(path string) ([]byte, error)
	Size(path string) (int64, error)
}

// Renderer draws patch sets.
type Renderer struct {
	Files       Files
	Out         *render.Renderer
	Highlighter *highlight.Highlighter
	Differ      *intraline.Differ
}

// Report describes what Render drew.
type Report struct {
	Files        int
	Hunks        int
	Missing      []string // paths not found in the workspace
	Inconsistent []string // paths whose content does not match the diff
}

// Render draws the summary, every file of set, and the footer. Per-file problems are drawn as markers and reported via Report and a final
// error matching ErrFileProblems. Other errors (write failures, cancellation, unreadable files) stop rendering and are returned as is.
func (s *Renderer) Render(ctx context.Context, set *patch.PatchSet) (Report, error) {
	var rep Report

	if err := s.Out.Summary(set.Counts()); err != nil {
		return rep, err
	}

	for _, p := range set.Patches {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := s.file(ctx, p, &rep); err != nil {
			return rep, err
		}
		rep.Files++
	}

	if err := s.Out.Footer(); err != nil {
		return rep, err
	}

	simplelogger.Log("rendered %d files, %d hunks", rep.Files, rep.Hunks)

	if n := len(rep.Missing) + len(rep.Inconsistent); n > 0 {
		var parts []string
		if len(rep.Missing) > 0 {
			parts = append(parts, "missing: "+strings.Join(rep.Missing, ", "))
		}
		if len(rep.Inconsistent) > 0 {
			parts = append(parts, "inconsistent: "+strings.Join(rep.Inconsistent, ", "))
		}
		return rep, fmt.Errorf("%w (%s)", ErrFileProblems, strings.Join(parts, "; "))
	}
	return rep, nil
}

func (s *Renderer) file(ctx context.Context, p *patch.Patch, rep *Report) error {
	out := s.Out
	if err := out.FileHeader(p); err != nil {
		return err
	}

	switch {
	case p.IsRemoved:
		return out.RemovedBody()
	case p.IsBinary:
		size, err := s.Files.Size(p.Path)
		if err != nil {
			simplelogger.Log("%s: binary size: %v", p.Path, err)
			size = -1
		}
		return out.BinaryBody(size)
	case p.IsOnlyRenamed() && len(p.Hunks) == 0:
		return out.OnlyRenamedBody()
	}

	content, err := s.Files.ReadFile(p.Path)
	if err != nil {
		if !errors.Is(err, workspace.ErrMissing) {
			return err
		}
		simplelogger.Log("%v", err)
		rep.Missing = append(rep.Missing, p.Path)
		if err := out.MissingMarker(p.Path); err != nil {
			return err
		}
		return s.hunksOnly(ctx, p, rep)
	}

	targetText := string(content)
	targetLines := reconstruct.SplitLines(targetText)
	sourceLines, err := reconstruct.Source(p, targetLines)
	if err != nil {
		simplelogger.Log("%s: %v", p.Path, err)
		rep.Inconsistent = append(rep.Inconsistent, p.Path)
		if err := out.InconsistentMarker(); err != nil {
			return err
		}
		return s.hunksOnly(ctx, p, rep)
	}

	sourcePath := p.SourcePath
	if sourcePath == "" {
		sourcePath = p.Path
	}
	source := render.FileCode(s.Highlighter.Lines(sourcePath, strings.Join(sourceLines, "")))
	target := render.FileCode(s.Highlighter.Lines(p.Path, targetText))
	gutters := render.Gutters{Source: render.Digits(len(sourceLines)), Target: render.Digits(len(targetLines))}

	for _, h := range p.Hunks {
		if err := s.hunk(ctx, h, source, target, gutters, rep); err != nil {
			return err
		}
	}
	return out.FileFooter()
}

// hunksOnly draws p's hunks when the full file is unavailable, highlighting each hunk's lines on their own.
func (s *Renderer) hunksOnly(ctx context.Context, p *patch.Patch, rep *Report) error {
	var gutters render.Gutters
	for _, h := range p.Hunks {
		gutters.Source = max(gutters.Source, render.Digits(h.SourceStart+h.SourceLength))
		gutters.Target = max(gutters.Target, render.Digits(h.TargetStart+h.TargetLength))
	}

	for _, h := range p.Hunks {
		source := s.fragment(p.Path, h.SourceLines(), func(ln patch.Line) int { return ln.SourceLineNo })
		target := s.fragment(p.Path, h.TargetLines(), func(ln patch.Line) int { return ln.TargetLineNo })
		if err := s.hunk(ctx, h, source, target, gutters, rep); err != nil {
			return err
		}
	}
	return s.Out.FileFooter()
}

func (s *Renderer) fragment(path string, lines []patch.Line, lineNo func(patch.Line) int) render.Code {
	if len(lines) == 0 {
		return render.Code{}
	}
	var b strings.Builder
	for _, ln := range lines {
		b.WriteString(ln.Text)
		if !strings.HasSuffix(ln.Text, "\n") {
			b.WriteByte('\n')
		}
	}
	return render.Code{Lines: s.Highlighter.Lines(path, b.String()), First: lineNo(lines[0])}
}

func (s *Renderer) hunk(ctx context.Context, h *patch.Hunk, source, target render.Code, gutters render.Gutters, rep *Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l := align.Layout(h)
	marks := s.Differ.Hunk(l)
	rep.Hunks++
	return s.Out.Hunk(l, marks, source, target, gutters)
}
