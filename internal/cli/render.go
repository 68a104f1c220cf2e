package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/codalotl/splitdiff/internal/config"
	"github.com/codalotl/splitdiff/internal/diff"
	"github.com/codalotl/splitdiff/internal/highlight"
	"github.com/codalotl/splitdiff/internal/intraline"
	"github.com/codalotl/splitdiff/internal/patch"
	qcli "github.com/codalotl/splitdiff/internal/q/cli"
	tf "github.com/codalotl/splitdiff/internal/q/termformat"
	"github.com/codalotl/splitdiff/internal/render"
	"github.com/codalotl/splitdiff/internal/sidebyside"
	"github.com/codalotl/splitdiff/internal/simplelogger"
	"github.com/codalotl/splitdiff/internal/workspace"
)

// runDiff renders the diff read from --input or stdin.
func (a *app) runDiff(c *qcli.Context) error {
	cfg, _, err := a.loadConfig(c)
	if err != nil {
		return err
	}

	var in io.Reader = c.In
	if *a.input != "" {
		f, err := os.Open(*a.input)
		if err != nil {
			return qcli.Exitf(1, "read diff: %w", err)
		}
		defer f.Close()
		in = f
	} else if f, ok := in.(*os.File); ok {
		if _, isTerm := terminalFile(f); isTerm {
			return qcli.Usagef("expected a diff on stdin (ex: git diff | splitdiff) or --input FILE")
		}
	}

	set, err := patch.Parse(in)
	if err != nil {
		return qcli.Exitf(1, "%w", err)
	}

	ws, err := a.workspace()
	if err != nil {
		return qcli.Exitf(1, "%w", err)
	}
	return a.render(c, cfg, set, ws)
}

// runFiles diffs two files and renders the result, reading the new side from the second argument instead of the workspace.
func (a *app) runFiles(c *qcli.Context) error {
	cfg, _, err := a.loadConfig(c)
	if err != nil {
		return err
	}

	dir, err := a.workingDir()
	if err != nil {
		return qcli.Exitf(1, "working directory: %w", err)
	}
	oldPath, newPath := c.Args[0], c.Args[1]
	oldContent, err := readRelative(dir, oldPath)
	if err != nil {
		return qcli.Exitf(1, "%w", err)
	}
	newContent, err := readRelative(dir, newPath)
	if err != nil {
		return qcli.Exitf(1, "%w", err)
	}

	d := diff.DiffText(string(oldContent), string(newContent))
	if !d.HasChanges() {
		return nil
	}
	set, err := patch.ParseString(d.Unified(filepath.ToSlash(oldPath), filepath.ToSlash(newPath), 3))
	if err != nil {
		return qcli.Exitf(1, "%w", err)
	}

	ws := workspace.New(dir)
	for _, p := range set.Patches {
		ws.Override(p.Path, newContent)
	}
	return a.render(c, cfg, set, ws)
}

// readRelative reads path, resolving relative paths against dir.
func readRelative(dir, path string) ([]byte, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return os.ReadFile(path)
}

func (a *app) workspace() (*workspace.Workspace, error) {
	if *a.root != "" {
		root, err := filepath.Abs(*a.root)
		if err != nil {
			return nil, err
		}
		return workspace.New(root), nil
	}
	dir, err := a.workingDir()
	if err != nil {
		return nil, err
	}
	return workspace.Discover(dir)
}

// render draws set and maps the outcome to an exit code.
func (a *app) render(c *qcli.Context, cfg config.Config, set *patch.PatchSet, files sidebyside.Files) error {
	if len(set.Patches) == 0 {
		return nil
	}

	h, err := highlight.New(cfg.Theme)
	if err != nil {
		return qcli.Usagef("%v", err)
	}

	opts := render.DefaultOptions(outputWidth(cfg.Width, a.term))
	opts.Profile = colorProfile(cfg.Color, a.term)
	opts.TabWidth = cfg.TabWidth
	opts.LineNumbers = cfg.LineNumbers
	opts.RowTint = cfg.Blend.RowTint
	opts.Marker = cfg.Blend.Marker
	opts.MarkerForeground = cfg.Blend.MarkerForeground
	opts.Version = Version

	blender := tf.NewBlender(cfg.Blend.CacheSize)
	s := &sidebyside.Renderer{
		Files:       files,
		Out:         render.New(c.Out, render.ThemeFor(h), blender, opts),
		Highlighter: h,
		Differ:      &intraline.Differ{Algorithm: cfg.Intraline.Algorithm, Threshold: cfg.Intraline.Threshold},
	}
	rep, err := s.Render(c.Context, set)

	if simplelogger.Enabled() {
		hits, misses := blender.Stats()
		simplelogger.Log("width %d, profile %v, theme %s: %d files, %d hunks; blend cache %d hits, %d misses", opts.Width, opts.Profile, h.Name(), rep.Files, rep.Hunks, hits, misses)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, errBrokenPipe):
		return qcli.ExitError{Code: 1}
	case errors.Is(err, context.Canceled):
		return qcli.ExitError{Code: ExitInterrupted}
	default:
		// Includes sidebyside.ErrFileProblems: everything was drawn, but not in full.
		return qcli.Exitf(1, "splitdiff: %w", err)
	}
}

// Compile-time check that *workspace.Workspace provides file content.
var _ sidebyside.Files = (*workspace.Workspace)(nil)
