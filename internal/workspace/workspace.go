// Package workspace finds the project a diff refers to and reads post-change file content from it.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrMissing means a file named by the diff does not exist in the workspace.
var ErrMissing = errors.New("file not found in workspace")

// MissingFileError is returned when a file named by the diff cannot be found. It matches both ErrMissing and fs.ErrNotExist.
type MissingFileError struct {
	Path string // path as named by the diff
	Abs  string // where it was looked for
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s: %v (looked at %s)", e.Path, ErrMissing, e.Abs)
}

func (e *MissingFileError) Unwrap() []error { return []error{ErrMissing, fs.ErrNotExist} }

// FindRoot returns the nearest directory at or above start that contains a ".git" entry (directory or file, as in worktrees and
// submodules). If there is none, it returns start.
func FindRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for dir := abs; ; {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}

// Workspace reads files relative to Root. Content set with Override is returned instead of disk content.
type Workspace struct {
	Root      string
	overrides map[string][]byte
}

// New returns a Workspace rooted at root.
func New(root string) *Workspace {
	return &Workspace{Root: root}
}

// Discover returns a Workspace rooted at FindRoot(cwd).
func Discover(cwd string) (*Workspace, error) {
	root, err := FindRoot(cwd)
	if err != nil {
		return nil, err
	}
	return New(root), nil
}

// Override makes ReadFile and Size report content for path instead of reading the disk.
func (w *Workspace) Override(path string, content []byte) {
	if w.overrides == nil {
		w.overrides = make(map[string][]byte)
	}
	w.overrides[filepath.Clean(path)] = content
}

// Abs returns where path (relative to Root) is on disk. Absolute paths are returned unchanged.
func (w *Workspace) Abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(w.Root, filepath.FromSlash(path))
}

// ReadFile returns the content of path. A missing file yields a *MissingFileError.
func (w *Workspace) ReadFile(path string) ([]byte, error) {
	if b, ok := w.overrides[filepath.Clean(path)]; ok {
		return b, nil
	}
	abs := w.Abs(path)
	b, err := os.ReadFile(abs)
	if err != nil {
		return nil, w.wrap(path, abs, err)
	}
	return b, nil
}

// Size returns the size of path in bytes.
func (w *Workspace) Size(path string) (int64, error) {
	if b, ok := w.overrides[filepath.Clean(path)]; ok {
		return int64(len(b)), nil
	}
	abs := w.Abs(path)
	info, err := os.Stat(abs)
	if err != nil {
		return 0, w.wrap(path, abs, err)
	}
	return info.Size(), nil
}

func (w *Workspace) wrap(path, abs string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &MissingFileError{Path: path, Abs: abs}
	}
	return fmt.Errorf("reading %s: %w", path, err)
}
