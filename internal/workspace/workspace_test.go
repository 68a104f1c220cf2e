package workspace

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	deep := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	got, err := FindRoot(deep)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	got, err = FindRoot(root)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindRoot_GitFile(t *testing.T) {
	// Worktrees and submodules have a .git file instead of a directory.
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git"), []byte("gitdir: ../x\n"), 0o644))
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	got, err := FindRoot(sub)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindRoot_Fallback(t *testing.T) {
	dir := t.TempDir()
	got, err := FindRoot(dir)
	require.NoError(t, err)

	// No .git anywhere above a temp dir is not guaranteed, but when there is none the start dir comes back.
	if _, statErr := os.Stat(filepath.Join(got, ".git")); statErr != nil {
		assert.Equal(t, dir, got)
	}
}

func TestReadFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "a.go"), []byte("package pkg\n"), 0o644))

	w := New(root)
	b, err := w.ReadFile("pkg/a.go")
	require.NoError(t, err)
	assert.Equal(t, "package pkg\n", string(b))

	n, err := w.Size("pkg/a.go")
	require.NoError(t, err)
	assert.EqualValues(t, 12, n)
}

func TestReadFile_Missing(t *testing.T) {
	w := New(t.TempDir())
	_, err := w.ReadFile("nope.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissing))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var me *MissingFileError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "nope.txt", me.Path)

	_, err = w.Size("nope.txt")
	assert.ErrorIs(t, err, ErrMissing)
}

func TestOverride(t *testing.T) {
	w := New(t.TempDir())
	w.Override("./x/new.txt", []byte("hello"))

	b, err := w.ReadFile("x/new.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	n, err := w.Size("x/new.txt")
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}
