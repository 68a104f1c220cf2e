package cascade

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// withHome points the home directory at a fresh temp dir for the duration of the test and returns it.
func withHome(t *testing.T) string {
	t.Helper()
	home := strings.TrimRight(t.TempDir(), string(filepath.Separator))
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	} else {
		t.Setenv("HOME", home)
	}
	return home
}

func TestExpandPath(t *testing.T) {
	home := withHome(t)

	require.Equal(t, "", ExpandPath(""))
	require.True(t, filepath.IsAbs(ExpandPath("foo/bar")))

	require.Equal(t, home, ExpandPath("~"))
	require.Equal(t, home, ExpandPath("~/"))
	require.Equal(t, filepath.Join(home, "sub", "dir"), ExpandPath("~/sub/dir"))

	abs := filepath.Join(home, "already", "abs")
	require.Equal(t, abs, ExpandPath(abs))
	require.NotContains(t, ExpandPath("~/x"), "~")
}

func TestInUserConfigDirectory(t *testing.T) {
	home := withHome(t)

	t.Setenv("XDG_CONFIG_HOME", "")
	if runtime.GOOS != "windows" {
		require.Equal(t, filepath.Join(home, ".config", "splitdiff", "config.yaml"), InUserConfigDirectory("splitdiff/config.yaml"))
	}

	xdg := filepath.Join(home, "xdg")
	t.Setenv("XDG_CONFIG_HOME", xdg)
	require.Equal(t, filepath.Join(xdg, "splitdiff", "config.yaml"), InUserConfigDirectory("splitdiff/config.yaml"))

	// Relative XDG paths are ignored.
	t.Setenv("XDG_CONFIG_HOME", "relative/dir")
	require.True(t, filepath.IsAbs(InUserConfigDirectory("x")))
}
