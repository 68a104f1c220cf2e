package simplelogger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2024, 5, 1, 13, 4, 5, 6_000_000, time.UTC) }
	t.Cleanup(func() { now = prev })
}

func TestLog_WritesAndAppends(t *testing.T) {
	fixedClock(t)
	t.Setenv(EnvVar, filepath.Join(t.TempDir(), "splitdiff.log"))
	require.True(t, Enabled())

	Log("hello %s", "world")
	Log("rendered %d files\n", 3)

	b, err := os.ReadFile(os.Getenv(EnvVar))
	require.NoError(t, err)
	require.Equal(t, "13:04:05.006 hello world\n13:04:05.006 rendered 3 files\n", string(b))
}

func TestLog_NoOpWhenUnset(t *testing.T) {
	t.Setenv(EnvVar, "")
	require.False(t, Enabled())
	Log("should not %s", "panic")
}

func TestLog_NoOpWhenPathIsDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvVar, dir)

	Log("ignored %d", 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
