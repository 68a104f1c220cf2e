package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/codalotl/splitdiff/internal/config"
	"github.com/codalotl/splitdiff/internal/simplelogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const valueDiff = `diff --git a/settings.py b/settings.py
index 1111111..2222222 100644
--- a/settings.py
+++ b/settings.py
@@ -2,7 +2,7 @@
 line2 = 2
 line3 = 3
 line4 = 4
-value = 1
+value = 2
 line6 = 6
 line7 = 7
 line8 = 8
`

func tenLines(value int) string {
	var b strings.Builder
	for i := 1; i <= 10; i++ {
		if i == 5 {
			fmt.Fprintf(&b, "value = %d\n", value)
			continue
		}
		fmt.Fprintf(&b, "line%d = %d\n", i, i)
	}
	return b.String()
}

// project returns a fresh repository root holding settings.py, with config lookups isolated from the real user.
func project(t *testing.T) string {
	t.Helper()
	for _, env := range config.EnvVars {
		t.Setenv(env, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "")

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "settings.py"), []byte(tenLines(2)), 0o644))
	return root
}

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, dir string, stdin string, args ...string) result {
	t.Helper()
	return runWith(t, &RunOptions{Dir: dir, In: strings.NewReader(stdin), Context: context.Background()}, args...)
}

func runWith(t *testing.T, opts *RunOptions, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	if opts.Out == nil {
		opts.Out = &out
	}
	opts.Err = &errOut
	code := Run(append([]string{"splitdiff"}, args...), opts)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func TestRun_Version(t *testing.T) {
	r := run(t, t.TempDir(), "", "version")
	assert.Equal(t, 0, r.code)
	assert.Equal(t, "splitdiff "+Version+"\n", r.stdout)
}

func TestVersionString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	tests := []struct {
		version string
		want    string
	}{
		{"1.2.3", "1.2.3"},
		{"v1.2.3", "1.2.3"},
		{"1.3.0-rc.1", "1.3.0-rc.1 (devel)"},
		{"dev", "dev (devel)"},
		{"", " (devel)"},
	}
	for _, tc := range tests {
		Version = tc.version
		assert.Equal(t, tc.want, versionString(), tc.version)
	}
}

func TestRun_RendersStdin(t *testing.T) {
	root := project(t)

	r := run(t, root, valueDiff, "--width", "100", "--color", "never")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Empty(t, r.stderr)

	assert.Contains(t, r.stdout, "settings.py")
	assert.Contains(t, r.stdout, "value = 1")
	assert.Contains(t, r.stdout, "value = 2")
	assert.Contains(t, r.stdout, " @@ -2,7 +2,7 @@ ")
	assert.Contains(t, r.stdout, "/// splitdiff "+Version)
	assert.NotContains(t, r.stdout, "\x1b[")
	for _, line := range strings.Split(strings.TrimRight(r.stdout, "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 100, line)
	}
}

func TestRun_LogsRunStats(t *testing.T) {
	root := project(t)
	logFile := filepath.Join(t.TempDir(), "splitdiff.log")
	t.Setenv(simplelogger.EnvVar, logFile)

	r := run(t, root, valueDiff, "-w", "100", "--color", "always")
	require.Equal(t, 0, r.code, r.stderr)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "width 100")
	assert.Contains(t, string(data), "1 files, 1 hunks")
	assert.Contains(t, string(data), "blend cache")
}

func TestRun_InputFlagAndColor(t *testing.T) {
	root := project(t)
	diffPath := filepath.Join(t.TempDir(), "changes.patch")
	require.NoError(t, os.WriteFile(diffPath, []byte(valueDiff), 0o644))

	r := run(t, root, "", "-i", diffPath, "-w", "100", "--color", "always")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "\x1b[")
	assert.Contains(t, r.stdout, "value")

	r = run(t, root, "", "--input", filepath.Join(root, "nope.patch"))
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "read diff")
}

func TestRun_RootFlag(t *testing.T) {
	root := project(t)
	elsewhere := t.TempDir()

	r := run(t, elsewhere, valueDiff, "--root", root, "-w", "100", "--color", "never")
	require.Equal(t, 0, r.code, r.stderr)
	assert.NotContains(t, r.stdout, "File not found")
}

func TestRun_EmptyDiff(t *testing.T) {
	r := run(t, project(t), "")
	assert.Equal(t, 0, r.code)
	assert.Empty(t, r.stdout)
}

func TestRun_MalformedDiff(t *testing.T) {
	bad := "--- a/f\n+++ b/f\n@@ -1,3 +1,3 @@\n-only one line\n"
	r := run(t, project(t), bad, "--color", "never")
	assert.Equal(t, 1, r.code)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "malformed diff")
}

func TestRun_FileProblemsExitOne(t *testing.T) {
	root := project(t)
	require.NoError(t, os.Remove(filepath.Join(root, "settings.py")))

	r := run(t, root, valueDiff, "-w", "100", "--color", "never")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stdout, "File not found: settings.py")
	assert.Contains(t, r.stdout, "/// splitdiff", "rendering continues after the marker")
	assert.Contains(t, r.stderr, "some files could not be fully rendered")
	assert.Contains(t, r.stderr, "missing: settings.py")

	require.NoError(t, os.WriteFile(filepath.Join(root, "settings.py"), []byte("value = 2\n"), 0o644))
	r = run(t, root, valueDiff, "-w", "100", "--color", "never")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stdout, "Diff does not match file on disk")
	assert.Contains(t, r.stderr, "inconsistent: settings.py")
}

func TestRun_UsageErrors(t *testing.T) {
	root := project(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"threshold range", []string{"--threshold", "2"}, "intraline.threshold must be within [0, 1]"},
		{"algorithm", []string{"--algorithm", "patience"}, "unknown intraline algorithm"},
		{"color mode", []string{"--color", "sometimes"}, "color must be auto, always, or never"},
		{"theme", []string{"--theme", "no-such-theme"}, "unknown theme"},
		{"positional", []string{"extra"}, "expected no args"},
		{"unknown flag", []string{"--nope"}, "unknown flag: --nope"},
		{"files arity", []string{"files", "a"}, "expected 2 args, got 1"},
		{"local flag on subcommand", []string{"files", "--input", "x", "a", "b"}, "unknown flag: --input"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := run(t, root, valueDiff, tc.args...)
			assert.Equal(t, 2, r.code, r.stderr)
			assert.Contains(t, r.stderr, tc.want)
			assert.Contains(t, r.stderr, "Usage:")
		})
	}
}

func TestRun_Files(t *testing.T) {
	root := project(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "old.py"), []byte(tenLines(1)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "new.py"), []byte(tenLines(2)), 0o644))

	r := run(t, root, "", "files", "old.py", "new.py", "-w", "100", "--color", "never")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "new.py")
	assert.Contains(t, r.stdout, "value = 1")
	assert.Contains(t, r.stdout, "value = 2")
	assert.Contains(t, r.stdout, " @@ -2,7 +2,7 @@ ")
	assert.NotContains(t, r.stdout, "Diff does not match")

	r = run(t, root, "", "files", "new.py", "new.py")
	assert.Equal(t, 0, r.code)
	assert.Empty(t, r.stdout)

	r = run(t, root, "", "files", "old.py", "missing.py")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "missing.py")
}

func TestRun_Config(t *testing.T) {
	root := project(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, config.ProjectFileName), []byte("theme: dracula\ntabwidth: 8\n"), 0o644))
	t.Setenv("SPLITDIFF_ALGORITHM", "dmp")

	r := run(t, filepath.Join(root), "", "config", "--width", "80", "--no-line-numbers")
	require.Equal(t, 0, r.code, r.stderr)

	assert.Contains(t, r.stdout, "# source: default\n")
	assert.Contains(t, r.stdout, "# source: yaml_file: "+filepath.Join(root, config.ProjectFileName)+"\n")
	assert.Contains(t, r.stdout, "# source: flags\n")
	assert.Contains(t, r.stdout, "width: 80\n")
	assert.Contains(t, r.stdout, "theme: dracula\n")
	assert.Contains(t, r.stdout, "algorithm: dmp\n")
	assert.Contains(t, r.stdout, "tabwidth: 8\n")
	assert.Contains(t, r.stdout, "linenumbers: false\n")
}

type epipeWriter struct {
	writes int
}

func (w *epipeWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, &os.PathError{Op: "write", Path: "/dev/stdout", Err: syscall.EPIPE}
}

func TestRun_BrokenPipe(t *testing.T) {
	root := project(t)
	w := &epipeWriter{}

	r := runWith(t, &RunOptions{Dir: root, In: strings.NewReader(valueDiff), Out: w, Context: context.Background()}, "--color", "never")
	assert.Equal(t, 1, r.code)
	assert.Empty(t, r.stderr)
	assert.Equal(t, 1, w.writes, "nothing is written after the pipe breaks")
}

func TestRun_Interrupted(t *testing.T) {
	root := project(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runWith(t, &RunOptions{Dir: root, In: strings.NewReader(valueDiff), Context: ctx}, "--color", "never", "-w", "100")
	assert.Equal(t, ExitInterrupted, r.code)
	assert.Empty(t, r.stderr)
	assert.NotContains(t, r.stdout, "value = 1")
}

func TestPipeWriter(t *testing.T) {
	var buf bytes.Buffer
	pw := &pipeWriter{w: &buf}
	n, err := io.WriteString(pw, "ok")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	pw = &pipeWriter{w: &epipeWriter{}}
	_, err = pw.Write([]byte("x"))
	assert.ErrorIs(t, err, errBrokenPipe)
	_, err = pw.Write([]byte("y"))
	assert.ErrorIs(t, err, errBrokenPipe)
}

func TestOutputWidth_NotATerminal(t *testing.T) {
	assert.Equal(t, 77, outputWidth(77, &bytes.Buffer{}))
	assert.Equal(t, fallbackWidth, outputWidth(0, &bytes.Buffer{}))
}
