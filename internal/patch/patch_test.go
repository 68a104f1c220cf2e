package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modifiedDiff = `diff --git a/config.py b/config.py
index 3b18e51..a2c4f90 100644
--- a/config.py
+++ b/config.py
@@ -2,7 +2,7 @@ def settings():
 line 2
 line 3
 line 4
-value = 1
+value = 2
 line 6
 line 7
 line 8
`

func TestParse_Modified(t *testing.T) {
	set, err := ParseString(modifiedDiff)
	require.NoError(t, err)
	require.Len(t, set.Patches, 1)

	p := set.Patches[0]
	assert.Equal(t, "config.py", p.Path)
	assert.Equal(t, "config.py", p.SourcePath)
	assert.True(t, p.IsModified())
	assert.False(t, p.IsBinary)
	assert.Equal(t, 1, p.AddedLineCount)
	assert.Equal(t, 1, p.RemovedLineCount)

	require.Len(t, p.Hunks, 1)
	h := p.Hunks[0]
	assert.Equal(t, 2, h.SourceStart)
	assert.Equal(t, 7, h.SourceLength)
	assert.Equal(t, 2, h.TargetStart)
	assert.Equal(t, 7, h.TargetLength)
	assert.Equal(t, "def settings():", h.Section)
	require.Len(t, h.Lines, 8)

	removed := h.Lines[3]
	assert.Equal(t, Removed, removed.Kind)
	assert.Equal(t, 5, removed.SourceLineNo)
	assert.Equal(t, 0, removed.TargetLineNo)
	assert.Equal(t, "value = 1\n", removed.Text)

	added := h.Lines[4]
	assert.Equal(t, Added, added.Kind)
	assert.Equal(t, 0, added.SourceLineNo)
	assert.Equal(t, 5, added.TargetLineNo)

	last := h.Lines[7]
	assert.Equal(t, Context, last.Kind)
	assert.Equal(t, 8, last.SourceLineNo)
	assert.Equal(t, 8, last.TargetLineNo)
}

func TestHunkSides(t *testing.T) {
	set, err := ParseString(modifiedDiff)
	require.NoError(t, err)
	h := set.Patches[0].Hunks[0]

	src := h.SourceLines()
	require.Len(t, src, h.SourceLength)
	for _, ln := range src {
		assert.NotEqual(t, Added, ln.Kind)
	}
	assert.Equal(t, "value = 1\n", src[3].Text)

	tgt := h.TargetLines()
	require.Len(t, tgt, h.TargetLength)
	for _, ln := range tgt {
		assert.NotEqual(t, Removed, ln.Kind)
	}
	assert.Equal(t, "value = 2\n", tgt[3].Text)

	assert.Equal(t, []LinePair{{2, 2}, {3, 3}, {4, 4}, {6, 6}, {7, 7}, {8, 8}}, h.ContextPairs())
}

func TestParse_AddedRemovedRenamedBinary(t *testing.T) {
	diff := `diff --git a/new.txt b/new.txt
new file mode 100644
index 0000000..3b18e51
--- /dev/null
+++ b/new.txt
@@ -0,0 +1,2 @@
+hello
+world
diff --git a/old.txt b/old.txt
deleted file mode 100644
index 3b18e51..0000000
--- a/old.txt
+++ /dev/null
@@ -1 +0,0 @@
-bye
diff --git a/before.go b/after.go
similarity index 100%
rename from before.go
rename to after.go
diff --git a/logo.png b/logo.png
index 1111111..2222222 100644
Binary files a/logo.png and b/logo.png differ
`
	set, err := ParseString(diff)
	require.NoError(t, err)
	require.Len(t, set.Patches, 4)

	added := set.Patches[0]
	assert.True(t, added.IsAdded)
	assert.Equal(t, "new.txt", added.Path)
	assert.Equal(t, "", added.SourcePath)
	assert.Equal(t, 2, added.AddedLineCount)
	require.Len(t, added.Hunks, 1)
	assert.Equal(t, 1, added.Hunks[0].Lines[0].TargetLineNo)
	assert.Equal(t, 2, added.Hunks[0].Lines[1].TargetLineNo)

	removed := set.Patches[1]
	assert.True(t, removed.IsRemoved)
	assert.Equal(t, "old.txt", removed.Path)
	assert.Equal(t, 1, removed.RemovedLineCount)

	renamed := set.Patches[2]
	assert.True(t, renamed.IsRenamed)
	assert.True(t, renamed.IsOnlyRenamed())
	assert.Equal(t, "after.go", renamed.Path)
	assert.Equal(t, "before.go", renamed.SourcePath)

	binary := set.Patches[3]
	assert.True(t, binary.IsBinary)
	assert.Equal(t, "logo.png", binary.Path)

	c := set.Counts()
	assert.Equal(t, Counts{Modified: 2, Added: 1, Removed: 1, LinesAdded: 2, LinesRemoved: 1}, c)
}

func TestParse_NoNewlineAtEOF(t *testing.T) {
	diff := `--- a.txt
+++ a.txt
@@ -1,2 +1,2 @@
 first
-second
\ No newline at end of file
+second!
\ No newline at end of file
`
	set, err := ParseString(diff)
	require.NoError(t, err)
	require.Len(t, set.Patches, 1)

	lines := set.Patches[0].Hunks[0].Lines
	require.Len(t, lines, 3)
	assert.Equal(t, "first\n", lines[0].Text)
	assert.Equal(t, "second", lines[1].Text)
	assert.Equal(t, "second!", lines[2].Text)
}

func TestParse_TraditionalNames(t *testing.T) {
	tests := []struct {
		name       string
		diff       string
		wantPath   string
		wantSource string
	}{
		{
			name:       "a/ and b/ prefixes",
			diff:       "--- a/foo.txt\n+++ b/foo.txt\n@@ -1,2 +1,2 @@\n a\n-b\n+c\n",
			wantPath:   "foo.txt",
			wantSource: "foo.txt",
		},
		{
			name:       "timestamps",
			diff:       "--- a/foo.txt\t2024-01-02 10:00:00.000000000 +0000\n+++ b/foo.txt\t2024-01-02 11:00:00.000000000 +0000\n@@ -1 +1 @@\n-b\n+c\n",
			wantPath:   "foo.txt",
			wantSource: "foo.txt",
		},
		{
			name:       "equal names",
			diff:       "--- src/x.go\n+++ src/x.go\n@@ -1 +1 @@\n-b\n+c\n",
			wantPath:   "src/x.go",
			wantSource: "src/x.go",
		},
		{
			name:       "different names",
			diff:       "--- old.py\n+++ new.py\n@@ -1 +1 @@\n-b\n+c\n",
			wantPath:   "new.py",
			wantSource: "old.py",
		},
		{
			name:       "only one side prefixed",
			diff:       "--- a/foo.txt\n+++ foo.txt\n@@ -1 +1 @@\n-b\n+c\n",
			wantPath:   "foo.txt",
			wantSource: "a/foo.txt",
		},
		{
			name:       "added",
			diff:       "--- /dev/null\n+++ b/new.txt\n@@ -0,0 +1 @@\n+c\n",
			wantPath:   "new.txt",
			wantSource: "",
		},
		{
			name:       "removed",
			diff:       "--- a/gone.txt\n+++ /dev/null\n@@ -1 +0,0 @@\n-b\n",
			wantPath:   "gone.txt",
			wantSource: "gone.txt",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			set, err := ParseString(tc.diff)
			require.NoError(t, err)
			require.Len(t, set.Patches, 1)
			p := set.Patches[0]
			assert.Equal(t, tc.wantPath, p.Path)
			assert.Equal(t, tc.wantSource, p.SourcePath)
			assert.False(t, p.IsRenamed)
		})
	}
}

func TestParse_TraditionalHeaderLookalikesInHunk(t *testing.T) {
	// The removed "-- x" and added "++ y" lines render as "--- x" and "+++ y".
	diff := `--- a/first.txt
+++ b/first.txt
@@ -1,2 +1,2 @@
--- x
+++ y
 keep
--- a/second.txt
+++ b/second.txt
@@ -1 +1 @@
-old
+new
`
	set, err := ParseString(diff)
	require.NoError(t, err)
	require.Len(t, set.Patches, 2)
	assert.Equal(t, "first.txt", set.Patches[0].Path)
	assert.Equal(t, "second.txt", set.Patches[1].Path)
	assert.Equal(t, "-- x\n", set.Patches[0].Hunks[0].Lines[0].Text)
}

func TestParse_MixedGitAndTraditional(t *testing.T) {
	diff := modifiedDiff + "--- a/notes.txt\n+++ b/notes.txt\n@@ -1 +1 @@\n-b\n+c\n"
	set, err := ParseString(diff)
	require.NoError(t, err)
	require.Len(t, set.Patches, 2)
	assert.Equal(t, "config.py", set.Patches[0].Path)
	assert.Equal(t, "notes.txt", set.Patches[1].Path)
	assert.Equal(t, "notes.txt", set.Patches[1].SourcePath)
}

func TestParse_Malformed(t *testing.T) {
	diff := `--- a.txt
+++ a.txt
@@ -1,3 +1,3 @@
-a
+b
`
	_, err := ParseString(diff)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParse_Empty(t *testing.T) {
	set, err := ParseString("")
	require.NoError(t, err)
	assert.Empty(t, set.Patches)
	assert.Equal(t, Counts{}, set.Counts())
}

func TestLineKindString(t *testing.T) {
	assert.Equal(t, "context", Context.String())
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "unknown", LineKind(9).String())
}
