package diff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffText_DocChange(t *testing.T) {
	// This smoke test replaces a 1-line comment with a 2-line variant.

	a := "// IsTestFunc reports whether f is in a test file and is a TestXxx function.\n"
	b := "// IsTestFunc reports whether f is in a test file and names a TestXxx function.\n// It validates signatures.\n"

	diff := DiffText(a, b)
	require.NoError(t, diff.validate())

	require.Len(t, diff.Hunks, 1)
	hunk := diff.Hunks[0]
	require.Equal(t, OpReplace, hunk.Op)
	require.Equal(t, []string{a}, hunk.OldLines)
	require.Len(t, hunk.NewLines, 2)
	assert.Equal(t, a, strings.Join(hunk.OldLines, ""))
	assert.Equal(t, b, strings.Join(hunk.NewLines, ""))
}

func TestDiffText_Basics(t *testing.T) {
	type test struct {
		old    string
		new    string
		expOps []Op
	}

	tests := []test{
		{old: "", new: "", expOps: nil},
		{old: "a\n", new: "a\n", expOps: []Op{OpEqual}},
		{old: "", new: "a\n", expOps: []Op{OpInsert}},
		{old: "a\n", new: "", expOps: []Op{OpDelete}},
		{old: "a\nb\nc\n", new: "a\nB\nc\n", expOps: []Op{OpEqual, OpReplace, OpEqual}},
		{old: "a\nc\n", new: "a\nb\nc\n", expOps: []Op{OpEqual, OpInsert, OpEqual}},
		{old: "a\nb\nc\n", new: "a\nc\n", expOps: []Op{OpEqual, OpDelete, OpEqual}},
		{old: "a\nb", new: "a\nb\n", expOps: []Op{OpEqual, OpReplace}},
	}

	for i, tc := range tests {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			d := DiffText(tc.old, tc.new)
			require.NoError(t, d.validate())
			var ops []Op
			for _, h := range d.Hunks {
				ops = append(ops, h.Op)
			}
			assert.Equal(t, tc.expOps, ops)
			assert.Equal(t, tc.old != tc.new, d.HasChanges())
		})
	}
}

func TestUnified(t *testing.T) {
	var oldLines, newLines []string
	for i := 1; i <= 10; i++ {
		oldLines = append(oldLines, fmt.Sprintf("line %d\n", i))
	}
	newLines = append(newLines, oldLines...)
	newLines[4] = "line five\n"

	d := DiffText(strings.Join(oldLines, ""), strings.Join(newLines, ""))
	got := d.Unified("a/f.txt", "b/f.txt", 3)

	exp := `--- a/f.txt
+++ b/f.txt
@@ -2,7 +2,7 @@
 line 2
 line 3
 line 4
-line 5
+line five
 line 6
 line 7
 line 8
`
	assert.Equal(t, exp, got)
}

func TestUnified_MergesNearbyChanges(t *testing.T) {
	old := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n13\n14\n15\n16\n17\n18\n19\n20\n"
	neu := strings.Replace(strings.Replace(old, "3\n", "three\n", 1), "8\n", "eight\n", 1)
	neu = strings.Replace(neu, "18\n", "eighteen\n", 1)

	got := DiffText(old, neu).Unified("a", "b", 2)
	assert.Equal(t, 2, strings.Count(got, "@@ -"), got)
	assert.Contains(t, got, "@@ -1,10 +1,10 @@\n")
	assert.Contains(t, got, "@@ -16,5 +16,5 @@\n")
}

func TestUnified_EdgeHeaders(t *testing.T) {
	assert.Equal(t, "", DiffText("same\n", "same\n").Unified("a", "b", 3))

	got := DiffText("", "x\ny\n").Unified("a", "b", 3)
	assert.Equal(t, "--- a\n+++ b\n@@ -0,0 +1,2 @@\n+x\n+y\n", got)

	got = DiffText("x\ny\n", "").Unified("a", "b", 3)
	assert.Equal(t, "--- a\n+++ b\n@@ -1,2 +0,0 @@\n-x\n-y\n", got)

	got = DiffText("a\nb\n", "a\nnew\nb\n").Unified("a", "b", 0)
	assert.Equal(t, "--- a\n+++ b\n@@ -1,0 +2 @@\n+new\n", got)
}

func TestUnified_NoNewlineAtEOF(t *testing.T) {
	got := DiffText("a\nb", "a\nc").Unified("x", "x", 1)
	exp := "--- x\n+++ x\n@@ -1,2 +1,2 @@\n a\n-b\n\\ No newline at end of file\n+c\n\\ No newline at end of file\n"
	assert.Equal(t, exp, got)
}

func TestLines(t *testing.T) {
	assert.Nil(t, Lines(""))
	assert.Equal(t, []string{"a\n", "b"}, Lines("a\nb"))
	assert.Equal(t, []string{"a\n", "\n"}, Lines("a\n\n"))
}
