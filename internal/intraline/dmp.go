package intraline

import (
	"unicode/utf8"

	"github.com/codalotl/splitdiff/internal/q/uni"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// firstClusterRune is the rune standing in for the first distinct cluster. It is past the surrogate range, so every code stays a valid rune.
const firstClusterRune = 0xE000

// dmpOps aligns a and b with diff-match-patch. Each distinct cluster is encoded as one rune, so the character diff is a cluster diff.
func dmpOps(a, b []uni.Cluster) ([]Op, int) {
	codes := make(map[string]rune)
	encode := func(clusters []uni.Cluster) []rune {
		out := make([]rune, len(clusters))
		for i, c := range clusters {
			r, ok := codes[c.Text]
			if !ok {
				r = rune(firstClusterRune + len(codes))
				codes[c.Text] = r
			}
			out[i] = r
		}
		return out
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(encode(a), encode(b), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var ops []Op
	var matches int
	i, j := 0, 0 // cluster positions in a and b

	// Adjacent deletes and inserts between two equal runs form one replace.
	pendingDel, pendingIns := 0, 0
	flush := func() {
		if pendingDel == 0 && pendingIns == 0 {
			return
		}
		tag := Replace
		switch {
		case pendingIns == 0:
			tag = Delete
		case pendingDel == 0:
			tag = Insert
		}
		ops = append(ops, Op{Tag: tag, Source: clusterRange(a, i, i+pendingDel), Target: clusterRange(b, j, j+pendingIns)})
		i += pendingDel
		j += pendingIns
		pendingDel, pendingIns = 0, 0
	}

	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		if n == 0 {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			ops = append(ops, Op{Tag: Equal, Source: clusterRange(a, i, i+n), Target: clusterRange(b, j, j+n)})
			i += n
			j += n
			matches += n
		case diffmatchpatch.DiffDelete:
			pendingDel += n
		case diffmatchpatch.DiffInsert:
			pendingIns += n
		}
	}
	flush()

	return ops, matches
}
