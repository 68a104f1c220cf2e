package intraline

import (
	"github.com/codalotl/splitdiff/internal/q/uni"
	"github.com/pmezard/go-difflib/difflib"
)

// sequenceOps aligns a and b with difflib's SequenceMatcher. Auto-junk is off: on long lines it would discard common clusters like spaces.
func sequenceOps(a, b []uni.Cluster) ([]Op, int) {
	m := difflib.NewMatcherWithJunk(texts(a), texts(b), false, nil)

	var matches int
	for _, block := range m.GetMatchingBlocks() {
		matches += block.Size
	}

	codes := m.GetOpCodes()
	ops := make([]Op, 0, len(codes))
	for _, c := range codes {
		ops = append(ops, Op{
			Tag:    Tag(c.Tag),
			Source: clusterRange(a, c.I1, c.I2),
			Target: clusterRange(b, c.J1, c.J2),
		})
	}
	return ops, matches
}

func texts(clusters []uni.Cluster) []string {
	out := make([]string, len(clusters))
	for i, c := range clusters {
		out[i] = c.Text
	}
	return out
}
