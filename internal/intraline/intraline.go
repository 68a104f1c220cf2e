// Package intraline finds the edited spans inside a changed line, for character-level highlighting.
//
// A removed line and the added line drawn beside it are compared cluster by cluster (grapheme clusters, so a combining accent or an emoji
// is never split). If the lines are similar enough, the spans that differ are reported as byte ranges into each line.
package intraline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codalotl/splitdiff/internal/align"
	"github.com/codalotl/splitdiff/internal/patch"
	"github.com/codalotl/splitdiff/internal/q/uni"
)

// DefaultThreshold is the similarity ratio a pair of lines must exceed to get intraline ranges.
const DefaultThreshold = 0.5

// Algorithm selects how clusters are aligned.
type Algorithm string

const (
	// Sequence uses a longest-matching-block sequence matcher (Ratcliff/Obershelp, as Python's difflib).
	Sequence Algorithm = "sequence"

	// DMP uses Myers' diff from diff-match-patch.
	DMP Algorithm = "dmp"
)

// ErrUnknownAlgorithm is returned by ParseAlgorithm.
var ErrUnknownAlgorithm = errors.New("unknown intraline algorithm")

// ParseAlgorithm parses a configured algorithm name. "" means Sequence.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case "", Sequence:
		return Sequence, nil
	case DMP:
		return DMP, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownAlgorithm, s, Sequence, DMP)
	}
}

// Tag is the kind of an Op.
type Tag byte

const (
	Equal   Tag = 'e'
	Replace Tag = 'r'
	Delete  Tag = 'd'
	Insert  Tag = 'i'
)

func (t Tag) String() string {
	switch t {
	case Equal:
		return "equal"
	case Replace:
		return "replace"
	case Delete:
		return "delete"
	case Insert:
		return "insert"
	default:
		return "unknown"
	}
}

// Range is a half-open byte range [Start, End) into a line.
type Range struct {
	Start int
	End   int
}

// Len is the range's length in bytes.
func (r Range) Len() int { return r.End - r.Start }

// Op transforms Source (a range of the old line) into Target (a range of the new line). Delete has an empty Target; Insert has an empty
// Source.
type Op struct {
	Tag    Tag
	Source Range
	Target Range
}

// Result is the comparison of two lines.
type Result struct {
	// Ratio is 2*M/T, where M is the number of matching clusters and T the total number of clusters in both lines. 1 for two empty lines.
	Ratio float64

	// Ops cover both lines completely, in order.
	Ops []Op

	// Source and Target are the ranges to highlight in each line. Both are nil unless Ratio exceeded the threshold.
	Source []Range
	Target []Range
}

// Changed reports whether r has any range to highlight.
func (r Result) Changed() bool {
	return len(r.Source) > 0 || len(r.Target) > 0
}

// Differ computes intraline ranges. The zero value uses Sequence with a threshold of 0.
type Differ struct {
	Algorithm Algorithm
	Threshold float64
}

// NewDiffer returns a Differ using the Sequence algorithm and DefaultThreshold.
func NewDiffer() *Differ {
	return &Differ{Algorithm: Sequence, Threshold: DefaultThreshold}
}

// Diff compares source and target. A trailing newline on either is ignored.
func (d *Differ) Diff(source, target string) Result {
	source = trimNewline(source)
	target = trimNewline(target)

	a := uni.Clusters(source, nil)
	b := uni.Clusters(target, nil)

	var ops []Op
	var matches int
	switch d.Algorithm {
	case DMP:
		ops, matches = dmpOps(a, b)
	default:
		ops, matches = sequenceOps(a, b)
	}

	res := Result{Ratio: ratio(matches, len(a)+len(b)), Ops: ops}
	if res.Ratio <= d.Threshold {
		return res
	}

	for _, op := range ops {
		switch op.Tag {
		case Delete:
			res.Source = append(res.Source, op.Source)
		case Insert:
			res.Target = append(res.Target, op.Target)
		case Replace:
			res.Source = append(res.Source, op.Source)
			res.Target = append(res.Target, op.Target)
		}
	}
	return res
}

func ratio(matches, total int) float64 {
	if total == 0 {
		return 1
	}
	return 2 * float64(matches) / float64(total)
}

// clusterRange converts the cluster index range [i, j) into a byte range.
func clusterRange(clusters []uni.Cluster, i, j int) Range {
	if i >= j {
		// Empty: anchor at the boundary before cluster i.
		if i < len(clusters) {
			return Range{Start: clusters[i].Start, End: clusters[i].Start}
		}
		if len(clusters) > 0 {
			end := clusters[len(clusters)-1].End
			return Range{Start: end, End: end}
		}
		return Range{}
	}
	return Range{Start: clusters[i].Start, End: clusters[j-1].End}
}

func trimNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// Eligible reports whether row of l pairs a removed line with an added line that should be compared: each must be in a streak, the streaks
// must be the same length, and the two lines must be at the same position within their streaks.
func Eligible(l align.HunkLayout, row align.Row) bool {
	if row.Source == nil || row.Target == nil {
		return false
	}
	if row.Source.Line.Kind != patch.Removed || row.Target.Line.Kind != patch.Added {
		return false
	}
	ss, ok := l.SourceStreaks[row.Source.Index]
	if !ok {
		return false
	}
	ts, ok := l.TargetStreaks[row.Target.Index]
	if !ok {
		return false
	}
	if ss.Length != ts.Length {
		return false
	}
	return row.Source.Index-ss.RowStart == row.Target.Index-ts.RowStart
}

// Hunk returns the intraline Result for every eligible row of l, keyed by row index. Rows whose lines are too dissimilar are omitted.
func (d *Differ) Hunk(l align.HunkLayout) map[int]Result {
	out := make(map[int]Result)
	for i, row := range l.Rows {
		if !Eligible(l, row) {
			continue
		}
		res := d.Diff(row.Source.Line.Text, row.Target.Line.Text)
		if res.Changed() {
			out[i] = res
		}
	}
	return out
}
