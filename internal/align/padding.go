package align

import "github.com/codalotl/splitdiff/internal/patch"

// Padding is the number of blank rows to insert above specific lines, keyed by line number, per side.
type Padding struct {
	Source map[int]int
	Target map[int]int
}

// ComputePadding returns the padding that puts every context pair on the same visual row.
//
// The offset between a pair's source and target line numbers only changes across a run of changes. When it grows (more lines were removed
// than added since the previous pair), the target side is padded above the pair's target line; when it shrinks, the source side is padded.
// With no pairs, both maps are empty.
func ComputePadding(pairs []patch.LinePair) Padding {
	pad := Padding{Source: map[int]int{}, Target: map[int]int{}}
	if len(pairs) == 0 {
		return pad
	}

	current := pairs[0].Source - pairs[0].Target
	for _, p := range pairs[1:] {
		delta := p.Source - p.Target
		change := current - delta
		switch {
		case change < 0:
			pad.Target[p.Target] = -change
		case change > 0:
			pad.Source[p.Source] = change
		}
		current = delta
	}
	return pad
}
