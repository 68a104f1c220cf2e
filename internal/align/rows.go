package align

import "github.com/codalotl/splitdiff/internal/patch"

// Cell is one side of a Row. Index is the line's position in the side's lines (h.SourceLines() or h.TargetLines()).
type Cell struct {
	Index int
	Line  patch.Line
}

// Row is one visual row of a hunk. A side is either a line (non-nil cell), a padding row, or empty (past the end of a shorter side).
type Row struct {
	Source *Cell
	Target *Cell

	PadSource bool
	PadTarget bool
}

// HunkLayout is a hunk arranged for two-column rendering.
type HunkLayout struct {
	Hunk          *patch.Hunk
	SourceLines   []patch.Line
	TargetLines   []patch.Line
	SourceStreaks map[int]Streak
	TargetStreaks map[int]Streak
	Padding       Padding
	Rows          []Row
}

// Layout lays out h. Each side is its lines in order with padding rows inserted above padded lines; the shorter side is then extended
// with empty rows.
func Layout(h *patch.Hunk) HunkLayout {
	l := HunkLayout{
		Hunk:          h,
		SourceLines:   h.SourceLines(),
		TargetLines:   h.TargetLines(),
		SourceStreaks: SourceStreaks(h),
		TargetStreaks: TargetStreaks(h),
		Padding:       ComputePadding(h.ContextPairs()),
	}

	source := column(l.SourceLines, l.Padding.Source, func(ln patch.Line) int { return ln.SourceLineNo })
	target := column(l.TargetLines, l.Padding.Target, func(ln patch.Line) int { return ln.TargetLineNo })

	n := max(len(source), len(target))
	l.Rows = make([]Row, n)
	for i := range l.Rows {
		if i < len(source) {
			if source[i] == nil {
				l.Rows[i].PadSource = true
			} else {
				l.Rows[i].Source = source[i]
			}
		}
		if i < len(target) {
			if target[i] == nil {
				l.Rows[i].PadTarget = true
			} else {
				l.Rows[i].Target = target[i]
			}
		}
	}
	return l
}

// column returns one side's visual rows: a nil entry is a padding row.
func column(lines []patch.Line, pad map[int]int, lineNo func(patch.Line) int) []*Cell {
	out := make([]*Cell, 0, len(lines))
	for i, ln := range lines {
		for range pad[lineNo(ln)] {
			out = append(out, nil)
		}
		out = append(out, &Cell{Index: i, Line: ln})
	}
	return out
}

// VisualRow returns the row index at which the source (or target, if source is false) line numbered lineNo is drawn, or -1.
func (l HunkLayout) VisualRow(lineNo int, source bool) int {
	for i, r := range l.Rows {
		c := r.Target
		if source {
			c = r.Source
		}
		if c == nil {
			continue
		}
		if source && c.Line.SourceLineNo == lineNo || !source && c.Line.TargetLineNo == lineNo {
			return i
		}
	}
	return -1
}
