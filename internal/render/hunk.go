package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/codalotl/splitdiff/internal/align"
	"github.com/codalotl/splitdiff/internal/highlight"
	"github.com/codalotl/splitdiff/internal/intraline"
	"github.com/codalotl/splitdiff/internal/patch"
	tf "github.com/codalotl/splitdiff/internal/q/termformat"
	"github.com/muesli/termenv"
)

// The first token of a changed row is tinted toward the highlight color, then lightened.
const (
	firstTokenTint    = 0.5
	firstTokenLighten = 0.4
)

// Code is one side of a file, highlighted, addressed by line number: Lines[0] is line First.
type Code struct {
	Lines []highlight.Line
	First int
}

// FileCode is the Code for a whole file.
func FileCode(lines []highlight.Line) Code {
	return Code{Lines: lines, First: 1}
}

func (c Code) line(n int) (highlight.Line, bool) {
	i := n - c.First
	if i < 0 || i >= len(c.Lines) {
		return nil, false
	}
	return c.Lines[i], true
}

// Gutters is the number of digits reserved for line numbers on each side. Size them from the largest line number in the file so every
// hunk of a file lines up.
type Gutters struct {
	Source int
	Target int
}

// Digits returns the number of decimal digits in n (at least 1).
func Digits(n int) int {
	return len(strconv.Itoa(max(n, 1)))
}

// HunkHeader writes the separator rule before a hunk: "@@ -s,l +s,l @@ section".
func (r *Renderer) HunkHeader(h *patch.Hunk) error {
	canvas := r.lg.NewStyle().Background(r.color(r.theme.Canvas))
	dim := canvas.Faint(true)
	title := dim.Render(" @@ ") +
		canvas.Foreground(r.color(r.theme.Removed)).Render(fmt.Sprintf("-%d,%d", h.SourceStart, h.SourceLength)) +
		canvas.Render(" ") +
		canvas.Foreground(r.color(r.theme.Added)).Render(fmt.Sprintf("+%d,%d", h.TargetStart, h.TargetLength)) +
		dim.Render(strings.TrimRight(" @@ "+h.Section, " ")+" ")
	bg := r.theme.Canvas
	return r.rule(title, hatchChar, r.theme.Pane, &bg)
}

// Hunk writes the header rule and the rows of l. marks holds intraline results by row index (see intraline.Differ.Hunk).
func (r *Renderer) Hunk(l align.HunkLayout, marks map[int]intraline.Result, source, target Code, g Gutters) error {
	if err := r.HunkHeader(l.Hunk); err != nil {
		return err
	}

	leftW := r.opts.Width / 2
	rightW := r.opts.Width - leftW

	for i, row := range l.Rows {
		mark := marks[i]
		left := r.side(row.Source, row.PadSource, source, g.Source, leftW, r.theme.Removed, mark.Source, func(ln patch.Line) int { return ln.SourceLineNo })
		right := r.side(row.Target, row.PadTarget, target, g.Target, rightW, r.theme.Added, mark.Target, func(ln patch.Line) int { return ln.TargetLineNo })
		if err := r.line(left + right); err != nil {
			return err
		}
	}
	return nil
}

// side renders one pane of one row, exactly width cells wide.
func (r *Renderer) side(cell *align.Cell, pad bool, code Code, digits int, width int, highlightColor tf.RGB, ranges []intraline.Range, lineNo func(patch.Line) int) string {
	canvas := tf.Style{}.WithBackground(r.theme.Canvas)
	cw := &cellWriter{profile: r.opts.Profile, width: width, tabWidth: r.opts.TabWidth}

	switch {
	case pad:
		cw.write(tf.Repeat(hatchChar, width), canvas.WithForeground(r.theme.Pane))
		return cw.finish(canvas)
	case cell == nil:
		return cw.finish(canvas)
	}

	ln := cell.Line
	n := lineNo(ln)
	changed := ln.Kind != patch.Context

	pane := r.theme.Pane
	if changed {
		pane = r.blender.Blend(highlightColor, r.theme.Pane, r.opts.RowTint)
	}

	if r.opts.LineNumbers {
		if digits <= 0 {
			digits = Digits(n)
		}
		num := tf.Style{}.WithForeground(r.theme.LineNumber).WithBackground(pane)
		cw.write(fmt.Sprintf(" %*d ", digits, n), num)
	}
	cw.codeCol = cw.col

	raw := strings.TrimRight(ln.Text, "\r\n")
	tokens, ok := code.line(n)
	if !ok || tokens.Text() != raw {
		tokens = highlight.Line{{Text: raw, Style: tf.Style{}.WithForeground(r.theme.Foreground).WithBackground(r.theme.Pane)}}
	}

	markerBg := r.blender.Blend(highlightColor, r.theme.Pane, r.opts.Marker)
	markerFg := r.blender.Blend(markerBg, tf.White, r.opts.MarkerForeground)

	for _, pc := range split(tokens, ranges) {
		st := pc.style
		if changed {
			bg := r.theme.Pane
			if st.HasBackground {
				bg = st.Background
			}
			st = st.WithBackground(r.blender.Blend(highlightColor, bg, r.opts.RowTint))
			if pc.token == 0 {
				fg := r.theme.Foreground
				if st.HasForeground {
					fg = st.Foreground
				}
				st = st.WithForeground(r.blender.Blend(r.blender.Blend(highlightColor, fg, firstTokenTint), tf.White, firstTokenLighten))
			}
		}
		if pc.marked {
			st = st.WithBackground(markerBg).WithForeground(markerFg)
		}
		cw.writeCode(pc.text, st)
	}

	return cw.finish(tf.Style{}.WithBackground(pane))
}

// piece is part of a token, entirely inside or outside of the intraline ranges.
type piece struct {
	text   string
	style  tf.Style
	token  int // index of the token it came from
	marked bool
}

// split cuts line's tokens at the boundaries of ranges (byte offsets into the line's text). ranges must be sorted and non-overlapping.
func split(line highlight.Line, ranges []intraline.Range) []piece {
	var out []piece
	off := 0
	for ti, tok := range line {
		start, end := off, off+len(tok.Text)
		for pos := start; pos < end; {
			marked := false
			next := end
			for _, rg := range ranges {
				if rg.Start <= pos && pos < rg.End {
					marked = true
					next = min(rg.End, end)
					break
				}
				if rg.Start > pos {
					next = min(rg.Start, end)
					break
				}
			}
			out = append(out, piece{text: tok.Text[pos-start : next-start], style: tok.Style, token: ti, marked: marked})
			pos = next
		}
		off = end
	}
	return out
}

// cellWriter builds a fixed-width run of styled text, emitting SGR sequences only when the style changes. Text past width is dropped.
type cellWriter struct {
	b        strings.Builder
	profile  termenv.Profile
	width    int
	col      int
	codeCol  int // column at which code starts; tab stops are relative to it
	tabWidth int
	cur      string
	full     bool // no more text fits
}

func (c *cellWriter) setStyle(st tf.Style) {
	seq := st.Sequence(c.profile)
	if seq == c.cur {
		return
	}
	if seq == "" {
		c.b.WriteString(tf.ANSIReset)
	} else {
		c.b.WriteString(seq)
	}
	c.cur = seq
}

// write writes plain text (no control characters) in st.
func (c *cellWriter) write(text string, st tf.Style) {
	if c.full || text == "" {
		return
	}
	s, w := tf.Truncate(text, c.width-c.col)
	if len(s) < len(text) {
		c.full = true
	}
	if s == "" {
		return
	}
	c.setStyle(st)
	c.b.WriteString(s)
	c.col += w
}

// writeCode writes source code text in st, expanding tabs and escaping control characters.
func (c *cellWriter) writeCode(text string, st tf.Style) {
	if c.full || text == "" {
		return
	}
	var b strings.Builder
	tf.SanitizeAt(&b, text, c.col-c.codeCol, c.tabWidth)
	c.write(b.String(), st)
}

// finish pads the cell to its width with spaces in fill and returns it, ending in the default style.
func (c *cellWriter) finish(fill tf.Style) string {
	if c.col < c.width {
		c.setStyle(fill)
		c.b.WriteString(strings.Repeat(" ", c.width-c.col))
		c.col = c.width
	}
	if c.cur != "" {
		c.b.WriteString(tf.ANSIReset)
		c.cur = ""
	}
	return c.b.String()
}
