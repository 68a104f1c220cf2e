// Package render draws a patch set as a two-column terminal view: a summary header, a header rule per file, and per hunk a separator rule
// followed by the old and new lines side by side.
package render

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/codalotl/splitdiff/internal/patch"
	tf "github.com/codalotl/splitdiff/internal/q/termformat"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
)

const (
	hatchChar      = "╲"
	headerRuleChar = "▁"
	footerRuleChar = "▔"
	barChar        = "━"
)

// Options control layout and color.
type Options struct {
	Width       int             // total columns; each pane gets half
	Profile     termenv.Profile // termenv.Ascii disables all styling
	TabWidth    int
	LineNumbers bool

	RowTint          float64 // cross-fade of the highlight color into a changed row's backgrounds
	Marker           float64 // cross-fade of the highlight color into the pane background for intraline spans
	MarkerForeground float64 // cross-fade of the marker background toward white for intraline text

	Name    string // shown in the footer
	Version string
}

// DefaultOptions returns Options for a width-column true-color terminal.
func DefaultOptions(width int) Options {
	return Options{
		Width:            width,
		Profile:          termenv.TrueColor,
		TabWidth:         4,
		LineNumbers:      true,
		RowTint:          tf.DefaultRowTintCrossFade,
		Marker:           tf.DefaultMarkerCrossFade,
		MarkerForeground: tf.DefaultMarkerForegroundCrossFade,
		Name:             "splitdiff",
	}
}

// Renderer writes rendered output to an io.Writer. After the first write error every method returns that error without writing.
type Renderer struct {
	w       io.Writer
	opts    Options
	theme   Theme
	blender *tf.Blender
	lg      *lipgloss.Renderer
	err     error
}

// New returns a Renderer. blender may be nil.
func New(w io.Writer, theme Theme, blender *tf.Blender, opts Options) *Renderer {
	if opts.Width < 2 {
		opts.Width = 2
	}
	lg := lipgloss.NewRenderer(w)
	lg.SetColorProfile(opts.Profile)
	return &Renderer{w: w, opts: opts, theme: theme, blender: blender, lg: lg}
}

// Err returns the first write error.
func (r *Renderer) Err() error { return r.err }

func (r *Renderer) line(s string) error {
	if r.err != nil {
		return r.err
	}
	_, r.err = io.WriteString(r.w, s+"\n")
	return r.err
}

func (r *Renderer) color(c tf.RGB) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

func (r *Renderer) fg(c tf.RGB) lipgloss.Style {
	return r.lg.NewStyle().Foreground(r.color(c))
}

// rule draws a full-width line of char with title (if any) centered in it.
func (r *Renderer) rule(title string, char string, fg tf.RGB, bg *tf.RGB) error {
	ws := []lipgloss.WhitespaceOption{lipgloss.WithWhitespaceChars(char), lipgloss.WithWhitespaceForeground(r.color(fg))}
	if bg != nil {
		ws = append(ws, lipgloss.WithWhitespaceBackground(r.color(*bg)))
	}
	return r.line(r.lg.PlaceHorizontal(r.opts.Width, lipgloss.Center, title, ws...))
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// Summary writes the patch set header: file counts and a bar showing the share of added vs. removed lines.
func (r *Renderer) Summary(c patch.Counts) error {
	center := func(s string) error {
		return r.line(r.lg.PlaceHorizontal(r.opts.Width, lipgloss.Center, s))
	}
	if c.Modified > 0 {
		if err := center(r.fg(r.theme.Modified).Render(fmt.Sprintf("%d %s changed", c.Modified, plural("file", c.Modified)))); err != nil {
			return err
		}
	}
	if c.Added > 0 {
		if err := center(r.fg(r.theme.Added).Render(fmt.Sprintf("%d %s added", c.Added, plural("file", c.Added)))); err != nil {
			return err
		}
	}
	if c.Removed > 0 {
		if err := center(r.fg(r.theme.Removed).Render(fmt.Sprintf("%d %s removed", c.Removed, plural("file", c.Removed)))); err != nil {
			return err
		}
	}

	barWidth := max(r.opts.Width/5, 1)
	changed := max(1, c.LinesAdded+c.LinesRemoved)
	addedWidth := int(float64(c.LinesAdded) / float64(changed) * float64(barWidth))

	bar := lipgloss.JoinHorizontal(lipgloss.Top,
		r.fg(r.theme.Added).Bold(true).Render(fmt.Sprintf("+%d ", c.LinesAdded)),
		r.fg(r.theme.Added).Render(strings.Repeat(barChar, addedWidth)),
		r.fg(r.theme.Removed).Render(strings.Repeat(barChar, barWidth-addedWidth)),
		r.fg(r.theme.Removed).Bold(true).Render(fmt.Sprintf(" -%d", c.LinesRemoved)),
	)
	if err := center(bar); err != nil {
		return err
	}
	return r.line("")
}

// FileHeader writes the rule that starts a file: its path, how it was renamed or added, and its line counts.
func (r *Renderer) FileHeader(p *patch.Patch) error {
	var prefix string
	switch {
	case p.IsRenamed:
		dim := r.lg.NewStyle().Faint(true)
		prefix = dim.Strikethrough(true).Render(path.Base(p.SourcePath)) + dim.Render(" → ")
	case p.IsAdded:
		prefix = r.fg(r.theme.Added).Bold(true).Render("Added ")
	}

	title := " " + prefix + r.lg.NewStyle().Bold(true).Render(p.Path) + " (" +
		r.fg(r.theme.Added).Render(fmt.Sprintf("%d %s", p.AddedLineCount, plural("addition", p.AddedLineCount))) + ", " +
		r.fg(r.theme.Removed).Render(fmt.Sprintf("%d %s", p.RemovedLineCount, plural("removal", p.RemovedLineCount))) + ") "
	return r.rule(title, headerRuleChar, r.theme.Border, nil)
}

// FileFooter writes the rule that ends a file.
func (r *Renderer) FileFooter() error {
	return r.rule("", footerRuleChar, r.theme.Border, nil)
}

// marker writes a hatched band with message in the middle.
func (r *Renderer) marker(message string, color tf.RGB) error {
	canvas := r.theme.Canvas
	title := r.lg.NewStyle().Foreground(r.color(color)).Background(r.color(canvas)).Render(" " + message + " ")
	if err := r.rule("", hatchChar, r.theme.Pane, &canvas); err != nil {
		return err
	}
	if err := r.rule(title, hatchChar, r.theme.Pane, &canvas); err != nil {
		return err
	}
	return r.rule("", hatchChar, r.theme.Pane, &canvas)
}

// RemovedBody is the body of a deleted file.
func (r *Renderer) RemovedBody() error {
	if err := r.marker("File was removed", r.theme.Removed); err != nil {
		return err
	}
	return r.FileFooter()
}

// BinaryBody is the body of a binary file of size bytes. A negative size is not shown.
func (r *Renderer) BinaryBody(size int64) error {
	msg := "File is binary"
	if size >= 0 {
		msg += " · " + humanize.Bytes(uint64(size))
	}
	if err := r.marker(msg, r.theme.Modified); err != nil {
		return err
	}
	return r.FileFooter()
}

// OnlyRenamedBody is the body of a file that was renamed without changes.
func (r *Renderer) OnlyRenamedBody() error {
	if err := r.marker("File was only renamed", r.theme.Modified); err != nil {
		return err
	}
	return r.FileFooter()
}

// MissingMarker notes that the post-change file could not be read. Hunks are still drawn after it, from the diff alone.
func (r *Renderer) MissingMarker(path string) error {
	return r.marker("File not found: "+path+" · showing diff lines only", r.theme.Warning)
}

// InconsistentMarker notes that the diff does not match the file on disk. Hunks are still drawn after it, from the diff alone.
func (r *Renderer) InconsistentMarker() error {
	return r.marker("Diff does not match file on disk · showing diff lines only", r.theme.Warning)
}

// Footer writes the right-aligned program name and version that end the output.
func (r *Renderer) Footer() error {
	slashes := r.fg(tf.MustParseHex("#5f87ff")).Render("/") + r.fg(r.theme.Removed).Render("/") + r.fg(r.theme.Added).Render("/")
	text := strings.TrimSpace(r.opts.Name + " " + r.opts.Version)
	s := slashes + " " + r.lg.NewStyle().Faint(true).Render(text) + "   "
	if tf.TextWidthWithANSICodes(s) > r.opts.Width {
		s = slashes
	}
	return r.line(r.lg.PlaceHorizontal(r.opts.Width, lipgloss.Right, s))
}
