package render

import (
	"github.com/codalotl/splitdiff/internal/highlight"
	tf "github.com/codalotl/splitdiff/internal/q/termformat"
)

// Theme is the set of colors used outside of syntax highlighting.
type Theme struct {
	Pane       tf.RGB // behind code; the syntax theme's background
	Foreground tf.RGB // default text color of the syntax theme
	Canvas     tf.RGB // behind hatching and empty rows
	Border     tf.RGB // file rules
	LineNumber tf.RGB // gutter text

	Removed tf.RGB // blended into removed lines
	Added   tf.RGB // blended into added lines

	Modified tf.RGB // summary "files changed"
	Renamed  tf.RGB
	Warning  tf.RGB // missing file and inconsistency markers
}

var (
	monokaiPane   = tf.RGB{R: 39, G: 40, B: 34}
	canvas        = tf.MustParseHex("#0d0f0b")
	monokaiAccent = tf.RGB{R: 62, G: 64, B: 54}
)

// DefaultTheme is the theme for the default (monokai) syntax style.
func DefaultTheme() Theme {
	return Theme{
		Pane:       monokaiPane,
		Foreground: tf.MustParseHex("#f8f8f2"),
		Canvas:     canvas,
		Border:     monokaiAccent,
		LineNumber: tf.Blend(tf.MustParseHex("#f8f8f2"), monokaiPane, 0.6),
		Removed:    tf.RGB{R: 255},
		Added:      tf.RGB{G: 255},
		Modified:   tf.MustParseHex("#66d9ef"),
		Renamed:    tf.RGB{G: 205, B: 205},
		Warning:    tf.MustParseHex("#e6db74"),
	}
}

// ThemeFor adapts DefaultTheme to h's syntax style: the pane takes the style's background, and the border and line numbers are derived
// from it. The canvas is a darkened pane.
func ThemeFor(h *highlight.Highlighter) Theme {
	t := DefaultTheme()
	if h.Background() == monokaiPane {
		return t
	}
	t.Pane = h.Background()
	t.Foreground = h.Foreground()
	t.Canvas = tf.Blend(t.Pane, tf.RGB{}, 0.7)
	t.Border = tf.Blend(t.Pane, t.Foreground, 0.1)
	t.LineNumber = tf.Blend(t.Foreground, t.Pane, 0.6)
	return t
}
