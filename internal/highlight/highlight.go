// Package highlight tokenizes source files into styled per-line tokens using chroma.
package highlight

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/codalotl/splitdiff/internal/q/termformat"
	"github.com/codalotl/splitdiff/internal/simplelogger"
)

// DefaultTheme is the chroma style used when none is configured.
const DefaultTheme = "monokai"

// ErrUnknownTheme is returned by New for a theme chroma does not know.
var ErrUnknownTheme = errors.New("unknown theme")

// Token is a run of text with a single style. Text never contains a newline.
type Token struct {
	Text  string
	Style termformat.Style
}

// Line is the tokens of one line, in order. Concatenating their Text gives the line without its newline.
type Line []Token

// Text returns the line's text.
func (l Line) Text() string {
	var b strings.Builder
	for _, t := range l {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Highlighter tokenizes files with one chroma style.
type Highlighter struct {
	style      *chroma.Style
	name       string
	background termformat.RGB
	foreground termformat.RGB
}

// New returns a Highlighter for the named chroma style ("" means DefaultTheme).
func New(theme string) (*Highlighter, error) {
	if theme == "" {
		theme = DefaultTheme
	}
	style, ok := styles.Registry[theme]
	if !ok {
		style, ok = styles.Registry[strings.ToLower(theme)]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownTheme, theme, strings.Join(Themes(), ", "))
	}

	h := &Highlighter{style: style, name: style.Name, foreground: termformat.White}
	bg := style.Get(chroma.Background)
	if bg.Background.IsSet() {
		h.background = fromColour(bg.Background)
	}
	if bg.Colour.IsSet() {
		h.foreground = fromColour(bg.Colour)
	}
	return h, nil
}

// Themes lists the available theme names, sorted.
func Themes() []string {
	names := make([]string, 0, len(styles.Registry))
	for name := range styles.Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Name is the theme's name.
func (h *Highlighter) Name() string { return h.name }

// Background is the theme's background color.
func (h *Highlighter) Background() termformat.RGB { return h.background }

// Foreground is the theme's default text color.
func (h *Highlighter) Foreground() termformat.RGB { return h.foreground }

// Lines tokenizes text (the whole content of the file at path) and returns one Line per line of text. The lexer is picked from path, then
// from the content; unknown languages are returned as plain text in the theme's default style.
//
// The result always has exactly as many lines as text (a final line without a newline counts; an empty text has none).
func (h *Highlighter) Lines(path string, text string) []Line {
	raw := splitLines(text)
	if len(raw) == 0 {
		return nil
	}

	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		simplelogger.Log("highlight: no lexer for %s, using plain text", path)
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	out := make([]Line, len(raw))

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		simplelogger.Log("highlight: tokenizing %s: %v", path, err)
		for i, r := range raw {
			out[i] = h.plain(r)
		}
		return out
	}

	tokenLines := chroma.SplitTokensIntoLines(it.Tokens())
	for i, r := range raw {
		if i < len(tokenLines) {
			line := h.line(tokenLines[i])
			// Lexers may normalize text; only trust tokens that reproduce the line exactly.
			if line.Text() == r {
				out[i] = line
				continue
			}
		}
		out[i] = h.plain(r)
	}
	return out
}

func (h *Highlighter) line(tokens []chroma.Token) Line {
	var out Line
	for _, tok := range tokens {
		text := strings.TrimRight(tok.Value, "\r\n")
		if text == "" {
			continue
		}
		st := h.tokenStyle(tok.Type)
		if n := len(out); n > 0 && out[n-1].Style == st {
			out[n-1].Text += text
			continue
		}
		out = append(out, Token{Text: text, Style: st})
	}
	return out
}

func (h *Highlighter) plain(text string) Line {
	if text == "" {
		return nil
	}
	return Line{{Text: text, Style: h.tokenStyle(chroma.Text)}}
}

func (h *Highlighter) tokenStyle(tt chroma.TokenType) termformat.Style {
	e := h.style.Get(tt)
	var st termformat.Style
	if e.Colour.IsSet() {
		st = st.WithForeground(fromColour(e.Colour))
	} else {
		st = st.WithForeground(h.foreground)
	}
	if e.Background.IsSet() {
		st = st.WithBackground(fromColour(e.Background))
	} else {
		st = st.WithBackground(h.background)
	}
	st.Bold = e.Bold == chroma.Yes
	st.Italic = e.Italic == chroma.Yes
	return st
}

func fromColour(c chroma.Colour) termformat.RGB {
	return termformat.RGB{R: c.Red(), G: c.Green(), B: c.Blue()}
}

// splitLines splits text into lines without their line endings.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
