package termformat

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// ANSIReset resets all SGR attributes.
const ANSIReset = "\x1b[0m"

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// White is #ffffff.
var White = RGB{255, 255, 255}

// ParseHex parses "#rrggbb" (or "rrggbb").
func ParseHex(s string) (RGB, error) {
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("termformat: invalid hex color %q: %w", s, err)
	}
	return fromColorful(c), nil
}

// MustParseHex is ParseHex, panicking on error. Intended for package-level color constants.
func MustParseHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns c as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) String() string {
	return c.Hex()
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255.0, G: float64(c.G) / 255.0, B: float64(c.B) / 255.0}
}

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Style is a set of SGR attributes. The zero value is the terminal's default style.
type Style struct {
	Foreground    RGB
	Background    RGB
	HasForeground bool
	HasBackground bool

	Bold          bool
	Dim           bool
	Italic        bool
	Strikethrough bool
}

// WithForeground returns a copy of s with its foreground set to c.
func (s Style) WithForeground(c RGB) Style {
	s.Foreground = c
	s.HasForeground = true
	return s
}

// WithBackground returns a copy of s with its background set to c.
func (s Style) WithBackground(c RGB) Style {
	s.Background = c
	s.HasBackground = true
	return s
}

// IsDefault reports whether s sets nothing.
func (s Style) IsDefault() bool {
	return s == Style{}
}

// Sequence returns the SGR escape sequence that switches the terminal to s under profile p. It always starts from a reset, so the result
// does not depend on the previous state. For termenv.Ascii, or when s is the default style, Sequence returns "".
func (s Style) Sequence(p termenv.Profile) string {
	if p == termenv.Ascii || s.IsDefault() {
		return ""
	}

	params := []string{"0"}
	if s.Bold {
		params = append(params, "1")
	}
	if s.Dim {
		params = append(params, "2")
	}
	if s.Italic {
		params = append(params, "3")
	}
	if s.Strikethrough {
		params = append(params, "9")
	}
	if s.HasForeground {
		if seq := colorSequence(p, s.Foreground, false); seq != "" {
			params = append(params, seq)
		}
	}
	if s.HasBackground {
		if seq := colorSequence(p, s.Background, true); seq != "" {
			params = append(params, seq)
		}
	}
	return termenv.CSI + strings.Join(params, ";") + "m"
}

// Render wraps text in s's sequence and a trailing reset. Under termenv.Ascii it returns text unchanged.
func (s Style) Render(p termenv.Profile, text string) string {
	seq := s.Sequence(p)
	if seq == "" || text == "" {
		return text
	}
	return seq + text + ANSIReset
}

func colorSequence(p termenv.Profile, c RGB, bg bool) string {
	col := p.Color(c.Hex())
	if col == nil {
		return ""
	}
	return col.Sequence(bg)
}
