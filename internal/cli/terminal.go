package cli

import (
	"io"
	"os"

	"github.com/codalotl/splitdiff/internal/config"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// fallbackWidth is used when the width is not configured and output is not a terminal.
const fallbackWidth = 120

// terminalFile returns v as an *os.File when it is a terminal.
func terminalFile(v any) (*os.File, bool) {
	f, ok := v.(*os.File)
	if !ok || f == nil || !term.IsTerminal(int(f.Fd())) {
		return nil, false
	}
	return f, true
}

// outputWidth returns configured when positive, else the terminal's width, else fallbackWidth.
func outputWidth(configured int, w io.Writer) int {
	if configured > 0 {
		return configured
	}
	if f, ok := terminalFile(w); ok {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return cols
		}
	}
	return fallbackWidth
}

// colorProfile picks the output color profile. auto styles only terminals, honoring NO_COLOR and CLICOLOR_FORCE; always styles regardless,
// using the terminal's advertised profile and true color when nothing is advertised.
func colorProfile(mode config.ColorMode, w io.Writer) termenv.Profile {
	switch mode {
	case config.ColorNever:
		return termenv.Ascii
	case config.ColorAlways:
		p := termenv.NewOutput(w, termenv.WithTTY(true)).ColorProfile()
		if p == termenv.Ascii {
			return termenv.TrueColor
		}
		return p
	default:
		return termenv.NewOutput(w).EnvColorProfile()
	}
}
