package termformat

import (
	"strings"

	"github.com/codalotl/splitdiff/internal/q/uni"
)

// TextWidthWithANSICodes returns how many terminal cells str occupies when printed, ignoring escape sequences (SGR, OSC, DCS, ...).
func TextWidthWithANSICodes(str string) int {
	if str == "" {
		return 0
	}

	width := 0
	segmentStart := 0

	for i := 0; i < len(str); {
		if str[i] != '\x1b' {
			i++
			continue
		}

		if segmentStart < i {
			width += uni.TextWidth(str[segmentStart:i], nil)
		}

		seqLen := ansiSequenceLength(str[i:])
		if seqLen == 0 {
			i++
		} else {
			i += seqLen
		}
		segmentStart = i
	}

	if segmentStart < len(str) {
		width += uni.TextWidth(str[segmentStart:], nil)
	}

	return width
}

// Truncate returns the longest prefix of str (plain text, no escape sequences) that fits in width cells, and that prefix's width. It
// never splits a grapheme cluster.
func Truncate(str string, width int) (string, int) {
	if width <= 0 {
		return "", 0
	}
	w := 0
	for _, c := range uni.Clusters(str, nil) {
		if w+c.Width > width {
			return str[:c.Start], w
		}
		w += c.Width
	}
	return str, w
}

// Repeat returns s repeated until it fills exactly width cells. s must be a single-cell string (ex: "╲"). Returns "" if width <= 0.
func Repeat(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat(s, width)
}

func ansiSequenceLength(s string) int {
	if len(s) == 0 || s[0] != '\x1b' {
		return 0
	}
	if len(s) == 1 {
		return 1
	}

	switch s[1] {
	case '[':
		for i := 2; i < len(s); i++ {
			if final := s[i]; final >= 0x40 && final <= 0x7e {
				return i + 1
			}
		}
		return 0
	case ']':
		for i := 2; i < len(s); i++ {
			if s[i] == '\a' {
				return i + 1
			}
			if s[i] == '\\' && s[i-1] == '\x1b' {
				return i + 1
			}
		}
		return 0
	case 'P', '^', '_':
		for i := 2; i < len(s); i++ {
			if s[i] == '\\' && s[i-1] == '\x1b' {
				return i + 1
			}
		}
		return 0
	default:
		return 2
	}
}
