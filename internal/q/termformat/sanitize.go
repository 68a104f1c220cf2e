package termformat

import (
	"strings"
	"unicode/utf8"

	"github.com/codalotl/splitdiff/internal/q/uni"
)

const hexDigits = "0123456789ABCDEF"

// Sanitize makes s safe to print in a single terminal row.
//   - \t advances to the next multiple of tabWidth columns (if tabWidth > 0; otherwise it becomes a single space).
//   - A trailing "\n" or "\r\n" is dropped; any other \r or \n becomes a space.
//   - Other ASCII control characters (<= 0x1F and 0x7F) are replaced with "\\xXX" (ex: "\\x1B" for ESC).
//   - Invalid UTF-8 is replaced by U+FFFD.
func Sanitize(s string, tabWidth int) string {
	var b strings.Builder
	SanitizeAt(&b, s, 0, tabWidth)
	return b.String()
}

// SanitizeAt writes the sanitized form of s (see Sanitize) to b, assuming s starts at display column col (tabs stops are computed from it).
// It returns the display column after s.
func SanitizeAt(b *strings.Builder, s string, col int, tabWidth int) int {
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune('\uFFFD')
			i++
			col++
			continue
		}
		i += size

		switch r {
		case '\t':
			n := 1
			if tabWidth > 0 {
				n = tabWidth - col%tabWidth
			}
			for j := 0; j < n; j++ {
				b.WriteByte(' ')
			}
			col += n
		case '\n', '\r':
			b.WriteByte(' ')
			col++
		default:
			if r <= 0x7F && (r < 0x20 || r == 0x7F) {
				code := byte(r)
				b.WriteByte('\\')
				b.WriteByte('x')
				b.WriteByte(hexDigits[code>>4])
				b.WriteByte(hexDigits[code&0x0F])
				col += 4
				continue
			}
			b.WriteRune(r)
			col += uni.RuneWidth(r, nil)
		}
	}

	return col
}
