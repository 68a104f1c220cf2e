package termformat

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#0d0f0b")
	require.NoError(t, err)
	assert.Equal(t, RGB{13, 15, 11}, c)
	assert.Equal(t, "#0d0f0b", c.Hex())

	c, err = ParseHex("272822")
	require.NoError(t, err)
	assert.Equal(t, RGB{39, 40, 34}, c)

	_, err = ParseHex("#nothex")
	require.Error(t, err)
}

func TestMustParseHexPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseHex("zzz") })
}

func TestStyleSequence_TrueColor(t *testing.T) {
	s := Style{Bold: true}.WithForeground(RGB{255, 0, 0}).WithBackground(RGB{0, 0, 255})
	assert.Equal(t, "\x1b[0;1;38;2;255;0;0;48;2;0;0;255m", s.Sequence(termenv.TrueColor))
}

func TestStyleSequence_Ascii(t *testing.T) {
	s := Style{Bold: true}.WithForeground(RGB{255, 0, 0})
	assert.Equal(t, "", s.Sequence(termenv.Ascii))
	assert.Equal(t, "plain", s.Render(termenv.Ascii, "plain"))
}

func TestStyleSequence_Default(t *testing.T) {
	assert.True(t, Style{}.IsDefault())
	assert.Equal(t, "", Style{}.Sequence(termenv.TrueColor))
	assert.Equal(t, "x", Style{}.Render(termenv.TrueColor, "x"))
}

func TestStyleRender(t *testing.T) {
	s := Style{Dim: true}
	assert.Equal(t, "\x1b[0;2mhi"+ANSIReset, s.Render(termenv.TrueColor, "hi"))
	assert.Equal(t, "", s.Render(termenv.TrueColor, ""))
}
