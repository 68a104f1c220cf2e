// Package uni measures and segments text the way a monospace terminal displays it.
package uni

import (
	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// Options control width calculation.
//
// Currently only relevant for East Asian code points and their locale.
type Options struct {
	EastAsianWidth   bool // if true, treats ambiguous East Asian code points as 2 wide. Use if the locale is one of CJK.
	TreatEmojiAsWide bool // Only considered if EastAsianWidth. If true, treats emoji as wide (2 columns).
}

// Cluster is one grapheme cluster of a string: the unit a user perceives as a single character.
type Cluster struct {
	Text  string
	Start int // byte offset of Text in the source string
	End   int // byte offset just past Text
	Width int // terminal cells occupied by Text
}

// TextWidth returns the number of terminal cells str occupies. If opts is nil, locale is assumed to be non-East Asian.
func TextWidth(str string, opts *Options) int {
	return conditionFromOptions(opts).StringWidth(str)
}

// RuneWidth returns the number of terminal cells r occupies. If opts is nil, locale is assumed to be non-East Asian.
func RuneWidth(r rune, opts *Options) int {
	return conditionFromOptions(opts).RuneWidth(r)
}

// Clusters splits str into grapheme clusters. Concatenating the Text of the result yields str.
func Clusters(str string, opts *Options) []Cluster {
	if str == "" {
		return nil
	}
	iter := NewGraphemeIterator(str, opts)
	out := make([]Cluster, 0, len(str))
	for iter.Next() {
		out = append(out, Cluster{
			Text:  iter.Value(),
			Start: iter.Start(),
			End:   iter.End(),
			Width: iter.TextWidth(),
		})
	}
	return out
}

// Iterator iterates over the grapheme clusters of a string.
type Iterator struct {
	iter *graphemes.Iterator[string]
	cond *runewidth.Condition
}

// NewGraphemeIterator returns a new grapheme iterator for str. If opts is nil, locale is assumed to be non-East Asian.
func NewGraphemeIterator(str string, opts *Options) *Iterator {
	iter := graphemes.FromString(str)
	return &Iterator{
		iter: &iter,
		cond: conditionFromOptions(opts),
	}
}

func (iter *Iterator) Next() bool {
	return iter.iter.Next()
}

func (iter *Iterator) Value() string {
	return iter.iter.Value()
}

// Start returns the byte position of the current cluster in the original string.
func (iter *Iterator) Start() int {
	return iter.iter.Start()
}

// End returns the byte position after the current cluster. Allows looping over bytes [Start(), End()).
func (iter *Iterator) End() int {
	return iter.iter.End()
}

// TextWidth returns the width of the current cluster in terminal cells.
func (iter *Iterator) TextWidth() int {
	return iter.cond.StringWidth(iter.iter.Value())
}

func conditionFromOptions(opts *Options) *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true

	if opts == nil {
		return cond
	}

	cond.EastAsianWidth = opts.EastAsianWidth
	if opts.EastAsianWidth && opts.TreatEmojiAsWide {
		cond.StrictEmojiNeutral = false
	}

	return cond
}
