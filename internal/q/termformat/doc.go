// Package termformat produces styled text for ANSI terminals: RGB colors and styles rendered for a detected color profile, memoized color
// blending, and width-aware helpers that ignore escape sequences.
package termformat
