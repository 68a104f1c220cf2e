// Package align places the two sides of a hunk into visual rows.
//
// The old and new sides of a hunk have different lengths, but unchanged (context) lines must land on the same row in both columns. align
// computes how many blank rows to insert above specific lines to achieve that (ComputePadding), which rows belong to runs of consecutive
// removed or added lines (DetectStreaks), and the resulting row-by-row layout (Layout).
package align
