// Package diff computes line diffs between two texts and renders them as unified diffs.
//
// Representation: A Diff holds the complete OldText/NewText and an ordered slice of hunks that, when concatenated, reconstruct both sides. Each hunk has an Op:
//   - OpEqual: unchanged lines (OldLines == NewLines)
//   - OpInsert: lines present only in the new side
//   - OpDelete: lines present only in the old side
//   - OpReplace: lines changed on both sides
//
// Lines include their trailing '\n' if it was present in the input. Only the last line of a text may lack one.
//
// Getting a diff:
//
//	d := diff.DiffText(oldText, newText)
//	fmt.Print(d.Unified("old.txt", "new.txt", 3))
//
// Unified output is plain text (no color) and can be fed back into a unified diff parser.
package diff
