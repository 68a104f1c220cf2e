package diff

import (
	"fmt"
	"strings"
)

// noNewline follows a line that is the last in its file and has no EOL.
const noNewline = `\ No newline at end of file`

// Unified returns d as a unified diff with "--- fromFilename" / "+++ toFilename" headers and contextSize lines of context around each change.
// Changes separated by at most 2*contextSize unchanged lines share a hunk. If d has no changes, Unified returns "".
//
// Hunk headers follow the usual convention for empty sides: "-0,0" for an empty old file, and a zero-length side reports the line before the
// change.
func (d Diff) Unified(fromFilename string, toFilename string, contextSize int) string {
	if !d.HasChanges() {
		return ""
	}
	if contextSize < 0 {
		contextSize = 0
	}

	type outLine struct {
		tag  byte   // ' ', '+', '-'
		text string // line content, including EOL if present
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n", fromFilename)
	fmt.Fprintf(&b, "+++ %s\n", toFilename)

	// 1-based line numbers in old and new files at the start of the next hunk.
	oldPos := 1
	newPos := 1

	i := 0
	for i < len(d.Hunks) {
		h := d.Hunks[i]
		if h.Op == OpEqual {
			oldPos += len(h.OldLines)
			newPos += len(h.NewLines)
			i++
			continue
		}

		var lines []outLine

		// Pre-context from the tail of the previous equal hunk.
		preK := 0
		if i > 0 && d.Hunks[i-1].Op == OpEqual {
			prev := d.Hunks[i-1].OldLines
			preK = min(contextSize, len(prev))
			for _, ln := range prev[len(prev)-preK:] {
				lines = append(lines, outLine{tag: ' ', text: ln})
			}
		}
		oldStart := oldPos - preK
		newStart := newPos - preK

		appendChange := func(hk DiffHunk) {
			for _, ln := range hk.OldLines {
				lines = append(lines, outLine{tag: '-', text: ln})
			}
			for _, ln := range hk.NewLines {
				lines = append(lines, outLine{tag: '+', text: ln})
			}
			oldPos += len(hk.OldLines)
			newPos += len(hk.NewLines)
		}
		appendChange(h)

		// Merge following changes if the equal gap is small enough.
		j := i + 1
		for j < len(d.Hunks) {
			if d.Hunks[j].Op != OpEqual {
				appendChange(d.Hunks[j])
				j++
				continue
			}
			eq := d.Hunks[j].OldLines
			if j+1 < len(d.Hunks) && len(eq) <= 2*contextSize {
				for _, ln := range eq {
					lines = append(lines, outLine{tag: ' ', text: ln})
				}
				oldPos += len(eq)
				newPos += len(eq)
				j++
				appendChange(d.Hunks[j])
				j++
				continue
			}

			// Otherwise, post-context from the head of this equal hunk ends the group.
			postK := min(contextSize, len(eq))
			for _, ln := range eq[:postK] {
				lines = append(lines, outLine{tag: ' ', text: ln})
			}
			oldPos += postK
			newPos += postK
			break
		}
		i = j

		oldCount := 0
		newCount := 0
		for _, ol := range lines {
			switch ol.tag {
			case ' ':
				oldCount++
				newCount++
			case '-':
				oldCount++
			case '+':
				newCount++
			}
		}
		if oldCount == 0 {
			oldStart--
		}
		if newCount == 0 {
			newStart--
		}

		fmt.Fprintf(&b, "@@ -%s +%s @@\n", hunkRange(oldStart, oldCount), hunkRange(newStart, newCount))
		for _, ol := range lines {
			core, hadEOL := trimEOL(ol.text, defaultEOL)
			b.WriteByte(ol.tag)
			b.WriteString(core)
			b.WriteString(defaultEOL)
			if !hadEOL {
				b.WriteString(noNewline)
				b.WriteString(defaultEOL)
			}
		}
	}

	return b.String()
}

func hunkRange(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// Lines splits text into lines the way Diff does: each line keeps its EOL, and the last line may lack one.
func Lines(text string) []string {
	return splitPreserveEOL(text, defaultEOL)
}
