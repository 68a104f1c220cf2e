package diff

import (
	"fmt"
	"slices"
	"strings"
)

// validate checks the Diff invariants and returns an error on the first violation.
func (d Diff) validate() error {
	var oldConcat, newConcat strings.Builder
	for hi, h := range d.Hunks {
		switch h.Op {
		case OpEqual:
			if !slices.Equal(h.OldLines, h.NewLines) {
				return fmt.Errorf("hunk[%d]: OpEqual requires OldLines==NewLines", hi)
			}
		case OpInsert:
			if len(h.OldLines) != 0 || len(h.NewLines) == 0 {
				return fmt.Errorf("hunk[%d]: OpInsert requires only new lines", hi)
			}
		case OpDelete:
			if len(h.OldLines) == 0 || len(h.NewLines) != 0 {
				return fmt.Errorf("hunk[%d]: OpDelete requires only old lines", hi)
			}
		case OpReplace:
			if len(h.OldLines) == 0 || len(h.NewLines) == 0 {
				return fmt.Errorf("hunk[%d]: OpReplace requires old and new lines", hi)
			}
		}

		for li, ln := range h.OldLines {
			if i := strings.Index(ln, defaultEOL); i >= 0 && i != len(ln)-len(defaultEOL) {
				return fmt.Errorf("hunk[%d].old[%d]: line contains an inner EOL", hi, li)
			}
			oldConcat.WriteString(ln)
		}
		for li, ln := range h.NewLines {
			if i := strings.Index(ln, defaultEOL); i >= 0 && i != len(ln)-len(defaultEOL) {
				return fmt.Errorf("hunk[%d].new[%d]: line contains an inner EOL", hi, li)
			}
			newConcat.WriteString(ln)
		}
	}

	if d.OldText != oldConcat.String() {
		return fmt.Errorf("diff: hunks do not reconstruct OldText")
	}
	if d.NewText != newConcat.String() {
		return fmt.Errorf("diff: hunks do not reconstruct NewText")
	}
	return nil
}
