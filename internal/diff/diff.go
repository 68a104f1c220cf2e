package diff

// Op is an operation from old text to new text.
type Op int

// Operations from old text to new text.
const (
	OpEqual Op = iota
	OpInsert
	OpDelete
	OpReplace
)

func (op Op) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Diff is a line diff from old text to new text.
//
// As an illustration: imagine a code file is edited: two separate functions are edited in the middle of the file. This will produce:
//   - Hunks[0] will be OpEqual (the prefix of the file).
//   - Hunks[1] will contain the first change: a group of contiguous lines that were changed. OpReplace.
//   - Hunks[2] will be OpEqual (the lines between the edits).
//   - Hunks[3] will contain the second change. Imagine some code was strictly inserted. OpInsert.
//   - Hunks[last] will be OpEqual (the suffix of the file).
//
// Invariants:
//   - concat(Hunks.OldLines) == OldText
//   - concat(Hunks.NewLines) == NewText
type Diff struct {
	OldText string     // Entire original text.
	NewText string     // Entire revised text.
	Hunks   []DiffHunk // Ordered hunks that cover the whole diff and reconstruct OldText/NewText.
}

// DiffHunk is a contiguous group of lines sharing an Op.
//
// Operations:
//   - OpEqual: OldLines == NewLines
//   - OpInsert: len(OldLines) == 0 && len(NewLines) > 0
//   - OpDelete: len(OldLines) > 0 && len(NewLines) == 0
//   - OpReplace: len(OldLines) > 0 && len(NewLines) > 0
type DiffHunk struct {
	Op       Op
	OldLines []string
	NewLines []string
}

// HasChanges reports whether d contains any non-equal hunk.
func (d Diff) HasChanges() bool {
	for _, h := range d.Hunks {
		if h.Op != OpEqual {
			return true
		}
	}
	return false
}

// defaultEOL is the EOL ('\n').
const defaultEOL = "\n"
