package patch

// LineKind is the role of a Line within a hunk.
type LineKind int

const (
	Context LineKind = iota // unchanged; present on both sides
	Removed                 // present only on the source (old) side
	Added                   // present only on the target (new) side
)

func (k LineKind) String() string {
	switch k {
	case Context:
		return "context"
	case Removed:
		return "removed"
	case Added:
		return "added"
	default:
		return "unknown"
	}
}

// Line is a single line of a hunk.
type Line struct {
	Kind         LineKind
	SourceLineNo int    // 1-based line number in the source file; 0 for Added lines.
	TargetLineNo int    // 1-based line number in the target file; 0 for Removed lines.
	Text         string // Raw content, including the trailing newline if the file had one.
}

// LinePair is the (source, target) line numbers of a Context line.
type LinePair struct {
	Source int
	Target int
}

// Hunk is a contiguous block of changes.
//
// Invariants:
//   - SourceLength == count of Lines whose Kind is Context or Removed.
//   - TargetLength == count of Lines whose Kind is Context or Added.
type Hunk struct {
	SourceStart  int
	SourceLength int
	TargetStart  int
	TargetLength int
	Section      string // Text after the closing "@@", usually the enclosing function. May be empty.
	Lines        []Line
}

// SourceLines returns the hunk's old-side lines (Context and Removed), in order.
func (h *Hunk) SourceLines() []Line {
	return h.side(Removed)
}

// TargetLines returns the hunk's new-side lines (Context and Added), in order.
func (h *Hunk) TargetLines() []Line {
	return h.side(Added)
}

func (h *Hunk) side(changed LineKind) []Line {
	out := make([]Line, 0, len(h.Lines))
	for _, ln := range h.Lines {
		if ln.Kind == Context || ln.Kind == changed {
			out = append(out, ln)
		}
	}
	return out
}

// ContextPairs returns the line numbers of every Context line, in order.
func (h *Hunk) ContextPairs() []LinePair {
	var pairs []LinePair
	for _, ln := range h.Lines {
		if ln.Kind == Context {
			pairs = append(pairs, LinePair{Source: ln.SourceLineNo, Target: ln.TargetLineNo})
		}
	}
	return pairs
}

// Patch is the change to a single file.
type Patch struct {
	Path       string // Post-change path (pre-change path for removed files).
	SourcePath string // Pre-change path. Differs from Path for renames and for traditional diffs between differently named files; empty for added files.

	IsAdded   bool
	IsRemoved bool
	IsRenamed bool
	IsBinary  bool

	AddedLineCount   int
	RemovedLineCount int

	Hunks []*Hunk
}

// IsModified reports whether p changes an existing file in place (or renames it).
func (p *Patch) IsModified() bool {
	return !p.IsAdded && !p.IsRemoved
}

// IsOnlyRenamed reports whether p renames a file without changing any lines.
func (p *Patch) IsOnlyRenamed() bool {
	return p.IsRenamed && p.AddedLineCount == 0 && p.RemovedLineCount == 0
}

// PatchSet is every file change in a diff, in order of appearance.
type PatchSet struct {
	Patches []*Patch
}

// Counts summarizes a PatchSet.
type Counts struct {
	Modified     int
	Added        int
	Removed      int
	LinesAdded   int
	LinesRemoved int
}

// Counts returns file and line totals for s.
func (s *PatchSet) Counts() Counts {
	var c Counts
	for _, p := range s.Patches {
		switch {
		case p.IsAdded:
			c.Added++
		case p.IsRemoved:
			c.Removed++
		default:
			c.Modified++
		}
		c.LinesAdded += p.AddedLineCount
		c.LinesRemoved += p.RemovedLineCount
	}
	return c
}
