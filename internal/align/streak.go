package align

import "github.com/codalotl/splitdiff/internal/patch"

// Streak is a maximal run of consecutive changed lines on one side of a hunk. RowStart is the index (into that side's lines) of the
// first line in the run.
type Streak struct {
	RowStart int
	Length   int
}

// DetectStreaks returns, for every index of lines whose Kind is changed, the Streak containing it. Other indices have no entry.
func DetectStreaks(lines []patch.Line, changed patch.LineKind) map[int]Streak {
	streaks := make(map[int]Streak)

	streakStart := 0
	streakLength := 0
	stamp := func() {
		s := Streak{RowStart: streakStart, Length: streakLength}
		for i := streakStart; i < streakStart+streakLength; i++ {
			streaks[i] = s
		}
		streakLength = 0
	}

	for i, ln := range lines {
		if ln.Kind == changed {
			if streakLength == 0 {
				streakStart = i
			}
			streakLength++
			continue
		}
		if streakLength > 0 {
			stamp()
		}
	}
	if streakLength > 0 {
		stamp()
	}

	return streaks
}

// SourceStreaks is the removed-line streaks of h's source side, indexed like h.SourceLines().
func SourceStreaks(h *patch.Hunk) map[int]Streak {
	return DetectStreaks(h.SourceLines(), patch.Removed)
}

// TargetStreaks is the added-line streaks of h's target side, indexed like h.TargetLines().
func TargetStreaks(h *patch.Hunk) map[int]Streak {
	return DetectStreaks(h.TargetLines(), patch.Added)
}
