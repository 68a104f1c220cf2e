package patch

import (
	"regexp"
	"strconv"
	"strings"
)

const devNull = "/dev/null"

// fileHeader is one file section of a diff as written in the input. gitdiff reduces a traditional "---"/"+++" pair to a single name, so the
// names are read here.
type fileHeader struct {
	git      bool
	old, new string // traditional headers only; "" if the name is quoted
}

var hunkHeader = regexp.MustCompile(`^@@ -\d+(?:,(\d+))? \+\d+(?:,(\d+))? @@`)

// scanHeaders returns the file sections of diff in order. Hunk bodies are skipped by their declared line counts, so removed or added lines
// that look like headers are not mistaken for them.
func scanHeaders(diff string) []fileHeader {
	lines := strings.SplitAfter(diff, "\n")

	var out []fileHeader
	var inGit bool
	var oldLeft, newLeft int
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if oldLeft > 0 || newLeft > 0 {
			switch {
			case strings.HasPrefix(line, "-"):
				oldLeft--
			case strings.HasPrefix(line, "+"):
				newLeft--
			case strings.HasPrefix(line, `\`):
			default:
				oldLeft--
				newLeft--
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "diff --git "):
			out = append(out, fileHeader{git: true})
			inGit = true
		case strings.HasPrefix(line, "@@ -"):
			if m := hunkHeader.FindStringSubmatch(line); m != nil {
				oldLeft, newLeft = hunkCount(m[1]), hunkCount(m[2])
			}
			inGit = false
		case strings.HasPrefix(line, "--- ") && i+2 < len(lines) && strings.HasPrefix(lines[i+1], "+++ ") && strings.HasPrefix(lines[i+2], "@@ -"):
			if !inGit {
				out = append(out, fileHeader{old: headerName(line[4:]), new: headerName(lines[i+1][4:])})
			}
			inGit = false
			i++
		}
	}
	return out
}

func hunkCount(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// headerName returns the name in a "---"/"+++" line, without any tab-separated timestamp.
func headerName(s string) string {
	s = strings.TrimRight(s, "\r\n")
	if strings.HasPrefix(s, `"`) {
		return ""
	}
	if i := strings.IndexByte(s, '\t'); i >= 0 {
		s = s[:i]
	}
	return s
}

// names returns h's old and new names. The a/ and b/ prefixes are dropped when both sides carry them (or one side is /dev/null), as in
// "hg diff" or "diff -u a/x b/x" output.
func (h fileHeader) names() (oldName, newName string) {
	oldName, newName = h.old, h.new
	oldPrefixed, newPrefixed := strings.HasPrefix(oldName, "a/"), strings.HasPrefix(newName, "b/")
	switch {
	case oldPrefixed && newPrefixed:
		oldName, newName = oldName[2:], newName[2:]
	case oldPrefixed && newName == devNull:
		oldName = oldName[2:]
	case oldName == devNull && newPrefixed:
		newName = newName[2:]
	}
	return oldName, newName
}
