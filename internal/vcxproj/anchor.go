package vcxproj

import "strings"

// Text anchor helpers shared by every mutator. The documents are never
// parsed as markup: anchors are located by scanning the line list for
// tag-shaped substrings, and edits touch the smallest possible region so
// every untouched line survives byte-identically.

// attrValue extracts the value of a name="..." attribute from a tag line.
// The boolean is false when the attribute is absent or unterminated.
func attrValue(line, name string) (string, bool) {
	marker := name + `="`
	start := strings.Index(line, marker)
	if start < 0 {
		return "", false
	}
	rest := line[start+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// innerText extracts the text between <tag> and </tag> on a single line.
func innerText(line, tag string) (string, bool) {
	opening := "<" + tag + ">"
	closing := "</" + tag + ">"
	start := strings.Index(line, opening)
	if start < 0 {
		return "", false
	}
	rest := line[start+len(opening):]
	end := strings.Index(rest, closing)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// findForward returns the index of the first line at or after start that
// contains marker, or -1.
func findForward(lines []string, start int, marker string) int {
	for i := start; i < len(lines); i++ {
		if strings.Contains(lines[i], marker) {
			return i
		}
	}
	return -1
}

// findBackward returns the index of the last line at or before start that
// contains marker, or -1.
func findBackward(lines []string, start int, marker string) int {
	if start >= len(lines) {
		start = len(lines) - 1
	}
	for i := start; i >= 0; i-- {
		if strings.Contains(lines[i], marker) {
			return i
		}
	}
	return -1
}

// enclosingGroup locates the block around anchor by scanning backward for
// the nearest opening line and forward from there for its closing line.
// These documents nest groups exactly one level deep, so no bracket stack
// is needed. Returns (-1, -1) when either edge is missing.
func enclosingGroup(lines []string, anchor int, opening, closing string) (int, int) {
	from := findBackward(lines, anchor, opening)
	if from < 0 {
		return -1, -1
	}
	to := findForward(lines, from, closing)
	if to < 0 {
		return -1, -1
	}
	return from, to
}

// startsTag reports whether the line begins with prefix after leading
// whitespace.
func startsTag(line, prefix string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), prefix)
}

// endsTag reports whether the trimmed line ends with suffix.
func endsTag(line, suffix string) bool {
	return strings.HasSuffix(strings.TrimSpace(line), suffix)
}

// insertLines splices newLines into lines ahead of index at.
func insertLines(lines []string, at int, newLines ...string) []string {
	out := make([]string, 0, len(lines)+len(newLines))
	out = append(out, lines[:at]...)
	out = append(out, newLines...)
	out = append(out, lines[at:]...)
	return out
}

// removeSpan drops lines[from:to] (half-open) and returns the result.
func removeSpan(lines []string, from, to int) []string {
	return append(lines[:from], lines[to:]...)
}
