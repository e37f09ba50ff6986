package hierarchy

import "strings"

// Qualified-name helpers. Node names encode their ancestry as
// backslash-delimited segments ("src\util"); file paths may arrive in
// either separator style.

// Segments splits a qualified node name into its path segments. The
// empty name (the root) has no segments.
func Segments(name string) []string {
	if name == "" {
		return nil
	}
	return strings.Split(name, `\`)
}

// Depth returns the number of segments in a qualified name. Children of
// the root sit at depth 1.
func Depth(name string) int {
	return len(Segments(name))
}

// Parent returns the qualified name with its last segment dropped, or
// "" for a top-level node.
func Parent(name string) string {
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		return name[:i]
	}
	return ""
}

// Base returns the last segment of a qualified name.
func Base(name string) string {
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// FileBase returns the display name of a file path in either separator
// style. E.g. `src\util\log.cpp` → "log.cpp".
func FileBase(path string) string {
	if i := strings.LastIndexAny(path, `\/`); i >= 0 {
		return path[i+1:]
	}
	return path
}
