package vcxproj

import (
	"fmt"
	"regexp"
	"strings"
)

// Selector describes which compile entries a delete touches. Exactly one
// of Target and Extension must be set. Pattern optionally narrows the
// matched set by regular expression over the include path; Negate keeps
// the entries whose path does NOT match instead.
//
// The same selector drives both the preview pass and the commit pass, so
// the refined set is identical in both.
type Selector struct {
	Target    string
	Extension string
	Pattern   string
	Negate    bool

	re *regexp.Regexp
}

// Validate enforces the exactly-one rule and compiles Pattern.
func (s *Selector) Validate() error {
	if (s.Target == "") == (s.Extension == "") {
		return fmt.Errorf("%w: exactly one of target and extension is required", ErrInvalidSelector)
	}
	if s.Pattern != "" && s.re == nil {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return fmt.Errorf("compile pattern %q: %w", s.Pattern, err)
		}
		s.re = re
	}
	return nil
}

// NodeDelete reports whether the selector names a bare hierarchy node: a
// target with no path separator and no dot, with no extension supplied.
// Such a delete removes the node itself and cascades to every file
// assigned to it.
func (s *Selector) NodeDelete() bool {
	return s.Extension == "" && s.Target != "" && !strings.ContainsAny(s.Target, `/\.`)
}

// FolderTarget forces folder-match semantics on a target by appending a
// trailing separator when the caller omitted it.
func FolderTarget(dir string) string {
	if strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, `\`) {
		return dir
	}
	return dir + `\`
}

// matchEntryLine reports whether a compile-entry line is selected before
// pattern refinement. Matching is textual: an extension matches when the
// line contains ".<ext>" anywhere, a folder target (trailing separator)
// matches in either separator style, and a plain target matches as a
// literal substring.
func (s *Selector) matchEntryLine(line string) bool {
	if s.Extension != "" {
		return strings.Contains(line, "."+s.Extension)
	}
	if strings.HasSuffix(s.Target, "/") || strings.HasSuffix(s.Target, `\`) {
		back := strings.ReplaceAll(s.Target, "/", `\`)
		fwd := strings.ReplaceAll(s.Target, `\`, "/")
		return strings.Contains(line, back) || strings.Contains(line, fwd)
	}
	return strings.Contains(line, s.Target)
}

// refine applies the optional pattern to an include path.
func (s *Selector) refine(path string) bool {
	if s.re == nil {
		return true
	}
	if s.Negate {
		return !s.re.MatchString(path)
	}
	return s.re.MatchString(path)
}

// Describe returns the selector's user-facing description.
func (s *Selector) Describe() string {
	if s.Extension != "" {
		return fmt.Sprintf("all *.%s files", s.Extension)
	}
	return s.Target
}
