// Package scan discovers candidate source files for registration. It
// walks a directory tree and yields scan-root-relative paths in
// deterministic walk order; the caller decides how those paths project
// into the documents.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Options select which files a scan yields.
type Options struct {
	// Extension filters by file extension, without the dot. Matching
	// is case insensitive. Required.
	Extension string
	// Recursive descends into subdirectories.
	Recursive bool
	// Pattern optionally narrows the result by regular expression over
	// the scan-relative path; Negate keeps the paths that do NOT match.
	Pattern string
	Negate  bool

	re *regexp.Regexp
}

func (o *Options) validate() error {
	if o.Extension == "" {
		return fmt.Errorf("scan: extension is required")
	}
	if o.Pattern != "" && o.re == nil {
		re, err := regexp.Compile(o.Pattern)
		if err != nil {
			return fmt.Errorf("compile pattern %q: %w", o.Pattern, err)
		}
		o.re = re
	}
	return nil
}

func (o *Options) keep(rel string) bool {
	if o.re == nil {
		return true
	}
	if o.Negate {
		return !o.re.MatchString(rel)
	}
	return o.re.MatchString(rel)
}

// Files walks root and returns the matching files as slash-separated
// paths relative to root, in walk order (lexicographic, depth first).
func Files(fsys billy.Filesystem, root string, opts Options) ([]string, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	var out []string
	err := util.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if !opts.Recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !hasExtension(path, opts.Extension) {
			return nil
		}
		rel := relativeTo(root, path)
		if !opts.keep(rel) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return out, nil
}

// hasExtension reports whether path ends in ".ext", ignoring case.
func hasExtension(path, ext string) bool {
	got := filepath.Ext(path)
	return got != "" && strings.EqualFold(got[1:], ext)
}

// relativeTo strips the walk root from a returned path.
func relativeTo(root, path string) string {
	if root == "." || root == "" {
		return path
	}
	return strings.TrimPrefix(path, strings.TrimSuffix(root, "/")+"/")
}
