package vcxproj

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Document is one project-family file held in memory as a list of lines.
// Splitting on "\n" alone keeps any "\r" glued to its line text, so a
// load followed by a save with no mutation in between writes the input
// back byte-identically, CRLF endings included.
type Document struct {
	fs    billy.Filesystem
	path  string
	lines []string
}

func loadDocument(fs billy.Filesystem, path string) (*Document, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Document{fs: fs, path: path, lines: strings.Split(string(data), "\n")}, nil
}

func newDocument(fs billy.Filesystem, path, content string) *Document {
	return &Document{fs: fs, path: path, lines: strings.Split(content, "\n")}
}

// Path returns the document's location on its filesystem.
func (d *Document) Path() string { return d.path }

// Content reassembles the in-memory lines into the full document text.
func (d *Document) Content() string { return strings.Join(d.lines, "\n") }

// Clone returns a deep copy bound to the same filesystem and path.
// Preview passes mutate the clone and throw it away, leaving the
// original ready for the commit pass.
func (d *Document) Clone() *Document {
	lines := make([]string, len(d.lines))
	copy(lines, d.lines)
	return &Document{fs: d.fs, path: d.path, lines: lines}
}

// backslashed normalizes a relative path to the separator the documents
// record.
func backslashed(path string) string { return strings.ReplaceAll(path, "/", `\`) }

// parentName drops the last backslash segment of a qualified node name
// or path, returning "" at the root.
func parentName(name string) string {
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		return name[:i]
	}
	return ""
}

// Save writes the document back atomically: full content to a temp file
// in the same directory, then rename over the original.
func (d *Document) Save() error {
	dir := filepath.Dir(d.path)
	tmp, err := d.fs.TempFile(dir, ".vcxsync-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write([]byte(d.Content())); err != nil {
		_ = tmp.Close()
		_ = d.fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = d.fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("close temp: %w", err)
	}

	if err := d.fs.Rename(tmpName, d.path); err != nil {
		_ = d.fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("rename temp to %s: %w", d.path, err)
	}
	return nil
}
