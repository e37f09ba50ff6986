package vcxproj

import (
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// sourceExtensions is the set of file extensions registered as compile
// units. Matching is exact and case sensitive, the way the project
// documents themselves spell them.
var sourceExtensions = map[string]bool{
	"c":   true,
	"cpp": true,
	"cc":  true,
	"cxx": true,
}

// IsSource reports whether path carries a recognized compile-unit
// extension.
func IsSource(path string) bool { return sourceExtensions[pathExt(path)] }

// Project is the compile-unit document (.vcxproj). All edits are
// line-oriented string surgery anchored on the document's own markers,
// so untouched regions survive byte for byte.
type Project struct {
	doc *Document
}

// OpenProject loads a project document from fs.
func OpenProject(fs billy.Filesystem, path string) (*Project, error) {
	doc, err := loadDocument(fs, path)
	if err != nil {
		return nil, err
	}
	return &Project{doc: doc}, nil
}

// Path returns the document path.
func (p *Project) Path() string { return p.doc.Path() }

// Content returns the current document text.
func (p *Project) Content() string { return p.doc.Content() }

// Clone returns an independent copy for preview passes.
func (p *Project) Clone() *Project { return &Project{doc: p.doc.Clone()} }

// Save writes the document back to disk atomically.
func (p *Project) Save() error { return p.doc.Save() }

// Sources lists the include path of every compile entry, in document
// order.
func (p *Project) Sources() []string {
	var out []string
	for _, line := range p.doc.lines {
		if !startsTag(line, `<ClCompile Include="`) {
			continue
		}
		if path, ok := attrValue(line, "Include"); ok {
			out = append(out, path)
		}
	}
	return out
}

// AddSources registers paths as compile entries. Paths may use either
// separator style and are recorded backslashed. Files whose extension is
// not a recognized compile unit are skipped. Returns the include paths
// actually registered.
//
// Entries land inside the item group that already holds compile entries;
// when the document has none, a fresh group is created before the
// closing root tag.
func (p *Project) AddSources(paths []string) []string {
	var added []string
	var entries []string
	for _, path := range paths {
		if !sourceExtensions[pathExt(path)] {
			continue
		}
		include := backslashed(path)
		entries = append(entries, `    <ClCompile Include="`+include+`" />`)
		added = append(added, include)
	}
	if len(entries) == 0 {
		return nil
	}

	lines := p.doc.lines
	if anchor := findForward(lines, 0, `<ClCompile Include=`); anchor >= 0 {
		_, end := enclosingGroup(lines, anchor, "<ItemGroup>", "</ItemGroup>")
		if end >= 0 {
			p.doc.lines = insertLines(lines, end, entries...)
			return added
		}
	}
	root := findForward(lines, 0, "</Project>")
	if root < 0 {
		return nil
	}
	block := make([]string, 0, len(entries)+2)
	block = append(block, "  <ItemGroup>")
	block = append(block, entries...)
	block = append(block, "  </ItemGroup>")
	p.doc.lines = insertLines(lines, root, block...)
	return added
}

// Delete removes every compile entry the selector matches and returns
// their include paths. Self-closing entries span one line; block entries
// are removed through their closing tag.
func (p *Project) Delete(sel Selector) ([]string, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	var removed []string
	lines := p.doc.lines
	i := 0
	for i < len(lines) {
		if !startsTag(lines[i], `<ClCompile Include="`) {
			i++
			continue
		}
		path, hasPath := attrValue(lines[i], "Include")
		end := entryEnd(lines, i)
		match := sel.matchEntryLine(lines[i])
		if match && sel.re != nil {
			// the pattern refines by include path, so an entry
			// without one cannot be refined in
			match = hasPath && sel.refine(path)
		}
		if !match {
			i = end
			continue
		}
		if hasPath {
			removed = append(removed, path)
		}
		lines = removeSpan(lines, i, end)
	}
	p.doc.lines = lines
	return removed, nil
}

// DeletePaths removes the entries whose include path appears in paths.
// Used after a hierarchy-side cascade so both documents drop the same
// set of files.
func (p *Project) DeletePaths(paths []string) []string {
	want := make(map[string]bool, len(paths))
	for _, path := range paths {
		want[path] = true
	}
	var removed []string
	lines := p.doc.lines
	i := 0
	for i < len(lines) {
		if !startsTag(lines[i], `<ClCompile Include="`) {
			i++
			continue
		}
		path, hasPath := attrValue(lines[i], "Include")
		end := entryEnd(lines, i)
		if !hasPath || !want[path] {
			i = end
			continue
		}
		removed = append(removed, path)
		lines = removeSpan(lines, i, end)
	}
	p.doc.lines = lines
	return removed
}

// entryEnd returns the exclusive end of the compile-entry block starting
// at i. A self-closing entry spans one line.
func entryEnd(lines []string, i int) int {
	if endsTag(lines[i], "/>") {
		return i + 1
	}
	for j := i + 1; j < len(lines); j++ {
		if endsTag(lines[j], "</ClCompile>") {
			return j + 1
		}
	}
	return len(lines)
}

// pathExt returns the extension after the last dot of the final path
// segment, or "" when the segment has none.
func pathExt(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	ext := path[i+1:]
	if strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}

// --- property injection ---

// Property identifies one per-configuration list the injector extends.
type Property int

const (
	// IncludeDirs is the compiler's additional include search path list.
	IncludeDirs Property = iota
	// LibraryDirs is the linker's additional library search path list.
	LibraryDirs
	// Libraries is the linker's additional dependency list.
	Libraries
)

// section returns the configuration subsection the property lives in.
func (pr Property) section() (opening, closing string) {
	if pr == IncludeDirs {
		return "<ClCompile>", "</ClCompile>"
	}
	return "<Link>", "</Link>"
}

// tag returns the property's element name.
func (pr Property) tag() string {
	switch pr {
	case IncludeDirs:
		return "AdditionalIncludeDirectories"
	case LibraryDirs:
		return "AdditionalLibraryDirectories"
	default:
		return "AdditionalDependencies"
	}
}

// token is the inheritance placeholder that keeps values inherited from
// parent property sheets on the list.
func (pr Property) token() string { return "%(" + pr.tag() + ")" }

// ParseProperty maps a user-facing kind name to its property.
func ParseProperty(kind string) (Property, error) {
	switch kind {
	case "include-dirs":
		return IncludeDirs, nil
	case "library-dirs":
		return LibraryDirs, nil
	case "libraries":
		return Libraries, nil
	}
	return 0, fmt.Errorf("unknown property kind %q", kind)
}

// Configurations lists the Condition attribute of every configuration
// block, in document order.
func (p *Project) Configurations() []string {
	var out []string
	for _, line := range p.doc.lines {
		if !startsTag(line, "<ItemDefinitionGroup Condition=") {
			continue
		}
		if cond, ok := attrValue(line, "Condition"); ok {
			out = append(out, cond)
		}
	}
	return out
}

// InjectProperty prepends value to the property's list in every
// configuration block and returns the conditions of the blocks touched.
// Missing sections and missing property lines are created; on an
// existing line the value goes to the head of the list so it takes
// precedence, with the inheritance token keeping its place at the tail.
//
// Injection is textual and unconditional: calling it twice records the
// value twice.
func (p *Project) InjectProperty(prop Property, value string) []string {
	var touched []string
	secOpen, secClose := prop.section()
	tag := prop.tag()
	lines := p.doc.lines
	for i := 0; i < len(lines); i++ {
		if !startsTag(lines[i], "<ItemDefinitionGroup Condition=") {
			continue
		}
		if cond, ok := attrValue(lines[i], "Condition"); ok {
			touched = append(touched, cond)
		}
		groupEnd := findForward(lines, i+1, "</ItemDefinitionGroup>")
		if groupEnd < 0 {
			groupEnd = len(lines)
		}
		sec := -1
		for j := i + 1; j < groupEnd; j++ {
			if startsTag(lines[j], secOpen) {
				sec = j
				break
			}
		}
		if sec < 0 {
			lines = insertLines(lines, i+1,
				"    "+secOpen,
				"      <"+tag+">"+value+";"+prop.token()+"</"+tag+">",
				"    "+secClose,
			)
			continue
		}
		propLine := -1
		for j := sec + 1; j < len(lines) && !startsTag(lines[j], secClose); j++ {
			if startsTag(lines[j], "<"+tag+">") {
				propLine = j
				break
			}
		}
		if propLine < 0 {
			lines = insertLines(lines, sec+1,
				"      <"+tag+">"+value+";"+prop.token()+"</"+tag+">")
			continue
		}
		lines[propLine] = prependListValue(lines[propLine], tag, value)
	}
	p.doc.lines = lines
	return touched
}

// prependListValue rewrites a one-line property element so value heads
// the semicolon list.
func prependListValue(line, tag, value string) string {
	inner, ok := innerText(line, tag)
	if !ok {
		return line
	}
	repl := value
	if inner != "" {
		repl = value + ";" + inner
	}
	return strings.Replace(line, ">"+inner+"<", ">"+repl+"<", 1)
}
