package vcxproj

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
)

// Filters is the hierarchy document (.vcxproj.filters). It holds the
// node declarations and the per-file assignments that drive the display
// tree.
type Filters struct {
	doc *Document

	// newID mints node identifiers; swapped for a deterministic
	// sequence in tests.
	newID func() string
}

// OpenFilters loads an existing hierarchy document from fs.
func OpenFilters(fs billy.Filesystem, path string) (*Filters, error) {
	doc, err := loadDocument(fs, path)
	if err != nil {
		return nil, err
	}
	return &Filters{doc: doc, newID: NewIdentifier}, nil
}

// CreateFilters builds a baseline hierarchy document in memory. Nothing
// touches disk until Save.
func CreateFilters(fs billy.Filesystem, path string) *Filters {
	return &Filters{doc: newDocument(fs, path, scaffoldContent()), newID: NewIdentifier}
}

// NewIdentifier returns a fresh node identifier in the document's
// uppercase braced format.
func NewIdentifier() string {
	return "{" + strings.ToUpper(uuid.NewString()) + "}"
}

// Path returns the document path.
func (f *Filters) Path() string { return f.doc.Path() }

// Content returns the current document text.
func (f *Filters) Content() string { return f.doc.Content() }

// Clone returns an independent copy for preview passes.
func (f *Filters) Clone() *Filters {
	return &Filters{doc: f.doc.Clone(), newID: f.newID}
}

// Save writes the document back to disk atomically.
func (f *Filters) Save() error { return f.doc.Save() }

// Entry pairs the two path projections an add needs: the include path
// recorded on the compile entry and the hierarchy-relative path the
// display tree is derived from. They differ whenever the scan root is
// not the project directory.
type Entry struct {
	IncludePath   string
	HierarchyPath string
}

// Add registers entries in the hierarchy: every undeclared node on each
// file's parent path is declared with a fresh identifier, and each file
// is assigned to its immediate parent. Files directly under the
// hierarchy root get a bare entry with no assignment. Files whose
// extension is not a recognized compile unit are skipped. Returns the
// include paths registered.
func (f *Filters) Add(entries []Entry) []string {
	declared := f.declaredSet()
	needed := map[string]bool{}
	type placement struct {
		include string
		node    string
	}
	var placements []placement
	var added []string
	for _, e := range entries {
		if !sourceExtensions[pathExt(e.IncludePath)] {
			continue
		}
		include := backslashed(e.IncludePath)
		node := parentName(backslashed(e.HierarchyPath))
		for n := node; n != ""; n = parentName(n) {
			if !declared[n] {
				needed[n] = true
			}
		}
		placements = append(placements, placement{include: include, node: node})
		added = append(added, include)
	}
	if len(placements) == 0 {
		return nil
	}

	// ancestors sort before descendants, so declarations read top down
	newNodes := make([]string, 0, len(needed))
	for n := range needed {
		newNodes = append(newNodes, n)
	}
	sort.Strings(newNodes)

	var decls []string
	for _, n := range newNodes {
		decls = append(decls,
			`    <Filter Include="`+n+`">`,
			"      <UniqueIdentifier>"+f.newID()+"</UniqueIdentifier>",
			"    </Filter>",
		)
	}
	f.insertDeclarations(decls)

	var entryLines []string
	for _, pl := range placements {
		if pl.node == "" {
			entryLines = append(entryLines, `    <ClCompile Include="`+pl.include+`" />`)
			continue
		}
		entryLines = append(entryLines,
			`    <ClCompile Include="`+pl.include+`">`,
			"      <Filter>"+pl.node+"</Filter>",
			"    </ClCompile>",
		)
	}
	f.insertEntries(entryLines)
	return added
}

// insertDeclarations places decl lines inside the item group that holds
// node declarations, creating the group before the closing root tag when
// the document has none.
func (f *Filters) insertDeclarations(decls []string) {
	if len(decls) == 0 {
		return
	}
	lines := f.doc.lines
	if anchor := findForward(lines, 0, `<Filter Include=`); anchor >= 0 {
		_, end := enclosingGroup(lines, anchor, "<ItemGroup>", "</ItemGroup>")
		if end >= 0 {
			f.doc.lines = insertLines(lines, end, decls...)
			return
		}
	}
	f.insertGroupBeforeRoot(decls)
}

// insertEntries places compile-entry lines inside the item group that
// holds them, creating the group before the closing root tag when the
// document has none.
func (f *Filters) insertEntries(entryLines []string) {
	if len(entryLines) == 0 {
		return
	}
	lines := f.doc.lines
	if anchor := findForward(lines, 0, `<ClCompile Include=`); anchor >= 0 {
		_, end := enclosingGroup(lines, anchor, "<ItemGroup>", "</ItemGroup>")
		if end >= 0 {
			f.doc.lines = insertLines(lines, end, entryLines...)
			return
		}
	}
	f.insertGroupBeforeRoot(entryLines)
}

func (f *Filters) insertGroupBeforeRoot(inner []string) {
	lines := f.doc.lines
	root := findForward(lines, 0, "</Project>")
	if root < 0 {
		return
	}
	block := make([]string, 0, len(inner)+2)
	block = append(block, "  <ItemGroup>")
	block = append(block, inner...)
	block = append(block, "  </ItemGroup>")
	f.doc.lines = insertLines(lines, root, block...)
}

// Delete removes every compile entry the selector matches, then removes
// the nodes the mutation emptied, cascading up the ancestor chain.
// Returns the removed include paths and the removed node names. Nodes
// that were already empty before the delete are left untouched.
func (f *Filters) Delete(sel Selector) (files, nodes []string, err error) {
	if err := sel.Validate(); err != nil {
		return nil, nil, err
	}
	nodeMode := sel.NodeDelete()
	affected := map[string]bool{}

	lines := f.doc.lines
	i := 0
	for i < len(lines) {
		if !startsTag(lines[i], `<ClCompile Include="`) {
			i++
			continue
		}
		path, hasPath := attrValue(lines[i], "Include")
		end := entryEnd(lines, i)
		node := entryNode(lines, i, end)
		var match bool
		if nodeMode {
			match = node == sel.Target
		} else {
			match = sel.matchEntryLine(lines[i])
		}
		if match && sel.re != nil {
			match = hasPath && sel.refine(path)
		}
		if !match {
			i = end
			continue
		}
		if hasPath {
			files = append(files, path)
		}
		if node != "" {
			affected[node] = true
		}
		lines = removeSpan(lines, i, end)
	}
	f.doc.lines = lines

	if nodeMode {
		// an explicit node delete drops the declaration even when
		// child nodes keep the name alive; only files the pattern
		// retained hold it in place
		delete(affected, sel.Target)
		if len(f.nodeFiles(sel.Target)) == 0 && f.removeDeclaration(sel.Target) {
			nodes = append(nodes, sel.Target)
		}
	}
	nodes = append(nodes, f.cleanupNodes(affected)...)
	return files, nodes, nil
}

// cleanupNodes removes every affected node that now has neither assigned
// files nor remaining children, then walks each freed ancestor until the
// set stabilizes. Nodes the mutation never touched survive even when
// empty. Returns the names whose declarations were removed.
func (f *Filters) cleanupNodes(affected map[string]bool) []string {
	var removed []string
	for {
		counts := f.assignmentCounts()
		live := make(map[string]bool, len(counts))
		for n := range counts {
			live[n] = true
		}
		for _, n := range f.DeclaredFilters() {
			live[n] = true
		}

		candidate := ""
		for _, n := range sortedByDepth(affected) {
			if counts[n] > 0 || hasChildIn(live, n) {
				continue
			}
			candidate = n
			break
		}
		if candidate == "" {
			return removed
		}
		delete(affected, candidate)
		if f.removeDeclaration(candidate) {
			removed = append(removed, candidate)
		}
		if p := parentName(candidate); p != "" {
			affected[p] = true
		}
	}
}

// sortedByDepth orders names deepest first so an emptied child is
// considered before the parent it frees.
func sortedByDepth(names map[string]bool) []string {
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := strings.Count(out[i], `\`), strings.Count(out[j], `\`)
		if di != dj {
			return di > dj
		}
		return out[i] < out[j]
	})
	return out
}

// hasChildIn reports whether any live name sits strictly below name.
func hasChildIn(live map[string]bool, name string) bool {
	prefix := name + `\`
	for n := range live {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}

// removeDeclaration drops the declaration block for name. Reports
// whether a declaration was found.
func (f *Filters) removeDeclaration(name string) bool {
	lines := f.doc.lines
	for i, line := range lines {
		if !startsTag(line, `<Filter Include="`) {
			continue
		}
		if got, ok := attrValue(line, "Include"); !ok || got != name {
			continue
		}
		end := i + 1
		if !endsTag(line, "/>") {
			for end < len(lines) && !endsTag(lines[end], "</Filter>") {
				end++
			}
			if end < len(lines) {
				end++
			}
		}
		f.doc.lines = removeSpan(lines, i, end)
		return true
	}
	return false
}

// RenameResult reports the outcome of a node rename.
type RenameResult struct {
	// TargetExists is true when the destination name was already
	// declared. The document is left untouched and the caller should
	// merge instead. Files then holds the paths still assigned to the
	// source node.
	TargetExists bool
	// Files holds the include paths whose assignment reads the new
	// name after a successful rename.
	Files []string
}

// Rename rewrites the node's declaration and every assignment pointing
// at from. Descendant nodes keep their own names. Returns ErrNotFound
// when from is not declared; when to is already declared the rename is
// rejected and TargetExists is set.
func (f *Filters) Rename(from, to string) (RenameResult, error) {
	declared := f.declaredSet()
	if !declared[from] {
		return RenameResult{}, fmt.Errorf("filter %q: %w", from, ErrNotFound)
	}
	if declared[to] {
		return RenameResult{TargetExists: true, Files: f.nodeFiles(from)}, nil
	}
	for i, line := range f.doc.lines {
		if startsTag(line, `<Filter Include="`) {
			if name, ok := attrValue(line, "Include"); ok && name == from {
				f.doc.lines[i] = strings.Replace(line, `Include="`+from+`"`, `Include="`+to+`"`, 1)
			}
			continue
		}
		if startsTag(line, "<Filter>") {
			if name, ok := innerText(line, "Filter"); ok && name == from {
				f.doc.lines[i] = strings.Replace(line, ">"+from+"<", ">"+to+"<", 1)
			}
		}
	}
	return RenameResult{Files: f.nodeFiles(to)}, nil
}

// Merge points every assignment under from at to and drops from's
// declaration. Safe to call when from has no declaration left. Returns
// the include paths that moved.
func (f *Filters) Merge(from, to string) []string {
	var moved []string
	lines := f.doc.lines
	i := 0
	for i < len(lines) {
		if !startsTag(lines[i], `<ClCompile Include="`) {
			i++
			continue
		}
		end := entryEnd(lines, i)
		for j := i + 1; j < end; j++ {
			if !startsTag(lines[j], "<Filter>") {
				continue
			}
			if name, ok := innerText(lines[j], "Filter"); ok && name == from {
				lines[j] = strings.Replace(lines[j], ">"+from+"<", ">"+to+"<", 1)
				if path, ok := attrValue(lines[i], "Include"); ok {
					moved = append(moved, path)
				}
			}
			break
		}
		i = end
	}
	f.doc.lines = lines
	f.removeDeclaration(from)
	return moved
}

// --- document scanners ---

// DeclaredFilters lists every declared node name in document order.
func (f *Filters) DeclaredFilters() []string {
	var out []string
	for _, line := range f.doc.lines {
		if !startsTag(line, `<Filter Include="`) {
			continue
		}
		if name, ok := attrValue(line, "Include"); ok {
			out = append(out, name)
		}
	}
	return out
}

// FileFilters maps each assigned include path to its node. Files without
// an assignment are absent.
func (f *Filters) FileFilters() map[string]string {
	out := map[string]string{}
	for _, a := range f.assignments() {
		if a.node != "" {
			out[a.path] = a.node
		}
	}
	return out
}

// NodeFiles maps every node, declared or merely assigned to, to the
// include paths under it. Declared nodes with no files map to an empty
// slice.
func (f *Filters) NodeFiles() map[string][]string {
	out := map[string][]string{}
	for _, n := range f.DeclaredFilters() {
		out[n] = []string{}
	}
	for _, a := range f.assignments() {
		if a.node != "" {
			out[a.node] = append(out[a.node], a.path)
		}
	}
	return out
}

// Files lists every include path carried by the document, assigned or
// not, in document order.
func (f *Filters) Files() []string {
	var out []string
	for _, a := range f.assignments() {
		out = append(out, a.path)
	}
	return out
}

// UnassignedFiles lists include paths carried by the document with no
// node assignment, in document order.
func (f *Filters) UnassignedFiles() []string {
	var out []string
	for _, a := range f.assignments() {
		if a.node == "" {
			out = append(out, a.path)
		}
	}
	return out
}

type assignment struct {
	path string
	node string
}

func (f *Filters) assignments() []assignment {
	var out []assignment
	lines := f.doc.lines
	i := 0
	for i < len(lines) {
		if !startsTag(lines[i], `<ClCompile Include="`) {
			i++
			continue
		}
		end := entryEnd(lines, i)
		if path, ok := attrValue(lines[i], "Include"); ok {
			out = append(out, assignment{path: path, node: entryNode(lines, i, end)})
		}
		i = end
	}
	return out
}

func (f *Filters) assignmentCounts() map[string]int {
	counts := map[string]int{}
	for _, a := range f.assignments() {
		if a.node != "" {
			counts[a.node]++
		}
	}
	return counts
}

func (f *Filters) declaredSet() map[string]bool {
	set := map[string]bool{}
	for _, n := range f.DeclaredFilters() {
		set[n] = true
	}
	return set
}

// nodeFiles lists the include paths assigned to name, in document order.
func (f *Filters) nodeFiles(name string) []string {
	var out []string
	for _, a := range f.assignments() {
		if a.node == name {
			out = append(out, a.path)
		}
	}
	return out
}

// entryNode returns the node a compile-entry block is assigned to, or ""
// for a bare or self-closing entry.
func entryNode(lines []string, i, end int) string {
	for j := i + 1; j < end; j++ {
		if !startsTag(lines[j], "<Filter>") {
			continue
		}
		if name, ok := innerText(lines[j], "Filter"); ok {
			return name
		}
		return ""
	}
	return ""
}
