package hierarchy

import "sort"

// Node is one folder in the display tree.
type Node struct {
	// Name is the node's fully qualified name, "" for the root.
	Name string
	// Files holds the include paths assigned directly to this node.
	Files []string

	children map[string]*Node
}

// Tree is the display hierarchy reconstructed from the flat node names
// recorded in the documents. Ancestors implied by a descendant's
// qualified name are synthesized in memory without ever being written
// back.
type Tree struct {
	root  *Node
	index map[string]*Node
}

// Build reconstructs the tree. rootFiles are the entries with no node
// assignment; nodeFiles maps every declared or assigned node to the
// files under it (empty slice for declared nodes with no files).
func Build(rootFiles []string, nodeFiles map[string][]string) *Tree {
	root := &Node{children: map[string]*Node{}}
	root.Files = append([]string(nil), rootFiles...)
	t := &Tree{root: root, index: map[string]*Node{"": root}}

	names := make([]string, 0, len(nodeFiles))
	for name := range nodeFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		n := t.ensure(name)
		n.Files = append(n.Files, nodeFiles[name]...)
	}
	return t
}

// FromDocuments builds the display tree for a project's file list and
// the hierarchy recorded alongside it. Files without an assignment land
// at the root; every declared or assigned node becomes a folder. A
// project with no hierarchy document passes nil maps and gets a flat
// root listing.
func FromDocuments(sources []string, assigned map[string]string, nodeFiles map[string][]string) *Tree {
	var rootFiles []string
	for _, s := range sources {
		if _, ok := assigned[s]; !ok {
			rootFiles = append(rootFiles, s)
		}
	}
	return Build(rootFiles, nodeFiles)
}

// ensure returns the node for a qualified name, materializing it and any
// missing ancestors.
func (t *Tree) ensure(name string) *Node {
	if n, ok := t.index[name]; ok {
		return n
	}
	parent := t.ensure(Parent(name))
	n := &Node{Name: name, children: map[string]*Node{}}
	parent.children[Base(name)] = n
	t.index[name] = n
	return n
}

// Lookup returns the node for a qualified name, synthesized ancestors
// included.
func (t *Tree) Lookup(name string) (*Node, bool) {
	n, ok := t.index[name]
	return n, ok
}

// Empty reports whether the tree carries no nodes and no files at all.
func (t *Tree) Empty() bool {
	return len(t.root.children) == 0 && len(t.root.Files) == 0
}

// childNames returns the node's child segments in lexicographic order.
func (n *Node) childNames() []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sortedFiles returns the node's files ordered by recorded path.
func (n *Node) sortedFiles() []string {
	files := append([]string(nil), n.Files...)
	sort.Strings(files)
	return files
}
