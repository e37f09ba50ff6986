package hierarchy

import (
	"fmt"
	"strings"
)

// Options control how much of the tree renders.
type Options struct {
	// MaxDepth limits folder nesting. Negative renders everything;
	// zero renders only the top-level folders with no files; N > 0
	// renders folders through depth N, plus the files of every folder
	// that renders and the root-level files.
	MaxDepth int
	// FilesOnly elides every folder that, after depth filtering, holds
	// neither a rendered file nor a non-empty descendant.
	FilesOnly bool
}

const (
	midConnector  = "├── "
	lastConnector = "└── "
	midIndent     = "│   "
	lastIndent    = "    "
)

// Render draws the tree under a title line. Sibling folders sort
// lexicographically, files sort by recorded path, and the last sibling
// at each level gets the terminal connector.
func (t *Tree) Render(title string, opts Options) string {
	var b strings.Builder
	b.WriteString("📁 " + title + "\n")
	if t.Empty() {
		b.WriteString("   (empty project)\n")
		return b.String()
	}
	writeChildren(&b, prune(t.root, 0, opts), "", true)
	return b.String()
}

// renderNode is one pruned tree level ready to draw.
type renderNode struct {
	segment string
	files   []string
	kids    []*renderNode
}

func (rn *renderNode) empty() bool {
	return len(rn.files) == 0 && len(rn.kids) == 0
}

// prune applies the depth and files-only rules, so the connector layout
// downstream only ever sees nodes that actually draw.
func prune(n *Node, depth int, opts Options) *renderNode {
	rn := &renderNode{segment: Base(n.Name)}
	if opts.MaxDepth != 0 {
		rn.files = n.sortedFiles()
	}
	for _, segment := range n.childNames() {
		child := n.children[segment]
		if !folderVisible(depth+1, opts.MaxDepth) {
			continue
		}
		kid := prune(child, depth+1, opts)
		if opts.FilesOnly && kid.empty() {
			continue
		}
		rn.kids = append(rn.kids, kid)
	}
	return rn
}

// folderVisible reports whether a folder at the given depth renders.
// Depth zero collapses to the top level alone.
func folderVisible(depth, maxDepth int) bool {
	if maxDepth < 0 {
		return true
	}
	if maxDepth == 0 {
		return depth <= 1
	}
	return depth <= maxDepth
}

// writeChildren draws one level. The root interleaves loose files ahead
// of the top-level folders; inside a folder the subfolders come first.
func writeChildren(b *strings.Builder, rn *renderNode, prefix string, atRoot bool) {
	type item struct {
		folder *renderNode
		file   string
	}
	var items []item
	if atRoot {
		for _, f := range rn.files {
			items = append(items, item{file: f})
		}
		for _, k := range rn.kids {
			items = append(items, item{folder: k})
		}
	} else {
		for _, k := range rn.kids {
			items = append(items, item{folder: k})
		}
		for _, f := range rn.files {
			items = append(items, item{file: f})
		}
	}
	for i, it := range items {
		connector, childPrefix := midConnector, prefix+midIndent
		if i == len(items)-1 {
			connector, childPrefix = lastConnector, prefix+lastIndent
		}
		if it.folder != nil {
			fmt.Fprintf(b, "%s%s📁 %s\n", prefix, connector, it.folder.segment)
			writeChildren(b, it.folder, childPrefix, false)
		} else {
			fmt.Fprintf(b, "%s%s📄 %s\n", prefix, connector, FileBase(it.file))
		}
	}
}
