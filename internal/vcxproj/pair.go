package vcxproj

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"

	"github.com/vcxsync/vcxsync/internal/hierarchy"
)

// FiltersPath returns the hierarchy document path for a project path.
func FiltersPath(projectPath string) string {
	return projectPath + ".filters"
}

// Pair couples a project document with its hierarchy companion. The
// companion is optional on disk; mutations that need one call
// EnsureFilters to scaffold it in memory.
type Pair struct {
	Project *Project
	Filters *Filters
}

// OpenPair loads the project document and, when present, its hierarchy
// companion. A missing companion is not an error; any other read
// failure is.
func OpenPair(fs billy.Filesystem, projectPath string) (*Pair, error) {
	p, err := OpenProject(fs, projectPath)
	if err != nil {
		return nil, err
	}
	f, err := OpenFilters(fs, FiltersPath(projectPath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Pair{Project: p}, nil
		}
		return nil, err
	}
	return &Pair{Project: p, Filters: f}, nil
}

// EnsureFilters returns the hierarchy document, scaffolding a baseline
// one in memory when the project has none yet. Nothing touches disk
// until Save.
func (pr *Pair) EnsureFilters() *Filters {
	if pr.Filters == nil {
		doc := pr.Project.doc
		pr.Filters = CreateFilters(doc.fs, FiltersPath(doc.path))
	}
	return pr.Filters
}

// Clone returns an independent copy of both documents for a preview
// pass.
func (pr *Pair) Clone() *Pair {
	clone := &Pair{Project: pr.Project.Clone()}
	if pr.Filters != nil {
		clone.Filters = pr.Filters.Clone()
	}
	return clone
}

// ScannedEntries computes both path projections for files discovered
// under scanDir: the include path recorded in the project, relative to
// the project file's directory, and the scan-relative hierarchy path
// that places the file in the display tree.
func ScannedEntries(projectPath, scanDir string, files []string) []Entry {
	projDir := filepath.Dir(projectPath)
	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		include := filepath.Join(scanDir, f)
		if rel, err := filepath.Rel(projDir, include); err == nil {
			include = rel
		}
		entries = append(entries, Entry{IncludePath: include, HierarchyPath: f})
	}
	return entries
}

// Add registers entries in both documents, skipping paths the project
// already carries. The hierarchy document is scaffolded in memory on
// first use. Returns the include paths actually registered.
func (pr *Pair) Add(entries []Entry) []string {
	existing := map[string]bool{}
	for _, s := range pr.Project.Sources() {
		existing[s] = true
	}
	var fresh []Entry
	for _, e := range entries {
		if existing[backslashed(e.IncludePath)] {
			continue
		}
		fresh = append(fresh, e)
	}
	if len(fresh) == 0 {
		return nil
	}
	includes := make([]string, 0, len(fresh))
	for _, e := range fresh {
		includes = append(includes, e.IncludePath)
	}
	added := pr.Project.AddSources(includes)
	if len(added) == 0 {
		return nil
	}
	pr.EnsureFilters().Add(fresh)
	return added
}

// Delete applies the selector to the pair. A bare node name runs the
// hierarchy-side cascade first and then drops the same include paths
// from the project, so both documents lose the identical set; any other
// selector applies to each document with the same matching rules.
// Returns the removed include paths and the removed node names.
func (pr *Pair) Delete(sel Selector) (files, nodes []string, err error) {
	if err := sel.Validate(); err != nil {
		return nil, nil, err
	}
	if sel.NodeDelete() {
		// no hierarchy document means no such node, nothing to do
		if pr.Filters == nil {
			return nil, nil, nil
		}
		files, nodes, err = pr.Filters.Delete(sel)
		if err != nil {
			return nil, nil, err
		}
		pr.Project.DeletePaths(files)
		return files, nodes, nil
	}
	files, err = pr.Project.Delete(sel)
	if err != nil {
		return nil, nil, err
	}
	if pr.Filters == nil {
		return files, nil, nil
	}
	if _, nodes, err = pr.Filters.Delete(sel); err != nil {
		return nil, nil, err
	}
	return files, nodes, nil
}

// Tree reconstructs the display hierarchy across the pair. Without a
// hierarchy document every registered file sits at the root.
func (pr *Pair) Tree() *hierarchy.Tree {
	if pr.Filters == nil {
		return hierarchy.FromDocuments(pr.Project.Sources(), nil, nil)
	}
	return hierarchy.FromDocuments(pr.Project.Sources(), pr.Filters.FileFilters(), pr.Filters.NodeFiles())
}

// Save persists the project document and then the hierarchy document.
// When the second write fails after the first succeeded, the documents
// are out of sync on disk and the error is a *SyncError saying so.
func (pr *Pair) Save() error {
	if err := pr.Project.Save(); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	if pr.Filters == nil {
		return nil
	}
	if err := pr.Filters.Save(); err != nil {
		return &SyncError{Saved: pr.Project.Path(), Failed: pr.Filters.Path(), Err: err}
	}
	return nil
}
