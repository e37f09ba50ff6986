// Package lint cross-checks the two project documents against each
// other. Every rule reports a finding rather than an error: the
// documents are allowed to disagree, the caller just needs to know.
package lint

import (
	"fmt"
	"sort"

	"github.com/vcxsync/vcxsync/internal/hierarchy"
	"github.com/vcxsync/vcxsync/internal/vcxproj"
)

// Rule identifiers, one per check.
const (
	RuleDuplicateEntry     = "duplicate-entry"
	RuleMissingInFilters   = "missing-in-filters"
	RuleMissingInProject   = "missing-in-project"
	RuleDanglingAssignment = "dangling-assignment"
)

// Finding is one cross-document consistency problem.
type Finding struct {
	Rule    string
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s", f.Rule, f.Message)
}

// Check compares the compile-unit list with the hierarchy document and
// reports every inconsistency. A nil filters document limits the checks
// to the project side.
func Check(p *vcxproj.Project, f *vcxproj.Filters) []Finding {
	var findings []Finding

	sources := p.Sources()
	sourceCount := map[string]int{}
	for _, s := range sources {
		sourceCount[s]++
	}
	reported := map[string]bool{}
	for _, s := range sources {
		if sourceCount[s] > 1 && !reported[s] {
			reported[s] = true
			findings = append(findings, Finding{
				Rule:    RuleDuplicateEntry,
				Message: fmt.Sprintf("%s is registered %d times in the project", s, sourceCount[s]),
			})
		}
	}

	if f == nil {
		return findings
	}

	filterFiles := f.Files()
	filterCount := map[string]int{}
	for _, path := range filterFiles {
		filterCount[path]++
	}

	reported = map[string]bool{}
	for _, s := range sources {
		if filterCount[s] == 0 && !reported[s] {
			reported[s] = true
			findings = append(findings, Finding{
				Rule:    RuleMissingInFilters,
				Message: fmt.Sprintf("%s is in the project but missing from the filters document", s),
			})
		}
	}

	reportedMissing := map[string]bool{}
	reportedDup := map[string]bool{}
	for _, path := range filterFiles {
		if sourceCount[path] == 0 && !reportedMissing[path] {
			reportedMissing[path] = true
			findings = append(findings, Finding{
				Rule:    RuleMissingInProject,
				Message: fmt.Sprintf("%s is in the filters document but not registered in the project", path),
			})
		}
		if filterCount[path] > 1 && !reportedDup[path] {
			reportedDup[path] = true
			findings = append(findings, Finding{
				Rule:    RuleDuplicateEntry,
				Message: fmt.Sprintf("%s is carried %d times in the filters document", path, filterCount[path]),
			})
		}
	}

	// a node referenced by an assignment must be declared itself or be
	// an ancestor of a declared node
	legit := map[string]bool{}
	for _, n := range f.DeclaredFilters() {
		for name := n; name != ""; name = hierarchy.Parent(name) {
			legit[name] = true
		}
	}
	assigned := f.FileFilters()
	paths := make([]string, 0, len(assigned))
	for path := range assigned {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if node := assigned[path]; !legit[node] {
			findings = append(findings, Finding{
				Rule:    RuleDanglingAssignment,
				Message: fmt.Sprintf("%s is assigned to undeclared filter %q", path, node),
			})
		}
	}
	return findings
}
