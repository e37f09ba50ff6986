package vcxproj

import (
	"fmt"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFilters = `<?xml version="1.0" encoding="utf-8"?>
<Project ToolsVersion="4.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <ItemGroup>
    <Filter Include="src">
      <UniqueIdentifier>{AAAAAAAA-AAAA-AAAA-AAAA-AAAAAAAAAAAA}</UniqueIdentifier>
    </Filter>
    <Filter Include="src\util">
      <UniqueIdentifier>{BBBBBBBB-BBBB-BBBB-BBBB-BBBBBBBBBBBB}</UniqueIdentifier>
    </Filter>
    <Filter Include="docs">
      <UniqueIdentifier>{CCCCCCCC-CCCC-CCCC-CCCC-CCCCCCCCCCCC}</UniqueIdentifier>
    </Filter>
  </ItemGroup>
  <ItemGroup>
    <ClCompile Include="main.cpp" />
    <ClCompile Include="src\app.cpp">
      <Filter>src</Filter>
    </ClCompile>
    <ClCompile Include="src\util\log.cpp">
      <Filter>src\util</Filter>
    </ClCompile>
  </ItemGroup>
</Project>
`

// stubIDs returns a deterministic identifier sequence.
func stubIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("{00000000-0000-0000-0000-%012X}", n)
	}
}

func memFilters(t *testing.T, content string) *Filters {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "app.vcxproj.filters", []byte(content), 0o644))
	f, err := OpenFilters(fs, "app.vcxproj.filters")
	require.NoError(t, err)
	f.newID = stubIDs()
	return f
}

func TestFilters_Scanners(t *testing.T) {
	f := memFilters(t, sampleFilters)

	assert.Equal(t, []string{"src", `src\util`, "docs"}, f.DeclaredFilters())
	assert.Equal(t, map[string]string{
		`src\app.cpp`:      "src",
		`src\util\log.cpp`: `src\util`,
	}, f.FileFilters())
	assert.Equal(t, []string{"main.cpp"}, f.UnassignedFiles())

	byNode := f.NodeFiles()
	assert.Equal(t, []string{`src\app.cpp`}, byNode["src"])
	assert.Equal(t, []string{`src\util\log.cpp`}, byNode[`src\util`])
	assert.Empty(t, byNode["docs"])
}

func TestFilters_Add_DeclaresAncestorChain(t *testing.T) {
	f := CreateFilters(memfs.New(), "app.vcxproj.filters")
	f.newID = stubIDs()

	added := f.Add([]Entry{
		{IncludePath: "src/a.cpp", HierarchyPath: "src/a.cpp"},
		{IncludePath: "src/util/io/b.cpp", HierarchyPath: "src/util/io/b.cpp"},
	})
	assert.Equal(t, []string{`src\a.cpp`, `src\util\io\b.cpp`}, added)

	assert.Equal(t, []string{
		"Source Files", "Header Files", "src", `src\util`, `src\util\io`,
	}, f.DeclaredFilters())

	byNode := f.NodeFiles()
	assert.Equal(t, []string{`src\a.cpp`}, byNode["src"])
	assert.Empty(t, byNode[`src\util`])
	assert.Equal(t, []string{`src\util\io\b.cpp`}, byNode[`src\util\io`])

	assert.Contains(t, f.Content(), "      <UniqueIdentifier>{00000000-0000-0000-0000-000000000001}</UniqueIdentifier>")
	assert.Contains(t, f.Content(), "      <Filter>src\\util\\io</Filter>")
}

func TestFilters_Add_RootFileHasNoAssignment(t *testing.T) {
	f := CreateFilters(memfs.New(), "app.vcxproj.filters")
	f.newID = stubIDs()

	added := f.Add([]Entry{{IncludePath: "root.cpp", HierarchyPath: "root.cpp"}})
	assert.Equal(t, []string{"root.cpp"}, added)
	assert.Contains(t, f.Content(), `    <ClCompile Include="root.cpp" />`)
	assert.Equal(t, []string{"root.cpp"}, f.UnassignedFiles())
	// no nodes beyond the stock scaffold pair
	assert.Equal(t, []string{"Source Files", "Header Files"}, f.DeclaredFilters())
}

func TestFilters_Add_DualProjection(t *testing.T) {
	// project sits in build/, sources scanned from the repo root: the
	// include path climbs out while the hierarchy path stays clean
	f := CreateFilters(memfs.New(), "app.vcxproj.filters")
	f.newID = stubIDs()

	f.Add([]Entry{{IncludePath: `..\src\a.cpp`, HierarchyPath: `src\a.cpp`}})
	assert.Equal(t, map[string]string{`..\src\a.cpp`: "src"}, f.FileFilters())
	assert.Contains(t, f.DeclaredFilters(), "src")
}

func TestFilters_Add_SkipsUnknownExtensions(t *testing.T) {
	f := memFilters(t, sampleFilters)
	assert.Nil(t, f.Add([]Entry{{IncludePath: "docs/readme.md", HierarchyPath: "docs/readme.md"}}))
	assert.Equal(t, sampleFilters, f.Content())
}

func TestFilters_Add_ReusesDeclaredNodes(t *testing.T) {
	f := memFilters(t, sampleFilters)
	f.Add([]Entry{{IncludePath: "src/extra.cpp", HierarchyPath: "src/extra.cpp"}})
	// src already declared, so no duplicate declaration appears
	assert.Equal(t, []string{"src", `src\util`, "docs"}, f.DeclaredFilters())
	assert.Equal(t, map[string]string{
		`src\app.cpp`:      "src",
		`src\util\log.cpp`: `src\util`,
		`src\extra.cpp`:    "src",
	}, f.FileFilters())
}

func TestFilters_Delete_NodeCascade(t *testing.T) {
	f := memFilters(t, sampleFilters)
	files, nodes, err := f.Delete(Selector{Target: "src"})
	require.NoError(t, err)

	assert.Equal(t, []string{`src\app.cpp`}, files)
	// the declaration goes even though src\util keeps the name alive
	assert.Equal(t, []string{"src"}, nodes)
	assert.Equal(t, []string{`src\util`, "docs"}, f.DeclaredFilters())
	assert.Equal(t, []string{`src\util\log.cpp`}, f.NodeFiles()[`src\util`])
}

func TestFilters_Delete_ExtensionCascadesUpward(t *testing.T) {
	f := memFilters(t, sampleFilters)
	files, nodes, err := f.Delete(Selector{Extension: "cpp"})
	require.NoError(t, err)

	assert.Equal(t, []string{"main.cpp", `src\app.cpp`, `src\util\log.cpp`}, files)
	// src\util empties first, which then frees src
	assert.Equal(t, []string{`src\util`, "src"}, nodes)
	// docs was empty before the delete and is left alone
	assert.Equal(t, []string{"docs"}, f.DeclaredFilters())
}

func TestFilters_Delete_PatternKeepsParentAlive(t *testing.T) {
	f := memFilters(t, sampleFilters)
	files, nodes, err := f.Delete(Selector{Extension: "cpp", Pattern: "util"})
	require.NoError(t, err)

	assert.Equal(t, []string{`src\util\log.cpp`}, files)
	assert.Equal(t, []string{`src\util`}, nodes)
	// src still holds app.cpp, so it survives
	assert.Contains(t, f.DeclaredFilters(), "src")
}

func TestFilters_Delete_NodeWithRetainedFilesKeepsDeclaration(t *testing.T) {
	f := memFilters(t, sampleFilters)
	files, nodes, err := f.Delete(Selector{Target: "src", Pattern: "zzz"})
	require.NoError(t, err)

	assert.Empty(t, files)
	assert.Empty(t, nodes)
	assert.Equal(t, sampleFilters, f.Content())
}

func TestFilters_Delete_EmptyNodeByName(t *testing.T) {
	f := memFilters(t, sampleFilters)
	files, nodes, err := f.Delete(Selector{Target: "docs"})
	require.NoError(t, err)

	assert.Empty(t, files)
	assert.Equal(t, []string{"docs"}, nodes)
	assert.NotContains(t, f.Content(), `<Filter Include="docs">`)
}

func TestFilters_Delete_FolderTarget(t *testing.T) {
	f := memFilters(t, sampleFilters)
	files, nodes, err := f.Delete(Selector{Target: "src/util/"})
	require.NoError(t, err)

	assert.Equal(t, []string{`src\util\log.cpp`}, files)
	assert.Equal(t, []string{`src\util`}, nodes)
	assert.Contains(t, f.DeclaredFilters(), "src")
}

func TestFilters_Delete_InvalidSelector(t *testing.T) {
	f := memFilters(t, sampleFilters)
	_, _, err := f.Delete(Selector{Target: "src", Extension: "cpp"})
	assert.ErrorIs(t, err, ErrInvalidSelector)
}

func TestFilters_Rename(t *testing.T) {
	f := memFilters(t, sampleFilters)
	res, err := f.Rename("src", "lib")
	require.NoError(t, err)

	assert.False(t, res.TargetExists)
	assert.Equal(t, []string{`src\app.cpp`}, res.Files)
	assert.Equal(t, []string{"lib", `src\util`, "docs"}, f.DeclaredFilters())
	// descendants keep their own names
	assert.Equal(t, `src\util`, f.FileFilters()[`src\util\log.cpp`])
	assert.Equal(t, "lib", f.FileFilters()[`src\app.cpp`])
}

func TestFilters_Rename_MissingSource(t *testing.T) {
	f := memFilters(t, sampleFilters)
	_, err := f.Rename("nope", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilters_Rename_TargetExists(t *testing.T) {
	f := memFilters(t, sampleFilters)
	res, err := f.Rename("src", "docs")
	require.NoError(t, err)

	assert.True(t, res.TargetExists)
	assert.Equal(t, []string{`src\app.cpp`}, res.Files)
	// rejected renames leave the document untouched
	assert.Equal(t, sampleFilters, f.Content())
}

func TestFilters_Merge(t *testing.T) {
	f := memFilters(t, sampleFilters)
	moved := f.Merge("src", "docs")

	assert.Equal(t, []string{`src\app.cpp`}, moved)
	assert.Equal(t, "docs", f.FileFilters()[`src\app.cpp`])
	assert.Equal(t, []string{`src\util`, "docs"}, f.DeclaredFilters())
}

func TestFilters_Merge_UndeclaredSource(t *testing.T) {
	f := memFilters(t, sampleFilters)
	// ghost is assigned but never declared
	f.doc.lines = insertLines(f.doc.lines,
		findForward(f.doc.lines, 0, `<ClCompile Include="main.cpp"`),
		`    <ClCompile Include="ghost.cpp">`,
		"      <Filter>ghost</Filter>",
		"    </ClCompile>",
	)

	moved := f.Merge("ghost", "docs")
	assert.Equal(t, []string{"ghost.cpp"}, moved)
	assert.Equal(t, "docs", f.FileFilters()["ghost.cpp"])
}

func TestFilters_PreviewCloneLeavesOriginalIntact(t *testing.T) {
	f := memFilters(t, sampleFilters)
	preview := f.Clone()
	_, _, err := preview.Delete(Selector{Extension: "cpp"})
	require.NoError(t, err)

	assert.Equal(t, sampleFilters, f.Content())
	assert.NotEqual(t, sampleFilters, preview.Content())

	// committing the same selector reproduces the preview exactly
	_, _, err = f.Delete(Selector{Extension: "cpp"})
	require.NoError(t, err)
	assert.Equal(t, preview.Content(), f.Content())
}

func TestCreateFilters_Scaffold(t *testing.T) {
	f := CreateFilters(memfs.New(), "app.vcxproj.filters")
	content := f.Content()

	assert.Contains(t, content, `<Filter Include="Source Files">`)
	assert.Contains(t, content, `<Filter Include="Header Files">`)
	assert.Contains(t, content, sourceFilesID)
	assert.Contains(t, content, headerFilesID)
	assert.Contains(t, content, "<Extensions>cpp;c;cc;cxx;")
}

func TestNewIdentifier_Format(t *testing.T) {
	id := NewIdentifier()
	assert.Len(t, id, 38)
	assert.Equal(t, byte('{'), id[0])
	assert.Equal(t, byte('}'), id[37])
	assert.NotEqual(t, id, NewIdentifier())
}
