package mcpserver

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProject = `<?xml version="1.0" encoding="utf-8"?>
<Project DefaultTargets="Build" ToolsVersion="4.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <ItemGroup>
    <ClCompile Include="main.cpp" />
    <ClCompile Include="src\app.cpp" />
  </ItemGroup>
  <ItemDefinitionGroup Condition="'$(Configuration)|$(Platform)'=='Debug|Win32'">
    <ClCompile>
      <WarningLevel>Level3</WarningLevel>
    </ClCompile>
  </ItemDefinitionGroup>
  <ItemDefinitionGroup Condition="'$(Configuration)|$(Platform)'=='Release|Win32'">
    <ClCompile>
      <WarningLevel>Level3</WarningLevel>
    </ClCompile>
  </ItemDefinitionGroup>
</Project>
`

const testFilters = `<?xml version="1.0" encoding="utf-8"?>
<Project ToolsVersion="4.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <ItemGroup>
    <Filter Include="src">
      <UniqueIdentifier>{AAAAAAAA-AAAA-AAAA-AAAA-AAAAAAAAAAAA}</UniqueIdentifier>
    </Filter>
    <Filter Include="docs">
      <UniqueIdentifier>{BBBBBBBB-BBBB-BBBB-BBBB-BBBBBBBBBBBB}</UniqueIdentifier>
    </Filter>
  </ItemGroup>
  <ItemGroup>
    <ClCompile Include="main.cpp" />
    <ClCompile Include="src\app.cpp">
      <Filter>src</Filter>
    </ClCompile>
  </ItemGroup>
</Project>
`

func testServer(t *testing.T) (*Server, billy.Filesystem) {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "proj/app.vcxproj", []byte(testProject), 0o644))
	require.NoError(t, util.WriteFile(fs, "proj/app.vcxproj.filters", []byte(testFilters), 0o644))
	return New(fs, "proj/app.vcxproj"), fs
}

// callTool dispatches to the handler the tool name is registered with,
// the way the stdio transport would.
func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error
	switch name {
	case "list_files":
		result, err = srv.listFiles(ctx, req)
	case "view_tree":
		result, err = srv.viewTree(ctx, req)
	case "add_files":
		result, err = srv.addFiles(ctx, req)
	case "delete_files":
		result, err = srv.deleteFiles(ctx, req)
	case "rename_filter":
		result, err = srv.renameFilter(ctx, req)
	case "merge_filters":
		result, err = srv.mergeFilters(ctx, req)
	case "add_property":
		result, err = srv.addProperty(ctx, req)
	case "check_consistency":
		result, err = srv.checkConsistency(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}
	require.NoError(t, err, "tool %s", name)
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListFiles(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_files", map[string]any{})
	assert.Equal(t, "main.cpp\nsrc\\app.cpp", resultText(r))
}

func TestViewTree(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "view_tree", map[string]any{})
	want := `📁 app.vcxproj
├── 📄 main.cpp
├── 📁 docs
└── 📁 src
    └── 📄 app.cpp
`
	assert.Equal(t, want, resultText(r))
}

func TestViewTreeFilesOnly(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "view_tree", map[string]any{"files_only": "true"})
	assert.NotContains(t, resultText(r), "docs")
}

func TestViewTreeBadDepth(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "view_tree", map[string]any{"depth": "deep"})
	assert.True(t, r.IsError)
}

func TestAddFiles(t *testing.T) {
	srv, fs := testServer(t)
	require.NoError(t, util.WriteFile(fs, "proj/main.cpp", []byte("int main() {}\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "proj/src/extra.cpp", []byte("// extra\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "proj/notes.txt", []byte("notes\n"), 0o644))

	r := callTool(t, srv, "add_files", map[string]any{"directory": "proj", "recursive": "true"})
	text := resultText(r)
	assert.Contains(t, text, "added 1 file(s)")
	assert.Contains(t, text, `src\extra.cpp`)

	onDisk, err := util.ReadFile(fs, "proj/app.vcxproj.filters")
	require.NoError(t, err)
	assert.Contains(t, string(onDisk), `<ClCompile Include="src\extra.cpp">`)
}

func TestAddFilesNothingFound(t *testing.T) {
	srv, fs := testServer(t)
	require.NoError(t, fs.MkdirAll("proj/empty", 0o755))

	r := callTool(t, srv, "add_files", map[string]any{"directory": "proj/empty"})
	assert.Equal(t, "no matching files found", resultText(r))
}

func TestDeleteFiles(t *testing.T) {
	srv, fs := testServer(t)
	r := callTool(t, srv, "delete_files", map[string]any{"file": "app.cpp"})
	text := resultText(r)
	assert.Contains(t, text, "removed 1 file(s)")
	assert.Contains(t, text, `src\app.cpp`)
	assert.Contains(t, text, "removed 1 filter(s)")

	onDisk, err := util.ReadFile(fs, "proj/app.vcxproj")
	require.NoError(t, err)
	assert.NotContains(t, string(onDisk), "app.cpp\"")
}

func TestDeleteFilesNeedsExactlyOneSelector(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "delete_files", map[string]any{})
	assert.True(t, r.IsError)

	r = callTool(t, srv, "delete_files", map[string]any{"file": "x", "extension": "cpp"})
	assert.True(t, r.IsError)
}

func TestRenameFilter(t *testing.T) {
	srv, fs := testServer(t)
	r := callTool(t, srv, "rename_filter", map[string]any{"from": "src", "to": "engine"})
	assert.Equal(t, `renamed "src" to "engine", 1 file(s) reassigned`, resultText(r))

	onDisk, err := util.ReadFile(fs, "proj/app.vcxproj.filters")
	require.NoError(t, err)
	assert.Contains(t, string(onDisk), `<Filter Include="engine">`)
}

func TestRenameFilterConflict(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "rename_filter", map[string]any{"from": "src", "to": "docs"})
	assert.True(t, r.IsError)
	assert.Contains(t, resultText(r), "merge_filters")
}

func TestRenameFilterMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "rename_filter", map[string]any{"from": "nope", "to": "docs"})
	assert.True(t, r.IsError)
}

func TestMergeFilters(t *testing.T) {
	srv, fs := testServer(t)
	r := callTool(t, srv, "merge_filters", map[string]any{"from": "src", "to": "docs"})
	assert.Equal(t, `merged "src" into "docs", 1 file(s) moved`, resultText(r))

	onDisk, err := util.ReadFile(fs, "proj/app.vcxproj.filters")
	require.NoError(t, err)
	assert.NotContains(t, string(onDisk), `<Filter Include="src">`)
	assert.Contains(t, string(onDisk), "<Filter>docs</Filter>")
}

func TestAddProperty(t *testing.T) {
	srv, fs := testServer(t)
	r := callTool(t, srv, "add_property", map[string]any{"kind": "include-dirs", "value": `..\include`})
	assert.Contains(t, resultText(r), "2 configuration(s)")

	onDisk, err := util.ReadFile(fs, "proj/app.vcxproj")
	require.NoError(t, err)
	assert.Contains(t, string(onDisk), `..\include;%(AdditionalIncludeDirectories)`)
}

func TestAddPropertyBadKind(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "add_property", map[string]any{"kind": "defines", "value": "NDEBUG"})
	assert.True(t, r.IsError)
}

func TestCheckConsistency(t *testing.T) {
	srv, fs := testServer(t)
	r := callTool(t, srv, "check_consistency", map[string]any{})
	assert.Equal(t, "documents are consistent", resultText(r))

	// strand a registration with no hierarchy entry
	content, err := util.ReadFile(fs, "proj/app.vcxproj")
	require.NoError(t, err)
	broken := string(content)
	broken = broken[:len(broken)-len("</Project>\n")] +
		"  <ItemGroup>\n    <ClCompile Include=\"stray.cpp\" />\n  </ItemGroup>\n</Project>\n"
	require.NoError(t, util.WriteFile(fs, "proj/app.vcxproj", []byte(broken), 0o644))

	r = callTool(t, srv, "check_consistency", map[string]any{})
	assert.Contains(t, resultText(r), "[missing-in-filters] stray.cpp")
}
