// Package mcpserver exposes the project maintenance operations as MCP
// tools over stdio transport, so agents can inspect and edit a project
// without shelling out to the CLI.
package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vcxsync/vcxsync/internal/hierarchy"
	"github.com/vcxsync/vcxsync/internal/lint"
	"github.com/vcxsync/vcxsync/internal/scan"
	"github.com/vcxsync/vcxsync/internal/vcxproj"
)

// Server wraps the MCP server with the project maintenance tools. Every
// tool call loads the documents fresh, applies its operation, and
// writes back, so the server itself holds no document state.
type Server struct {
	mcp         *server.MCPServer
	fs          billy.Filesystem
	projectPath string
}

// New creates an MCP server bound to one project file.
func New(fs billy.Filesystem, projectPath string) *Server {
	s := &Server{fs: fs, projectPath: projectPath}

	s.mcp = server.NewMCPServer(
		"vcxsync",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("list_files",
		mcp.WithDescription("List every source file registered in the project, in document order."),
	), s.listFiles)

	s.mcp.AddTool(mcp.NewTool("view_tree",
		mcp.WithDescription("Render the project's filter hierarchy as a tree."),
		mcp.WithString("depth", mcp.Description("Maximum folder depth to show; 0 for top-level folders only, empty for unlimited")),
		mcp.WithString("files_only", mcp.Description("Set to true to hide filters that contain no files")),
	), s.viewTree)

	s.mcp.AddTool(mcp.NewTool("add_files",
		mcp.WithDescription("Scan a directory for source files and register them in the project and its filter hierarchy."),
		mcp.WithString("directory", mcp.Description("Directory to scan (default: the current directory)")),
		mcp.WithString("extension", mcp.Description("File extension to look for, without the dot (default: cpp)")),
		mcp.WithString("recursive", mcp.Description("Set to true to descend into subdirectories")),
		mcp.WithString("pattern", mcp.Description("Regular expression over the scan-relative path")),
		mcp.WithString("negate", mcp.Description("Set to true to keep only files NOT matching pattern")),
	), s.addFiles)

	s.mcp.AddTool(mcp.NewTool("delete_files",
		mcp.WithDescription("Remove source files from the project and its filter hierarchy. Exactly one of file, folder, filter, extension selects what goes."),
		mcp.WithString("file", mcp.Description("Path substring matching the files to remove")),
		mcp.WithString("folder", mcp.Description("Folder whose files are removed, either separator style")),
		mcp.WithString("filter", mcp.Description("Filter node name; removes the node and every file assigned to it")),
		mcp.WithString("extension", mcp.Description("File extension, without the dot")),
		mcp.WithString("pattern", mcp.Description("Regular expression narrowing the matched include paths")),
		mcp.WithString("negate", mcp.Description("Set to true to keep only matches NOT matching pattern")),
	), s.deleteFiles)

	s.mcp.AddTool(mcp.NewTool("rename_filter",
		mcp.WithDescription("Rename a filter node, keeping every file assignment pointing at it."),
		mcp.WithString("from", mcp.Required(), mcp.Description("Current filter name")),
		mcp.WithString("to", mcp.Required(), mcp.Description("New filter name")),
	), s.renameFilter)

	s.mcp.AddTool(mcp.NewTool("merge_filters",
		mcp.WithDescription("Move every file assigned to one filter into another and drop the source filter."),
		mcp.WithString("from", mcp.Required(), mcp.Description("Filter to dissolve")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Filter that receives the files")),
	), s.mergeFilters)

	s.mcp.AddTool(mcp.NewTool("add_property",
		mcp.WithDescription("Prepend a value to a per-configuration property list in every configuration block."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("One of include-dirs, library-dirs, libraries")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Value to prepend, e.g. a directory or library name")),
	), s.addProperty)

	s.mcp.AddTool(mcp.NewTool("check_consistency",
		mcp.WithDescription("Cross-check the project and filter documents and report registrations, assignments, and declarations that disagree."),
	), s.checkConsistency)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) open() (*vcxproj.Pair, error) {
	return vcxproj.OpenPair(s.fs, s.projectPath)
}

func (s *Server) listFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pr, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sources := pr.Project.Sources()
	if len(sources) == 0 {
		return mcp.NewToolResultText("no source files registered"), nil
	}
	return mcp.NewToolResultText(strings.Join(sources, "\n")), nil
}

func (s *Server) viewTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := hierarchy.Options{MaxDepth: -1}
	if v, err := req.RequireString("depth"); err == nil && v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid depth %q", v)), nil
		}
		opts.MaxDepth = n
	}
	if v, err := req.RequireString("files_only"); err == nil {
		opts.FilesOnly = v == "true"
	}

	pr, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(pr.Tree().Render(filepath.Base(s.projectPath), opts)), nil
}

func (s *Server) addFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := "."
	if v, err := req.RequireString("directory"); err == nil && v != "" {
		dir = v
	}
	opts := scan.Options{Extension: "cpp"}
	if v, err := req.RequireString("extension"); err == nil && v != "" {
		opts.Extension = v
	}
	if v, err := req.RequireString("recursive"); err == nil {
		opts.Recursive = v == "true"
	}
	if v, err := req.RequireString("pattern"); err == nil {
		opts.Pattern = v
	}
	if v, err := req.RequireString("negate"); err == nil {
		opts.Negate = v == "true"
	}

	found, err := scan.Files(s.fs, dir, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(found) == 0 {
		return mcp.NewToolResultText("no matching files found"), nil
	}

	pr, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	added := pr.Add(vcxproj.ScannedEntries(s.projectPath, dir, found))
	if len(added) == 0 {
		return mcp.NewToolResultText("all matching files are already registered"), nil
	}
	if err := pr.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("added %d file(s):\n%s", len(added), strings.Join(added, "\n"))), nil
}

func (s *Server) deleteFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sel vcxproj.Selector
	selectors := 0
	if v, err := req.RequireString("file"); err == nil && v != "" {
		sel.Target = v
		selectors++
	}
	if v, err := req.RequireString("folder"); err == nil && v != "" {
		sel.Target = vcxproj.FolderTarget(v)
		selectors++
	}
	if v, err := req.RequireString("filter"); err == nil && v != "" {
		sel.Target = v
		selectors++
	}
	if v, err := req.RequireString("extension"); err == nil && v != "" {
		sel.Extension = v
		selectors++
	}
	if selectors != 1 {
		return mcp.NewToolResultError("exactly one of file, folder, filter, extension is required"), nil
	}
	if v, err := req.RequireString("pattern"); err == nil {
		sel.Pattern = v
	}
	if v, err := req.RequireString("negate"); err == nil {
		sel.Negate = v == "true"
	}

	pr, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	files, nodes, err := pr.Delete(sel)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(files) == 0 && len(nodes) == 0 {
		return mcp.NewToolResultText("no matching files found"), nil
	}
	if err := pr.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "removed %d file(s)", len(files))
	for _, f := range files {
		b.WriteString("\n  " + f)
	}
	if len(nodes) > 0 {
		fmt.Fprintf(&b, "\nremoved %d filter(s)", len(nodes))
		for _, n := range nodes {
			b.WriteString("\n  " + n)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) renameFilter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pr, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if pr.Filters == nil {
		return mcp.NewToolResultError("project has no filters document"), nil
	}
	res, err := pr.Filters.Rename(from, to)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.TargetExists {
		return mcp.NewToolResultError(fmt.Sprintf("filter %q already exists; use merge_filters to combine them", to)), nil
	}
	if err := pr.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("renamed %q to %q, %d file(s) reassigned", from, to, len(res.Files))), nil
}

func (s *Server) mergeFilters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pr, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if pr.Filters == nil {
		return mcp.NewToolResultError("project has no filters document"), nil
	}
	moved := pr.Filters.Merge(from, to)
	if err := pr.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("merged %q into %q, %d file(s) moved", from, to, len(moved))), nil
}

func (s *Server) addProperty(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	prop, err := vcxproj.ParseProperty(kind)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pr, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	touched := pr.Project.InjectProperty(prop, value)
	if len(touched) == 0 {
		return mcp.NewToolResultText("project declares no configurations, nothing to change"), nil
	}
	if err := pr.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("added %q in %d configuration(s):\n%s", value, len(touched), strings.Join(touched, "\n"))), nil
}

func (s *Server) checkConsistency(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pr, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	findings := lint.Check(pr.Project, pr.Filters)
	if len(findings) == 0 {
		return mcp.NewToolResultText("documents are consistent"), nil
	}
	lines := make([]string, 0, len(findings))
	for _, f := range findings {
		lines = append(lines, f.String())
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}
