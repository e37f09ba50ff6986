package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vcxsync/vcxsync/internal/scan"
	"github.com/vcxsync/vcxsync/internal/vcxproj"
)

var (
	addDir       string
	addExt       string
	addRecursive bool
	addPattern   string
	addNegate    bool
	addDryRun    bool
)

func init() {
	addCmd.Flags().StringVar(&addDir, "dir", "", "Directory to scan (default: scan.directory from config)")
	addCmd.Flags().StringVar(&addExt, "ext", "", "File extension to look for, without the dot (default: scan.extension from config)")
	addCmd.Flags().BoolVarP(&addRecursive, "recursive", "r", false, "Descend into subdirectories")
	addCmd.Flags().StringVar(&addPattern, "pattern", "", "Regular expression over the scan-relative path")
	addCmd.Flags().BoolVar(&addNegate, "not", false, "Keep only files NOT matching --pattern")
	addCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "Preview without writing")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"a"},
	Short:   "Scan a directory and register new source files",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := addDir
		if dir == "" {
			dir = cfg.Scan.Directory
		}
		dir = absPath(dir)
		ext := addExt
		if ext == "" {
			ext = cfg.Scan.Extension
		}
		recursive := cfg.Scan.Recursive
		if cmd.Flags().Changed("recursive") {
			recursive = addRecursive
		}

		found, err := scan.Files(fsys, dir, scan.Options{
			Extension: ext,
			Recursive: recursive,
			Pattern:   addPattern,
			Negate:    addNegate,
		})
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Println("No matching files found.")
			return nil
		}

		pr, err := vcxproj.OpenPair(fsys, projectPath)
		if err != nil {
			return err
		}
		entries := vcxproj.ScannedEntries(projectPath, dir, found)

		if addDryRun {
			fmt.Printf("🔍 DRY RUN: scanning %s for *.%s\n", dir, ext)
			added := pr.Clone().Add(entries)
			reportAdds(entries, added)
			fmt.Println("✨ Dry run completed. No files were modified.")
			return nil
		}

		scaffolding := pr.Filters == nil
		added := pr.Add(entries)
		reportAdds(entries, added)
		if len(added) == 0 {
			fmt.Println("No new files to add.")
			return nil
		}
		if scaffolding {
			fmt.Printf("📁 Created %s\n", vcxproj.FiltersPath(projectPath))
		}
		if err := pr.Save(); err != nil {
			return err
		}
		fmt.Printf("✅ Added %d file(s) to %s\n", len(added), filepath.Base(projectPath))
		return nil
	},
}

// reportAdds prints one status line per scanned candidate.
func reportAdds(entries []vcxproj.Entry, added []string) {
	ok := make(map[string]bool, len(added))
	for _, a := range added {
		ok[a] = true
	}
	for _, e := range entries {
		include := strings.ReplaceAll(e.IncludePath, "/", `\`)
		switch {
		case ok[include]:
			fmt.Printf("  ➕ %s\n", include)
		case !vcxproj.IsSource(include):
			fmt.Printf("  ⏭️  %s (not a compile unit)\n", include)
		default:
			fmt.Printf("  ⏭️  %s (already exists)\n", include)
		}
	}
}
