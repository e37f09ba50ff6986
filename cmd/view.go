package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vcxsync/vcxsync/internal/hierarchy"
	"github.com/vcxsync/vcxsync/internal/vcxproj"
)

var (
	viewDepth     int
	viewFilesOnly bool
)

func init() {
	viewCmd.Flags().IntVar(&viewDepth, "depth", -1, "Maximum folder depth to show; 0 for top-level folders only, negative for unlimited")
	viewCmd.Flags().BoolVar(&viewFilesOnly, "files-only", false, "Hide filters that contain no files")
	rootCmd.AddCommand(viewCmd)
}

var viewCmd = &cobra.Command{
	Use:     "view",
	Aliases: []string{"v"},
	Short:   "Render the filter hierarchy as a tree",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pr, err := vcxproj.OpenPair(fsys, projectPath)
		if err != nil {
			return err
		}

		opts := hierarchy.Options{MaxDepth: viewDepth, FilesOnly: viewFilesOnly}
		fmt.Print(pr.Tree().Render(filepath.Base(projectPath), opts))

		folders := 0
		if pr.Filters != nil {
			folders = len(pr.Filters.NodeFiles())
		}
		fmt.Printf("\n📊 Project summary: %d files\n", len(pr.Project.Sources()))
		fmt.Printf("   %d filters\n", folders)
		return nil
	},
}
