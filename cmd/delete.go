package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vcxsync/vcxsync/internal/vcxproj"
)

var (
	delFile    string
	delFolder  string
	delFilter  string
	delExt     string
	delPattern string
	delNegate  bool
	delDryRun  bool
	delYes     bool
)

func init() {
	deleteCmd.Flags().StringVar(&delFile, "file", "", "Path substring matching the files to remove")
	deleteCmd.Flags().StringVar(&delFolder, "folder", "", "Folder whose files are removed, either separator style")
	deleteCmd.Flags().StringVar(&delFilter, "filter", "", "Filter node to remove together with every file assigned to it")
	deleteCmd.Flags().StringVar(&delExt, "ext", "", "File extension to remove, without the dot")
	deleteCmd.Flags().StringVar(&delPattern, "pattern", "", "Regular expression narrowing the matched include paths")
	deleteCmd.Flags().BoolVar(&delNegate, "not", false, "Keep only matches NOT matching --pattern")
	deleteCmd.Flags().BoolVar(&delDryRun, "dry-run", false, "Preview without writing")
	deleteCmd.Flags().BoolVarP(&delYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"del"},
	Short:   "Remove source files from both documents",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := deleteSelector()
		if err != nil {
			return err
		}
		pr, err := vcxproj.OpenPair(fsys, projectPath)
		if err != nil {
			return err
		}

		// preview runs on a clone so the commit pass sees the same
		// document state and therefore the same set
		files, nodes, err := pr.Clone().Delete(sel)
		if err != nil {
			return err
		}
		if len(files) == 0 && len(nodes) == 0 {
			fmt.Println("No matching files found.")
			return nil
		}

		printDeletePreview(files, nodes)
		if delDryRun {
			fmt.Println("✨ Dry run completed. No files were modified.")
			return nil
		}
		if !delYes && !confirm(os.Stdin, fmt.Sprintf("Remove %s from %s?", sel.Describe(), filepath.Base(projectPath))) {
			fmt.Println("Operation cancelled.")
			return nil
		}

		if _, _, err := pr.Delete(sel); err != nil {
			return err
		}
		if err := pr.Save(); err != nil {
			return err
		}
		fmt.Printf("🗑️  Successfully removed %d file(s) from project files\n", len(files))
		return nil
	},
}

// deleteSelector maps the four mutually exclusive selector flags onto
// one selector.
func deleteSelector() (vcxproj.Selector, error) {
	sel := vcxproj.Selector{Pattern: delPattern, Negate: delNegate}
	set := 0
	if delFile != "" {
		sel.Target = delFile
		set++
	}
	if delFolder != "" {
		sel.Target = vcxproj.FolderTarget(delFolder)
		set++
	}
	if delFilter != "" {
		sel.Target = delFilter
		set++
	}
	if delExt != "" {
		sel.Extension = delExt
		set++
	}
	if set != 1 {
		return vcxproj.Selector{}, fmt.Errorf("exactly one of --file, --folder, --filter, --ext is required")
	}
	return sel, nil
}

func printDeletePreview(files, nodes []string) {
	if len(files) > 0 {
		fmt.Println("📁 Files to be removed from project:")
		for _, f := range files {
			fmt.Printf("  🗑️  %s\n", f)
		}
	}
	if len(nodes) > 0 {
		fmt.Println("📂 Filters to be removed:")
		for _, n := range nodes {
			fmt.Printf("  🗑️  %s\n", n)
		}
	}
}

// confirm prints the prompt and accepts y or yes, case insensitive.
// Anything else, including EOF, aborts.
func confirm(in io.Reader, prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
