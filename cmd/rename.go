package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vcxsync/vcxsync/internal/vcxproj"
)

var renameMerge bool

func init() {
	renameCmd.Flags().BoolVar(&renameMerge, "merge", false, "Merge into the target when it already exists")
	rootCmd.AddCommand(renameCmd)
}

var renameCmd = &cobra.Command{
	Use:     "rename FROM TO",
	Aliases: []string{"ren"},
	Short:   "Rename a filter node",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := args[0], args[1]
		f, err := vcxproj.OpenFilters(fsys, vcxproj.FiltersPath(projectPath))
		if err != nil {
			return err
		}

		res, err := f.Rename(from, to)
		if err != nil {
			return err
		}
		if res.TargetExists {
			if !renameMerge {
				fmt.Printf("⚠️  Conflict detected! Filter %q already exists.\n", to)
				fmt.Printf("   Run again with --merge to move %d file(s) from %q into %q.\n", len(res.Files), from, to)
				return nil
			}
			moved := f.Merge(from, to)
			if err := f.Save(); err != nil {
				return err
			}
			fmt.Printf("✅ Merged %q into %q (%d file(s) moved)\n", from, to, len(moved))
			return nil
		}

		if err := f.Save(); err != nil {
			return err
		}
		fmt.Printf("✅ Renamed %q to %q (%d file(s) reassigned)\n", from, to, len(res.Files))
		return nil
	},
}
