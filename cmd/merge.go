package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vcxsync/vcxsync/internal/vcxproj"
)

func init() {
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge FROM TO",
	Short: "Fold one filter's files into another",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := args[0], args[1]
		f, err := vcxproj.OpenFilters(fsys, vcxproj.FiltersPath(projectPath))
		if err != nil {
			return err
		}

		moved := f.Merge(from, to)
		if err := f.Save(); err != nil {
			return err
		}
		fmt.Printf("✅ Merged %q into %q (%d file(s) moved)\n", from, to, len(moved))
		return nil
	},
}
