package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vcxsync/vcxsync/internal/lint"
	"github.com/vcxsync/vcxsync/internal/vcxproj"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Cross-check the two documents for inconsistencies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pr, err := vcxproj.OpenPair(fsys, projectPath)
		if err != nil {
			return err
		}

		findings := lint.Check(pr.Project, pr.Filters)
		if len(findings) == 0 {
			fmt.Println("✅ Documents are consistent.")
			return nil
		}
		for _, f := range findings {
			fmt.Printf("  ⚠️  %s\n", f)
		}
		return fmt.Errorf("%d consistency finding(s)", len(findings))
	},
}
