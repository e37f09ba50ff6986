package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vcxsync/vcxsync/internal/vcxproj"
)

func init() {
	rootCmd.AddCommand(
		propertyCommand("add-incdir DIR", "incdir", "Add an include directory to every configuration", vcxproj.IncludeDirs),
		propertyCommand("add-libdir DIR", "libdir", "Add a library directory to every configuration", vcxproj.LibraryDirs),
		propertyCommand("add-lib NAME", "lib", "Add a library dependency to every configuration", vcxproj.Libraries),
	)
}

// propertyCommand builds one injection command; the three share
// everything but the property they extend.
func propertyCommand(use, alias, short string, prop vcxproj.Property) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Aliases: []string{alias},
		Short:   short,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := args[0]
			p, err := vcxproj.OpenProject(fsys, projectPath)
			if err != nil {
				return err
			}

			touched := p.InjectProperty(prop, value)
			if len(touched) == 0 {
				fmt.Println("⚠️  Project declares no configurations, nothing to change.")
				return nil
			}
			if err := p.Save(); err != nil {
				return err
			}
			for _, cond := range touched {
				fmt.Printf("  ✅ %s\n", cond)
			}
			fmt.Printf("✅ Added %q in %d configuration(s)\n", value, len(touched))
			return nil
		},
	}
}
