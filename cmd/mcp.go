package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vcxsync/vcxsync/internal/mcpserver"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the project tools over MCP stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpserver.New(fsys, projectPath).ServeStdio()
	},
}
