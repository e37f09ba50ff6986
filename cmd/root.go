// Package cmd implements the vcxsync command tree.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/vcxsync/vcxsync/internal/config"
)

var (
	projectPath string
	configPath  string

	cfg = config.Default()

	// fsys is the filesystem every command operates on. It is rooted at
	// the OS root, so user paths are made absolute first. Tests swap in
	// a memfs.
	fsys billy.Filesystem = osfs.New("/")
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectPath, "project", "p", "", "Path to the .vcxproj file")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
}

var rootCmd = &cobra.Command{
	Use:   "vcxsync",
	Short: "Keep Visual Studio project and filter documents in sync",
	Long: `vcxsync maintains a Visual Studio C++ project (.vcxproj) and its
filter hierarchy (.vcxproj.filters) as a consistent pair: it registers
newly discovered sources in both documents, removes files from both,
and reshapes the filter tree without disturbing any line it does not
own.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := config.Load(configPath, cfg); err != nil {
				return err
			}
		} else if err := config.LoadOptional(config.DefaultFile, cfg); err != nil {
			return err
		}
		if projectPath == "" {
			projectPath = cfg.Project
		}
		if projectPath == "" {
			return fmt.Errorf("no project file: pass --project or set project in %s", config.DefaultFile)
		}
		projectPath = absPath(projectPath)
		return nil
	},
}

// absPath anchors a user-supplied path so it resolves against fsys.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
