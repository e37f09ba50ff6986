package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vcxsync/vcxsync/internal/scan"
	"github.com/vcxsync/vcxsync/internal/vcxproj"
	"github.com/vcxsync/vcxsync/internal/watch"
)

var (
	watchDir      string
	watchDebounce int
)

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "Directory to watch (default: scan.directory from config)")
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", 0, "Debounce interval in milliseconds (default: watch.debounce_ms from config)")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a directory and register new sources as they appear",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := watchDir
		if dir == "" {
			dir = cfg.Scan.Directory
		}
		dir = absPath(dir)
		debounce := cfg.Watch.Debounce()
		if cmd.Flags().Changed("debounce") {
			debounce = time.Duration(watchDebounce) * time.Millisecond
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.Level}))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("👀 Watching %s\n", dir)
		return watch.Run(ctx, watch.Options{
			Root:       dir,
			Extensions: cfg.Watch.Extensions,
			Debounce:   debounce,
			Logger:     logger,
		}, func() error { return syncScanned(dir) })
	},
}

// syncScanned runs one scan-and-register pass over dir for every
// watched extension.
func syncScanned(dir string) error {
	pr, err := vcxproj.OpenPair(fsys, projectPath)
	if err != nil {
		return err
	}
	var entries []vcxproj.Entry
	for _, ext := range cfg.Watch.Extensions {
		found, err := scan.Files(fsys, dir, scan.Options{Extension: ext, Recursive: true})
		if err != nil {
			return err
		}
		entries = append(entries, vcxproj.ScannedEntries(projectPath, dir, found)...)
	}

	added := pr.Add(entries)
	if len(added) == 0 {
		return nil
	}
	if err := pr.Save(); err != nil {
		return err
	}
	for _, a := range added {
		fmt.Printf("  ➕ %s\n", a)
	}
	fmt.Printf("✅ Added %d file(s) to %s\n", len(added), filepath.Base(projectPath))
	return nil
}
