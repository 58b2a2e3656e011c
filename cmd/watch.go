package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/weftworks/weft/internal/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Watch content and invalidate caches on change",
	Long: `Watch every content root (project and modules) and the style files
for changes, invalidating the engine's caches whenever a structured data
file changes. Runs until interrupted.

Intended for development alongside a rendering process that reads through
the engine: the next read after a change sees fresh content.

Examples:
  weft watch                      # Watch with the default debounce
  weft watch --debounce 500ms     # Coalesce changes over a longer window`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Debounce window for change bursts")
}

func runWatch(cmd *cobra.Command, args []string) error {
	eng, cfg, logger, err := newEngine()
	if err != nil {
		return err
	}

	cw, err := watcher.New(watchDebounce, logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer cw.Stop()

	cw.AddFilter(watcher.DataFileFilter)
	cw.AddHandler(func(events []watcher.ChangeEvent) {
		eng.Invalidate()
		for _, e := range events {
			fmt.Printf("%s %s\n", e.Type, e.Path)
		}
	})

	if err := cw.AddRecursive(cfg.Content.Root); err != nil {
		return fmt.Errorf("failed to watch content root: %w", err)
	}
	if err := cw.AddRecursive(cfg.Content.ModulesDir); err != nil {
		return fmt.Errorf("failed to watch modules directory: %w", err)
	}
	for _, styleFile := range []string{cfg.Styles.Theme, cfg.Styles.User} {
		if err := cw.AddFile(styleFile); err != nil {
			return fmt.Errorf("failed to watch style file %s: %w", styleFile, err)
		}
	}

	// Prime the cache so the first change log reflects a real rebuild.
	if _, err := eng.Content(cmd.Context()); err != nil {
		fmt.Fprintf(os.Stderr, "initial resolution failed: %v\n", err)
	}

	cw.Start(cmd.Context())
	fmt.Printf("watching %s (press Ctrl+C to stop)\n", cfg.Content.Root)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
	case <-cmd.Context().Done():
	}
	return nil
}
