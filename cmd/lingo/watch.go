package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/lingo/pkg/config"
	"github.com/jingkaihe/lingo/pkg/logger"
	"github.com/jingkaihe/lingo/pkg/presenter"
)

// WatchConfig holds configuration for the watch command.
type WatchConfig struct {
	Patterns     []string
	Ignores      []string
	IgnoreDirs   []string
	DebounceTime int
}

// NewWatchConfig creates a WatchConfig with default values.
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		Patterns:     []string{"**/*.component.html"},
		Ignores:      []string{"node_modules/**", "dist/**"},
		IgnoreDirs:   []string{".git", "node_modules", "dist"},
		DebounceTime: 500,
	}
}

// Validate validates the WatchConfig and returns an error if invalid.
func (c *WatchConfig) Validate() error {
	if c.DebounceTime < 0 {
		return errors.Errorf("debounce time cannot be negative: %d", c.DebounceTime)
	}
	return nil
}

var watchCmd = &cobra.Command{
	Use:   "watch [template globs...]",
	Short: "Watch templates and re-run extraction on change",
	Long: `Continuously monitor the working tree and re-run extraction whenever a
template changes. Events are debounced so editor save bursts trigger a single
run. Each run has the same guarantees as a one-shot extract.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromViper()
		if err != nil {
			return err
		}
		wcfg := getWatchConfigFromFlags(cmd, args)
		if err := wcfg.Validate(); err != nil {
			return err
		}
		return runWatch(cmd.Context(), cfg, wcfg)
	},
}

func init() {
	defaults := NewWatchConfig()
	watchCmd.Flags().Int("debounce", defaults.DebounceTime, "Debounce time in milliseconds")
	watchCmd.Flags().StringSlice("ignore", defaults.Ignores, "Glob patterns to exclude from discovery")
}

func getWatchConfigFromFlags(cmd *cobra.Command, args []string) *WatchConfig {
	cfg := NewWatchConfig()
	if len(args) > 0 {
		cfg.Patterns = args
	}
	if debounce, err := cmd.Flags().GetInt("debounce"); err == nil {
		cfg.DebounceTime = debounce
	}
	if ignores, err := cmd.Flags().GetStringSlice("ignore"); err == nil {
		cfg.Ignores = ignores
	}
	return cfg
}

func runWatch(ctx context.Context, cfg *config.Config, wcfg *WatchConfig) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	if err := watchTree(watcher, ".", wcfg.IgnoreDirs); err != nil {
		return err
	}
	presenter.Info("Watching for template changes. Ctrl-C to stop.")

	debounce := time.Duration(wcfg.DebounceTime) * time.Millisecond
	var timer *time.Timer
	runs := make(chan struct{}, 1)

	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			select {
			case runs <- struct{}{}:
			default:
			}
		})
	}

	ecfg := &ExtractConfig{Patterns: wcfg.Patterns, Ignores: wcfg.Ignores, Output: "text"}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !strings.HasSuffix(event.Name, ".html") {
				// new directories need to join the watch set
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						watchTree(watcher, event.Name, wcfg.IgnoreDirs)
					}
				}
				continue
			}
			schedule()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Warn("watcher error")
		case <-runs:
			if err := runExtract(ctx, cfg, ecfg); err != nil {
				presenter.Error(err, "extraction failed")
			}
		}
	}
}

// watchTree registers root and its subdirectories, skipping ignored names.
func watchTree(watcher *fsnotify.Watcher, root string, ignoreDirs []string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		for _, ignore := range ignoreDirs {
			if d.Name() == ignore {
				return filepath.SkipDir
			}
		}
		return watcher.Add(path)
	})
}
