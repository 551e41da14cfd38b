// Command rumbo is the command-line shell around the feature/task
// lifecycle tracker. Every subcommand calls the tracker operations; the
// binary itself decides nothing about wording, documents, or code.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rumbolabs/rumbo/internal/config"
	"github.com/rumbolabs/rumbo/internal/conflict"
	"github.com/rumbolabs/rumbo/internal/events"
	"github.com/rumbolabs/rumbo/internal/storage"
	"github.com/rumbolabs/rumbo/internal/tracker"
)

var (
	cfgPath string
	rootDir string
	actor   string

	cfg      *config.Config
	store    storage.Storage
	trk      *tracker.Tracker
	detector *conflict.Detector
)

var rootCmd = &cobra.Command{
	Use:   "rumbo",
	Short: "Feature/task lifecycle tracker for agent-driven development",
	Long: `Rumbo tracks features decomposed into ordered tasks, each moving
through a fixed pipeline of states, with task dependencies, per-feature
progress, and cross-feature conflict detection over declared file paths.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadOrDefault(cfgPath)
		if err != nil {
			return err
		}
		if rootDir != "" {
			cfg.Root = rootDir
		}
		if actor != "" {
			cfg.Actor = actor
		}
		stale, err := cfg.LockStaleDuration()
		if err != nil {
			return err
		}
		store, err = storage.NewStorage(&storage.Config{Root: cfg.Root, LockStale: stale})
		if err != nil {
			return err
		}
		var sink events.Sink = events.NopSink{}
		if cfg.Changelog != "" {
			sink = events.NewJSONLSink(cfg.Changelog)
		}
		trk, err = tracker.New(&tracker.Config{Store: store, Sink: sink, Actor: cfg.Actor})
		if err != nil {
			return err
		}
		detector = conflict.NewDetector(store)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", filepath.Join(".rumbo", "config.yaml"), "Path to config file")
	rootCmd.PersistentFlags().StringVar(&rootDir, "dir", "", "Tracker state directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Actor recorded on changelog events (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
