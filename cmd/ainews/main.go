package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deusflow/ainews/internal/app"
	"github.com/deusflow/ainews/internal/config"
	"github.com/deusflow/ainews/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ainews",
		Short:         "Curate a news digest from RSS feeds",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init()
		},
	}
	root.AddCommand(newRunCmd(), newServeCmd(), newPresetsCmd(), newStatsCmd())
	return root
}

func openApp(ctx context.Context) (*app.App, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	a, err := app.New(ctx, cfg, logger.Logger)
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}

func newRunCmd() *cobra.Command {
	var (
		ov       app.Overrides
		report   app.ReportOptions
		otherMin int
		otherMax int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, curate and publish one digest",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("other-min") {
				ov.OtherMin = &otherMin
			}
			if cmd.Flags().Changed("other-max") {
				ov.OtherMax = &otherMax
			}
			a, _, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Run(cmd.Context(), ov)
			if err != nil {
				return err
			}
			return a.Report(cmd.OutOrStdout(), res, report)
		},
	}
	f := cmd.Flags()
	f.StringVar(&ov.Preset, "preset", "", "preset name (default from PRESET)")
	f.IntVar(&ov.Hours, "hours", 0, "fixed lookback window in hours")
	f.IntVar(&ov.Top, "top", 0, "number of top stories")
	f.IntVar(&otherMin, "other-min", 0, "minimum other-news items")
	f.IntVar(&otherMax, "other-max", 0, "maximum other-news items")
	f.IntVar(&ov.Workers, "workers", 0, "concurrent feed downloads")
	f.StringSliceVar(&ov.Categories, "categories", nil, "restrict to these category keys")
	f.BoolVar(&ov.Precision, "precision", false, "use entity-aware classification")
	f.BoolVar(&ov.NoPublish, "no-telegram", false, "do not post to Telegram")
	f.BoolVar(&report.Explain, "explain", false, "print score breakdowns for the top stories")
	f.BoolVar(&report.Metrics, "metrics", false, "print entity and confidence statistics")
	f.BoolVar(&report.ABPrecision, "ab-precision", false, "compare keyword and entity-aware classification")
	return cmd
}

func newServeCmd() *cobra.Command {
	var now bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run on the configured schedule and serve /health and /metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cfg, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(cmd.Context(), a, cfg, now)
		},
	}
	cmd.Flags().BoolVar(&now, "now", false, "run once immediately before waiting for the schedule")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := config.LoadPresets(path)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, name := range presets.Names() {
				p := presets[name]
				window := "since last run"
				if d, ok := p.Window(); ok {
					window = "last " + d.String()
				}
				fmt.Fprintf(w, "%-14s %s (%s, top %d)\n", name, p.Description, window, p.TopArticles)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", envOr("PRESETS_PATH", "configs/presets.yaml"), "presets file")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var (
		recent   int
		category string
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stored article counts per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			w := cmd.OutOrStdout()
			counts, err := a.Stats(cmd.Context())
			if err != nil {
				return err
			}
			for _, key := range a.Rules.Keys() {
				fmt.Fprintf(w, "%-20s %d\n", key, counts[key])
			}
			if last := a.State.LastRun(); last != nil {
				fmt.Fprintf(w, "last run: %s\n", last.Format("2006-01-02 15:04 MST"))
			}
			fmt.Fprintf(w, "sent items tracked: %d\n", a.State.GetStats()["sent_items"])

			if recent <= 0 {
				return nil
			}
			arts, err := a.Recent(cmd.Context(), time.Now().Add(-24*time.Hour), category, recent)
			if err != nil {
				return err
			}
			fmt.Fprintln(w)
			for i, art := range arts {
				fmt.Fprintf(w, "%2d. [%.2f] %s (%s)\n", i+1, art.FinalScore, art.Title, art.Outlet)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&recent, "recent", 0, "also list the best N articles stored in the last 24h")
	cmd.Flags().StringVar(&category, "category", "", "restrict --recent to one category")
	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
