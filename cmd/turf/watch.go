package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aturoa13699-lab/turf-engine/internal/adapters/odds"
)

var (
	watchMeeting string
	watchRace    int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the odds source for a race and archive every change",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := odds.NewFileProvider(cfg.Odds.Dir)
		watcher := odds.NewWatcher(provider, cfg.OddsInterval(), cfg.Odds.HistoryDir, slog.Default())

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		slog.Info("watching odds",
			"meeting", watchMeeting, "race", watchRace,
			"dir", cfg.Odds.Dir, "interval", cfg.OddsInterval())

		err := watcher.Watch(ctx, watchMeeting, watchRace, nil)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchMeeting, "meeting", "", "meeting id (required)")
	watchCmd.Flags().IntVar(&watchRace, "race", 1, "race number")
	watchCmd.MarkFlagRequired("meeting")
}
