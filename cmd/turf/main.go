package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aturoa13699-lab/turf-engine/config"
)

var (
	cfgPath   string
	verbose   bool
	logFormat string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "turf",
	Short: "Deterministic racing pipeline: resolve, compile, overlay, size, digest",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		if logFormat != "" {
			cfg.Log.Format = logFormat
		}
		setupLogger(cfg.Log)
		return nil
	},
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "set log level to debug")
	rootCmd.PersistentFlags().StringVar(&logFormat, "format", "", "log format: text|json (overrides config)")

	rootCmd.AddCommand(
		resolveCmd,
		planCmd,
		compileCmd,
		overlayCmd,
		bankrollCmd,
		simulateCmd,
		digestCmd,
		backtestCmd,
		watchCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func setupLogger(lc config.LogConfig) {
	var level slog.Level
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if lc.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
