package main

import (
	"github.com/spf13/cobra"

	"github.com/aturoa13699-lab/turf-engine/internal/backtest"
	"github.com/aturoa13699-lab/turf-engine/internal/digest"
)

var (
	backtestOut   string
	backtestTable bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest <date>",
	Short: "Re-aggregate a day of stored cards and simulate the strategy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		dcfg := digest.DefaultDailyConfig()
		dcfg.PreferPro = cfg.Digest.PreferPro
		dcfg.Rules = cfg.Bankroll.Rules
		dcfg.Policy = cfg.Bankroll.Policy
		dcfg.Sim = cfg.Bankroll.Sim
		dcfg.Simulate = true

		d, err := backtest.Run(cmd.Context(), store, args[0], dcfg)
		if err != nil {
			return err
		}

		if backtestTable {
			return console().NotifyDigest(cmd.Context(), d)
		}
		return writeArtifact(backtestOut, d)
	},
}

func init() {
	backtestCmd.Flags().StringVarP(&backtestOut, "out", "o", "", "write digest JSON to file instead of stdout")
	backtestCmd.Flags().BoolVar(&backtestTable, "table", false, "print a table instead of JSON")
}
