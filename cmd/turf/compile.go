package main

import (
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
	"github.com/aturoa13699-lab/turf-engine/internal/lite"
)

var (
	compileMarket string
	compileOdds   string
	compileSpeeds string
	compileOut    string
	compileSave   bool
	compileTable  bool
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the canonical stake card from a market snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		var snap domain.MarketSnapshot
		if err := readJSON(compileMarket, &snap); err != nil {
			return err
		}

		var oddsMiss []string
		if compileOdds != "" {
			var odds domain.MarketOdds
			if err := readJSON(compileOdds, &odds); err != nil {
				return err
			}
			merged, warnings, err := lite.MergeOdds(snap, odds)
			if err != nil {
				return err
			}
			snap = merged
			oddsMiss = warnings
		}

		var sidecar domain.SpeedSidecar
		if compileSpeeds != "" {
			if err := readJSON(compileSpeeds, &sidecar); err != nil {
				return err
			}
		}

		card, err := lite.Compile(snap, sidecar, cfg.Lite.Weights)
		if err != nil {
			return err
		}
		if len(oddsMiss) > 0 {
			card.Warnings = append(card.Warnings, oddsMiss...)
			sort.Strings(card.Warnings)
		}

		slog.Info("card compiled",
			"meeting", card.Meta.MeetingID, "race", card.Meta.RaceNumber,
			"mode", card.DegradeMode, "warnings", len(card.Warnings))

		if compileSave {
			if err := saveCard(cmd.Context(), card); err != nil {
				return err
			}
		}
		if compileTable {
			return console().NotifyCard(cmd.Context(), card)
		}
		return writeArtifact(compileOut, card)
	},
}

func init() {
	compileCmd.Flags().StringVar(&compileMarket, "market", "", "market snapshot JSON (required)")
	compileCmd.Flags().StringVar(&compileOdds, "odds", "", "market odds JSON to merge before compiling")
	compileCmd.Flags().StringVar(&compileSpeeds, "speeds", "", "speed sidecar JSON")
	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "", "write card to file instead of stdout")
	compileCmd.Flags().BoolVar(&compileSave, "save", false, "persist the card to the history store")
	compileCmd.Flags().BoolVar(&compileTable, "table", false, "print a table instead of JSON")
	compileCmd.MarkFlagRequired("market")
}
