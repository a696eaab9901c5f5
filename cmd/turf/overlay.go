package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aturoa13699-lab/turf-engine/internal/digest"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
	"github.com/aturoa13699-lab/turf-engine/internal/pro"
)

var (
	overlayCard   string
	overlaySpeeds string
	overlayOut    string
	overlayAll    bool
	overlaySave   bool
	overlayTable  bool
)

var overlayCmd = &cobra.Command{
	Use:   "overlay",
	Short: "Apply the PRO overlay to a compiled stake card",
	RunE: func(cmd *cobra.Command, args []string) error {
		var card domain.StakeCard
		if err := readJSON(overlayCard, &card); err != nil {
			return err
		}

		var sidecar domain.SpeedSidecar
		if overlaySpeeds != "" {
			if err := readJSON(overlaySpeeds, &sidecar); err != nil {
				return err
			}
		}

		flags := cfg.Pro.Flags
		if overlayAll {
			flags = pro.FeatureFlags{
				EVBands:          true,
				RaceSummary:      true,
				RunnerNarratives: true,
				RunnerFitness:    true,
				RunnerRisk:       true,
				TrapRace:         true,
			}
		}

		out, err := pro.Apply(card, sidecar, flags)
		if err != nil {
			return err
		}

		slog.Info("overlay applied",
			"meeting", out.Meta.MeetingID, "race", out.Meta.RaceNumber,
			"pro", out.IsPro())

		if overlaySave {
			if err := saveCard(cmd.Context(), out); err != nil {
				return err
			}
		}
		if overlayTable {
			return console().NotifyCard(cmd.Context(), out)
		}
		if overlayOut == "" {
			return digest.WriteJSON(cmd.OutOrStdout(), out)
		}
		return digest.WriteJSONFile(overlayOut, out)
	},
}

func init() {
	overlayCmd.Flags().StringVar(&overlayCard, "card", "", "compiled stake card JSON (required)")
	overlayCmd.Flags().StringVar(&overlaySpeeds, "speeds", "", "speed sidecar JSON")
	overlayCmd.Flags().StringVarP(&overlayOut, "out", "o", "", "write PRO card to file instead of stdout")
	overlayCmd.Flags().BoolVar(&overlayAll, "all", false, "enable every feature flag for this run")
	overlayCmd.Flags().BoolVar(&overlaySave, "save", false, "persist the PRO card to the history store")
	overlayCmd.Flags().BoolVar(&overlayTable, "table", false, "print a table instead of JSON")
	overlayCmd.MarkFlagRequired("card")
}
