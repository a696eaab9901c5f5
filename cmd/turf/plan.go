package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
	"github.com/aturoa13699-lab/turf-engine/internal/resolver"
)

var planOut string

var planCmd = &cobra.Command{
	Use:   "plan <items.json>",
	Short: "Build a scrape plan from (date, state, track) items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, err := loadIndex()
		if err != nil {
			return err
		}

		var items []domain.PlanItem
		if err := readJSON(args[0], &items); err != nil {
			return err
		}

		plan := resolver.BuildPlan(ix, items)
		for _, w := range plan.Warnings {
			slog.Warn("unresolved plan item", "detail", w)
		}
		slog.Info("plan built",
			"plan_id", plan.PlanID, "tracks", len(plan.Tracks), "warnings", len(plan.Warnings))

		return writeArtifact(planOut, plan)
	},
}

func init() {
	planCmd.Flags().StringVarP(&planOut, "out", "o", "", "write plan to file instead of stdout")
}
