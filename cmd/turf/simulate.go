package main

import (
	"github.com/spf13/cobra"

	"github.com/aturoa13699-lab/turf-engine/internal/bankroll"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

var (
	simCard  string
	simSeed  int64
	simIters int
	simOut   string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a seeded Monte Carlo simulation over the selected bets",
	RunE: func(cmd *cobra.Command, args []string) error {
		var card domain.StakeCard
		if err := readJSON(simCard, &card); err != nil {
			return err
		}

		bets, err := bankroll.SelectBets(card, cfg.Bankroll.Rules)
		if err != nil {
			return err
		}

		simCfg := cfg.Bankroll.Sim
		if cmd.Flags().Changed("seed") {
			simCfg.Seed = simSeed
		}
		if cmd.Flags().Changed("iters") {
			simCfg.Iters = simIters
		}

		result, err := bankroll.Simulate(bets, cfg.Bankroll.Policy, simCfg, nil)
		if err != nil {
			return err
		}

		if simOut != "" {
			return writeArtifact(simOut, result)
		}
		return console().NotifySimulation(cmd.Context(), result)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simCard, "card", "", "stake card JSON (required)")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 42, "RNG seed")
	simulateCmd.Flags().IntVar(&simIters, "iters", 2000, "iteration count")
	simulateCmd.Flags().StringVarP(&simOut, "out", "o", "", "write result JSON instead of printing the table")
	simulateCmd.MarkFlagRequired("card")
}
