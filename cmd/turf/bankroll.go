package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aturoa13699-lab/turf-engine/internal/digest"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

var (
	bankrollCard string
	bankrollOut  string
	bankrollMD   string
)

var bankrollCmd = &cobra.Command{
	Use:   "bankroll",
	Short: "Select and size bets from a stake card under the configured policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		var card domain.StakeCard
		if err := readJSON(bankrollCard, &card); err != nil {
			return err
		}

		d, err := digest.BuildStrategyDigest(
			[]domain.StakeCard{card}, cfg.Bankroll.Rules, cfg.Bankroll.Policy)
		if err != nil {
			return err
		}
		if bankrollMD != "" {
			if err := os.WriteFile(bankrollMD, []byte(digest.RenderStrategyMarkdown(d)), 0o644); err != nil {
				return err
			}
		}
		return writeArtifact(bankrollOut, d)
	},
}

func init() {
	bankrollCmd.Flags().StringVar(&bankrollCard, "card", "", "stake card JSON (required)")
	bankrollCmd.Flags().StringVarP(&bankrollOut, "out", "o", "", "write digest to file instead of stdout")
	bankrollCmd.Flags().StringVar(&bankrollMD, "md", "", "also render Markdown to this file")
	bankrollCmd.MarkFlagRequired("card")
}
