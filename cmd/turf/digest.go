package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aturoa13699-lab/turf-engine/internal/digest"
)

var (
	digestOut      string
	digestMarkdown string
	digestSimulate bool
	digestSave     bool
	digestTable    bool
)

var digestCmd = &cobra.Command{
	Use:   "digest <cards dir>",
	Short: "Aggregate a directory of stake cards into the daily digest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dcfg := digest.DefaultDailyConfig()
		dcfg.PreferPro = cfg.Digest.PreferPro
		dcfg.Simulate = cfg.Digest.Simulate || digestSimulate
		dcfg.EmitMeetingArtifacts = cfg.Digest.EmitMeetingArtifacts
		dcfg.OutDir = cfg.Digest.OutDir
		dcfg.Rules = cfg.Bankroll.Rules
		dcfg.Policy = cfg.Bankroll.Policy
		dcfg.Sim = cfg.Bankroll.Sim

		d, err := digest.BuildDaily(args[0], dcfg)
		if err != nil {
			return err
		}
		slog.Info("digest built",
			"meetings", d.Counts.Meetings, "bets", d.Counts.Bets,
			"deduped", d.Counts.Deduped)

		if digestMarkdown != "" {
			if err := os.WriteFile(digestMarkdown, []byte(digest.RenderMarkdown(d)), 0o644); err != nil {
				return err
			}
		}
		if digestSave {
			if err := saveDigest(cmd.Context(), d); err != nil {
				return err
			}
		}
		if digestTable {
			return console().NotifyDigest(cmd.Context(), d)
		}
		return writeArtifact(digestOut, d)
	},
}

// saveDigest persiste el digest (y el día que cubre) en el histórico.
func saveDigest(ctx context.Context, d digest.DailyDigest) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	payload, err := digest.CanonicalJSON(d)
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, m := range d.Meetings {
		if seen[m.DateLocal] {
			continue
		}
		seen[m.DateLocal] = true
		if err := store.SaveDigest(ctx, m.DateLocal, payload); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	digestCmd.Flags().StringVarP(&digestOut, "out", "o", "", "write digest JSON to file instead of stdout")
	digestCmd.Flags().StringVar(&digestMarkdown, "md", "", "also render Markdown to this file")
	digestCmd.Flags().BoolVar(&digestSimulate, "simulate", false, "run the per-meeting simulation")
	digestCmd.Flags().BoolVar(&digestSave, "save", false, "persist the digest to the history store")
	digestCmd.Flags().BoolVar(&digestTable, "table", false, "print a table instead of JSON")
}
