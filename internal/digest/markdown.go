package digest

// markdown.go — render legible del índice diario. Mismo contrato de
// determinismo que el JSON: mismas entradas, mismos bytes.

import (
	"fmt"
	"strings"
)

// RenderMarkdown produce la versión Markdown del digest diario.
func RenderMarkdown(d DailyDigest) string {
	var b strings.Builder

	b.WriteString("# Daily digest\n\n")
	fmt.Fprintf(&b, "- meetings: %d\n", d.Counts.Meetings)
	fmt.Fprintf(&b, "- source files: %d (deduped %d)\n", d.Counts.SourceFiles, d.Counts.Deduped)
	fmt.Fprintf(&b, "- pro cards: %d\n", d.Counts.ProCards)
	fmt.Fprintf(&b, "- bets: %d\n", d.Counts.Bets)

	for _, m := range d.Meetings {
		fmt.Fprintf(&b, "\n## %s %s\n\n", m.DateLocal, m.MeetingID)
		fmt.Fprintf(&b, "- source: `%s`\n", m.SourcePath)
		fmt.Fprintf(&b, "- mode: %s", m.DegradeMode)
		if m.Pro {
			b.WriteString(" (pro)")
		}
		b.WriteString("\n")
		if len(m.Warnings) > 0 {
			fmt.Fprintf(&b, "- warnings: %s\n", strings.Join(m.Warnings, ", "))
		}
		if m.TrapRace != nil && *m.TrapRace {
			b.WriteString("- trap race\n")
		}

		if len(m.Bets) == 0 {
			b.WriteString("\nNo qualifying bets.\n")
			continue
		}

		b.WriteString("\n| race | runner | odds | win | ev | stake |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, bet := range m.Bets {
			fmt.Fprintf(&b, "| R%d | #%d | %s | %s | %s | %.2f |\n",
				bet.RaceNumber, bet.RunnerNumber,
				fmtPtr(bet.OddsDec, "%.2f"), fmtPtr(bet.WinProb, "%.3f"),
				fmtPtr(bet.EV1U, "%+.3f"), bet.Stake)
		}

		if m.Simulation != nil {
			s := m.Simulation
			fmt.Fprintf(&b, "\nSimulation (seed %d, %d iters): p05 %.2f, p50 %.2f, p95 %.2f, ruin %.1f%%\n",
				s.Config.Seed, s.Config.Iters, s.P05, s.P50, s.P95, s.RuinRate*100)
		}
	}

	return b.String()
}

// RenderStrategyMarkdown produce la versión Markdown del digest de
// estrategia.
func RenderStrategyMarkdown(d StrategyDigest) string {
	var b strings.Builder

	b.WriteString("# Strategy digest\n\n")
	fmt.Fprintf(&b, "- policy: %s\n", d.Policy)
	fmt.Fprintf(&b, "- bets: %d\n", d.Totals.BetCount)
	fmt.Fprintf(&b, "- total stake: %.2f\n", d.Totals.TotalStake)
	fmt.Fprintf(&b, "- expected profit: %+.2f (ROI %+.2f%%)\n",
		d.Totals.ExpectedProfit, d.Totals.ExpectedROI*100)

	if len(d.Bets) == 0 {
		b.WriteString("\nNo qualifying bets.\n")
		return b.String()
	}

	b.WriteString("\n| date | meeting | race | runner | odds | win | ev | stake | reasons |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, bet := range d.Bets {
		fmt.Fprintf(&b, "| %s | %s | R%d | #%d | %s | %s | %s | %.2f | %s |\n",
			bet.DateLocal, bet.MeetingID, bet.RaceNumber, bet.RunnerNumber,
			fmtPtr(bet.OddsDec, "%.2f"), fmtPtr(bet.WinProb, "%.3f"),
			fmtPtr(bet.EV1U, "%+.3f"), bet.Stake, strings.Join(bet.ReasonTags, ", "))
	}

	return b.String()
}

func fmtPtr(p *float64, format string) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf(format, *p)
}
