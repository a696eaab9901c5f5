package notify

// console.go — salida humana por consola. Implementa ports.Notifier con
// tablas formateadas; el JSON canónico vive en la capa de digest, aquí solo
// se pinta.

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/aturoa13699-lab/turf-engine/internal/bankroll"
	"github.com/aturoa13699-lab/turf-engine/internal/digest"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// Console implementa ports.Notifier.
type Console struct {
	out io.Writer
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// NotifyCard imprime el stake card como tabla, en orden de ranking.
func (c *Console) NotifyCard(_ context.Context, card domain.StakeCard) error {
	fmt.Fprintf(c.out, "%s R%d  %s  [%s]\n",
		card.Meta.MeetingID, card.Meta.RaceNumber, card.Meta.DateLocal, card.DegradeMode)
	if len(card.Warnings) > 0 {
		fmt.Fprintf(c.out, "warnings: %s\n", strings.Join(card.Warnings, ", "))
	}
	if card.TrapRace != nil && *card.TrapRace {
		fmt.Fprintln(c.out, "TRAP RACE")
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Rk", "#", "Runner", "Price", "Win", "Place", "EV", "Tag", "Band")

	for _, r := range card.Runners {
		table.Append(
			fmt.Sprintf("%d", r.Forecast.Rank),
			fmt.Sprintf("%d", r.RunnerNumber),
			truncate(r.RunnerName, 24),
			floatCell(r.PriceNowDec, "%.2f"),
			fmt.Sprintf("%.3f", r.Forecast.WinProb),
			fmt.Sprintf("%.3f", r.Forecast.PlaceProb),
			floatCell(r.Forecast.EV1U, "%+.3f"),
			r.Forecast.Tag,
			bandCell(r),
		)
	}
	table.Render()

	if card.RaceSummary != nil {
		fmt.Fprintf(c.out, "strategy: %s\n", card.RaceSummary.Strategy)
	}
	return nil
}

// NotifyDigest imprime el índice diario: una fila por meeting.
func (c *Console) NotifyDigest(_ context.Context, d digest.DailyDigest) error {
	fmt.Fprintf(c.out, "daily digest  meetings=%d bets=%d (from %d files, %d deduped)\n",
		d.Counts.Meetings, d.Counts.Bets, d.Counts.SourceFiles, d.Counts.Deduped)

	if len(d.Meetings) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Date", "Meeting", "Mode", "Pro", "Bets", "Source")

	for _, m := range d.Meetings {
		pro := ""
		if m.Pro {
			pro = "yes"
		}
		table.Append(
			m.DateLocal,
			m.MeetingID,
			m.DegradeMode,
			pro,
			fmt.Sprintf("%d", len(m.Bets)),
			truncate(m.SourcePath, 40),
		)
	}
	table.Render()
	return nil
}

// NotifySimulation imprime el resumen Monte Carlo.
func (c *Console) NotifySimulation(_ context.Context, r bankroll.SimulationResult) error {
	fmt.Fprintf(c.out, "simulation  seed=%d iters=%d bets=%d (skipped %d)\n",
		r.Config.Seed, r.Config.Iters, r.BetCount, r.SkippedBets)

	table := tablewriter.NewWriter(c.out)
	table.Header("Mean", "Min", "P05", "P50", "P95", "Max", "Ruin")
	table.Append(
		fmt.Sprintf("%.2f", r.BankrollMean),
		fmt.Sprintf("%.2f", r.BankrollMin),
		fmt.Sprintf("%.2f", r.P05),
		fmt.Sprintf("%.2f", r.P50),
		fmt.Sprintf("%.2f", r.P95),
		fmt.Sprintf("%.2f", r.BankrollMax),
		fmt.Sprintf("%.1f%%", r.RuinRate*100),
	)
	table.Render()
	return nil
}

func floatCell(p *float64, format string) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf(format, *p)
}

func bandCell(r domain.CardRunner) string {
	if r.EVBand == nil {
		return ""
	}
	out := *r.EVBand
	if r.EVMarker != nil {
		out += " " + *r.EVMarker
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
