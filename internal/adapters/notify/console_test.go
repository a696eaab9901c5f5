package notify_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aturoa13699-lab/turf-engine/internal/adapters/notify"
	"github.com/aturoa13699-lab/turf-engine/internal/bankroll"
	"github.com/aturoa13699-lab/turf-engine/internal/digest"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

func fp(v float64) *float64 { return &v }

func TestNotifyCard_PrintsRunnersAndWarnings(t *testing.T) {
	var buf bytes.Buffer
	console := notify.NewConsoleWriter(&buf)

	trap := true
	card := domain.StakeCard{
		ShapeID:     domain.ShapeStakeCard,
		Meta:        domain.CardMeta{MeetingID: "20260829_RAND", DateLocal: "2026-08-29", RaceNumber: 5},
		DegradeMode: domain.DegradePartialSidecar,
		Warnings:    []string{domain.WarnSomePricesInvalid},
		TrapRace:    &trap,
		Runners: []domain.CardRunner{
			{RunnerNumber: 1, RunnerName: "Fast Lane", PriceNowDec: fp(2.5),
				Forecast: domain.Forecast{Rank: 1, Tag: "A_LITE", WinProb: 0.45, PlaceProb: 0.80, EV1U: fp(0.12)}},
			{RunnerNumber: 2, RunnerName: "Second Wind",
				Forecast: domain.Forecast{Rank: 2, Tag: "PASS_LITE", WinProb: 0.20, PlaceProb: 0.55}},
		},
	}

	require.NoError(t, console.NotifyCard(context.Background(), card))

	out := buf.String()
	assert.Contains(t, out, "20260829_RAND R5")
	assert.Contains(t, out, "PARTIAL_SIDECAR")
	assert.Contains(t, out, domain.WarnSomePricesInvalid)
	assert.Contains(t, out, "TRAP RACE")
	assert.Contains(t, out, "Fast Lane")
	assert.Contains(t, out, "Second Wind")
}

func TestNotifyDigest_PrintsMeetings(t *testing.T) {
	var buf bytes.Buffer
	console := notify.NewConsoleWriter(&buf)

	d := digest.DailyDigest{
		ShapeID: digest.ShapeDailyDigest,
		Counts:  digest.DailyCounts{Meetings: 1, Bets: 1, SourceFiles: 2, Deduped: 1},
		Meetings: []digest.MeetingRecord{
			{DateLocal: "2026-08-29", MeetingID: "20260829_RAND", DegradeMode: "NORMAL", Pro: true,
				SourcePath: "cards/x_stake_card_pro.json",
				Bets:       []digest.StrategyBetRow{{RaceNumber: 5, RunnerNumber: 1, Stake: 20}}},
		},
	}

	require.NoError(t, console.NotifyDigest(context.Background(), d))
	out := buf.String()
	assert.Contains(t, out, "20260829_RAND")
	assert.Contains(t, out, "meetings=1")
}

func TestNotifySimulation_PrintsPercentiles(t *testing.T) {
	var buf bytes.Buffer
	console := notify.NewConsoleWriter(&buf)

	result := bankroll.SimulationResult{
		Config:       bankroll.SimConfig{Seed: 42, Iters: 100},
		BetCount:     3,
		BankrollMean: 1010.5,
		P05:          950, P50: 1005, P95: 1080,
	}

	require.NoError(t, console.NotifySimulation(context.Background(), result))
	out := buf.String()
	assert.Contains(t, out, "seed=42")
	assert.Contains(t, out, "1005.00")
}
