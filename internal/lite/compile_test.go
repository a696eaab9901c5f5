package lite_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
	"github.com/aturoa13699-lab/turf-engine/internal/lite"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func makeSnapshot() domain.MarketSnapshot {
	return domain.MarketSnapshot{
		MeetingID:         "20260829_RAND",
		DateLocal:         "2026-08-29",
		RaceNumber:        5,
		DistanceM:         1200,
		TrackConditionRaw: "Good 4",
		CapturedAt:        "2026-08-29T11:30:00+10:00",
		Runners: []domain.SnapshotRunner{
			{RunnerNumber: 1, RunnerName: "Fast Lane", Barrier: ip(2), MapRoleInferred: "LEAD", PriceNowDec: fp(2.0)},
			{RunnerNumber: 2, RunnerName: "Second Wind", Barrier: ip(7), MapRoleInferred: "MID", PriceNowDec: fp(4.0)},
			{RunnerNumber: 3, RunnerName: "Late Mail", Barrier: ip(11), MapRoleInferred: "BACK"},
		},
	}
}

func makeSidecar() domain.SpeedSidecar {
	return domain.SpeedSidecar{
		Speeds: map[int]float64{1: 17.8, 2: 17.2, 3: 16.9},
	}
}

func TestCompile_ImpliedProbabilitiesExcludeUnpriced(t *testing.T) {
	card, err := lite.Compile(makeSnapshot(), makeSidecar(), lite.DefaultWeights())
	require.NoError(t, err)

	byNum := map[int]domain.CardRunner{}
	for _, r := range card.Runners {
		byNum[r.RunnerNumber] = r
	}

	// precios [2.0, 4.0, null] → probabilidades [0.667, 0.333, null]
	require.NotNil(t, byNum[1].Forecast.MarketProb)
	require.NotNil(t, byNum[2].Forecast.MarketProb)
	assert.InDelta(t, 2.0/3.0, *byNum[1].Forecast.MarketProb, 1e-9)
	assert.InDelta(t, 1.0/3.0, *byNum[2].Forecast.MarketProb, 1e-9)
	assert.Nil(t, byNum[3].Forecast.MarketProb)
	assert.Nil(t, byNum[3].Forecast.ValueEdge)
	assert.Nil(t, byNum[3].Forecast.EV1U)
}

func TestCompile_WinProbsFormSimplex(t *testing.T) {
	card, err := lite.Compile(makeSnapshot(), makeSidecar(), lite.DefaultWeights())
	require.NoError(t, err)

	for _, r := range card.Runners {
		assert.Greater(t, r.Forecast.WinProb, 0.0)
		assert.GreaterOrEqual(t, r.Forecast.PlaceProb, r.Forecast.WinProb)
		assert.LessOrEqual(t, r.Forecast.PlaceProb, 1.0)
	}
}

func TestCompile_PassThroughAndShape(t *testing.T) {
	snap := makeSnapshot()
	card, err := lite.Compile(snap, makeSidecar(), lite.DefaultWeights())
	require.NoError(t, err)

	assert.Equal(t, domain.ShapeStakeCard, card.ShapeID)
	assert.NotEmpty(t, card.CardID)
	assert.Equal(t, snap.MeetingID, card.Meta.MeetingID)
	assert.Equal(t, snap.CapturedAt, card.Meta.CapturedAt)

	byNum := map[int]domain.CardRunner{}
	for _, r := range card.Runners {
		byNum[r.RunnerNumber] = r
	}
	// todo lo que no es forecast es copia literal del input
	for _, in := range snap.Runners {
		out := byNum[in.RunnerNumber]
		assert.Equal(t, in.RunnerName, out.RunnerName)
		assert.Equal(t, in.MapRoleInferred, out.MapRoleInferred)
		if in.Barrier != nil {
			require.NotNil(t, out.Barrier)
			assert.Equal(t, *in.Barrier, *out.Barrier)
		}
	}
}

func TestCompile_Deterministic(t *testing.T) {
	a, err := lite.Compile(makeSnapshot(), makeSidecar(), lite.DefaultWeights())
	require.NoError(t, err)
	b, err := lite.Compile(makeSnapshot(), makeSidecar(), lite.DefaultWeights())
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, ja, jb)
	assert.Equal(t, a.CardID, b.CardID)
}

func TestCompile_RankTiesBreakOnRunnerNumber(t *testing.T) {
	snap := domain.MarketSnapshot{
		MeetingID:  "20260829_ROSE",
		RaceNumber: 1,
		Runners: []domain.SnapshotRunner{
			// corredores indistinguibles: mismo precio, mismo rol, sin barrera
			{RunnerNumber: 4, RunnerName: "Twin B", PriceNowDec: fp(3.0)},
			{RunnerNumber: 2, RunnerName: "Twin A", PriceNowDec: fp(3.0)},
		},
	}
	card, err := lite.Compile(snap, domain.SpeedSidecar{}, lite.DefaultWeights())
	require.NoError(t, err)

	require.Len(t, card.Runners, 2)
	assert.Equal(t, 2, card.Runners[0].RunnerNumber)
	assert.Equal(t, 1, card.Runners[0].Forecast.Rank)
	assert.Equal(t, 4, card.Runners[1].RunnerNumber)
	assert.Equal(t, 2, card.Runners[1].Forecast.Rank)
}

func TestCompile_DegradeModes(t *testing.T) {
	// sin sidecar → MARKET_ONLY
	card, err := lite.Compile(makeSnapshot(), domain.SpeedSidecar{}, lite.DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, domain.DegradeMarketOnly, card.DegradeMode)
	assert.Contains(t, card.Warnings, domain.WarnFewValidSpeeds)

	// sidecar completo pero sin ningún precio → PARTIAL_SIDECAR
	snap := makeSnapshot()
	for i := range snap.Runners {
		snap.Runners[i].PriceNowDec = nil
	}
	card, err = lite.Compile(snap, makeSidecar(), lite.DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, domain.DegradePartialSidecar, card.DegradeMode)
	assert.Contains(t, card.Warnings, domain.WarnAllPricesInvalid)
	for _, r := range card.Runners {
		assert.Nil(t, r.Forecast.MarketProb)
	}
}

func TestCompile_CertaintyReflectsDataQuality(t *testing.T) {
	clean, err := lite.Compile(makeTwoPricedSnapshot(), domain.SpeedSidecar{
		Speeds: map[int]float64{1: 17.0, 2: 16.5, 3: 16.8},
	}, lite.DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 1.0, clean.Runners[0].Forecast.Certainty)

	degraded, err := lite.Compile(makeSnapshot(), makeSidecar(), lite.DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 0.8, degraded.Runners[0].Forecast.Certainty)
}

// makeTwoPricedSnapshot cubre el caso limpio: todos los precios válidos.
func makeTwoPricedSnapshot() domain.MarketSnapshot {
	snap := makeSnapshot()
	snap.Runners[2].PriceNowDec = fp(8.0)
	return snap
}

func TestCompile_ValidationErrors(t *testing.T) {
	var malformed *domain.MalformedInputError

	snap := makeSnapshot()
	snap.Runners[1].RunnerNumber = 1 // duplicado
	_, err := lite.Compile(snap, domain.SpeedSidecar{}, lite.DefaultWeights())
	require.Error(t, err)
	assert.True(t, errors.As(err, &malformed))

	snap = makeSnapshot()
	_, err = lite.Compile(snap, domain.SpeedSidecar{Speeds: map[int]float64{9: 17.0}}, lite.DefaultWeights())
	require.Error(t, err)
	assert.True(t, errors.As(err, &malformed))

	snap = makeSnapshot()
	snap.MeetingID = ""
	_, err = lite.Compile(snap, domain.SpeedSidecar{}, lite.DefaultWeights())
	require.Error(t, err)
	assert.True(t, errors.As(err, &malformed))
}

func TestCompile_RejectsBadWeights(t *testing.T) {
	var cfgErr *domain.ConfigError
	_, err := lite.Compile(makeSnapshot(), domain.SpeedSidecar{}, lite.Weights{Market: -1, Map: 1, Speed: 1})
	require.Error(t, err)
	assert.True(t, errors.As(err, &cfgErr))
}
