package lite_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
	"github.com/aturoa13699-lab/turf-engine/internal/lite"
)

func makeOdds() domain.MarketOdds {
	return domain.MarketOdds{
		MeetingID:  "20260829_RAND",
		RaceNumber: 5,
		Runners: []domain.OddsRow{
			{RunnerName: "fast lane", PriceNowDec: fp(2.2)},
			{RunnerName: "Second Wind", PriceNowDec: fp(3.8)},
			{RunnerName: "Ghost Horse", PriceNowDec: fp(9.0)},
		},
	}
}

func TestMergeOdds_UpdatesPricesByName(t *testing.T) {
	merged, warnings, err := lite.MergeOdds(makeSnapshot(), makeOdds())
	require.NoError(t, err)

	byNum := map[int]domain.SnapshotRunner{}
	for _, r := range merged.Runners {
		byNum[r.RunnerNumber] = r
	}
	// el match de nombre ignora mayúsculas y espacios sobrantes
	require.NotNil(t, byNum[1].PriceNowDec)
	assert.Equal(t, 2.2, *byNum[1].PriceNowDec)
	require.NotNil(t, byNum[2].PriceNowDec)
	assert.Equal(t, 3.8, *byNum[2].PriceNowDec)
	assert.Nil(t, byNum[3].PriceNowDec)

	// el warning señala al corredor del snapshot sin fila de odds; las
	// filas de odds sobrantes se ignoran en silencio
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "ODDS_MISS")
	assert.Contains(t, warnings[0], "Late Mail")
}

func TestMergeOdds_DoesNotMutateInput(t *testing.T) {
	snap := makeSnapshot()
	before := snap.Clone()

	_, _, err := lite.MergeOdds(snap, makeOdds())
	require.NoError(t, err)

	assert.Equal(t, before, snap)
}

func TestMergeOdds_MeetingMismatch(t *testing.T) {
	odds := makeOdds()
	odds.MeetingID = "20260829_ROSE"

	var malformed *domain.MalformedInputError
	_, _, err := lite.MergeOdds(makeSnapshot(), odds)
	require.Error(t, err)
	assert.True(t, errors.As(err, &malformed))
}
