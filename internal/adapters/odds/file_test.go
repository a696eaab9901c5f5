package odds_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aturoa13699-lab/turf-engine/internal/adapters/odds"
	"github.com/aturoa13699-lab/turf-engine/internal/digest"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

func fp(v float64) *float64 { return &v }

func TestFileProvider_FetchOdds(t *testing.T) {
	dir := t.TempDir()
	want := domain.MarketOdds{
		ShapeID:    odds.ShapeMarketOdds,
		MeetingID:  "20260829_RAND",
		RaceNumber: 5,
		CapturedAt: "2026-08-29T11:45:00+10:00",
		Runners: []domain.OddsRow{
			{RunnerName: "Fast Lane", PriceNowDec: fp(2.4)},
			{RunnerName: "Late Mail", PriceNowDec: nil},
		},
	}
	require.NoError(t, digest.WriteJSONFile(
		filepath.Join(dir, "20260829_RAND_R5_odds.json"), want))

	provider := odds.NewFileProvider(dir)
	got, err := provider.FetchOdds(context.Background(), "20260829_RAND", 5)
	require.NoError(t, err)

	assert.Equal(t, want.CapturedAt, got.CapturedAt)
	require.Len(t, got.Runners, 2)
	assert.Equal(t, "Fast Lane", got.Runners[0].RunnerName)
	assert.Equal(t, 2.4, *got.Runners[0].PriceNowDec)
	assert.Nil(t, got.Runners[1].PriceNowDec)
}

func TestFileProvider_MissingFileIsNotFound(t *testing.T) {
	provider := odds.NewFileProvider(t.TempDir())

	var nf *domain.NotFoundError
	_, err := provider.FetchOdds(context.Background(), "20260829_RAND", 1)
	require.Error(t, err)
	assert.True(t, errors.As(err, &nf))
}

func TestFileProvider_RequiresMeetingID(t *testing.T) {
	provider := odds.NewFileProvider(t.TempDir())

	var malformed *domain.MalformedInputError
	_, err := provider.FetchOdds(context.Background(), "", 1)
	require.Error(t, err)
	assert.True(t, errors.As(err, &malformed))
}

func TestFileProvider_CancelledContext(t *testing.T) {
	provider := odds.NewFileProvider(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := provider.FetchOdds(ctx, "20260829_RAND", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
