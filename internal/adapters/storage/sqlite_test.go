package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aturoa13699-lab/turf-engine/internal/adapters/storage"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

func fp(v float64) *float64 { return &v }

func makeCard(cardID, meetingID string, race int) domain.StakeCard {
	return domain.StakeCard{
		ShapeID:     domain.ShapeStakeCard,
		CardID:      cardID,
		Meta:        domain.CardMeta{MeetingID: meetingID, DateLocal: "2026-08-29", RaceNumber: race},
		DegradeMode: domain.DegradeNormal,
		Runners: []domain.CardRunner{
			{RunnerNumber: 1, RunnerName: "Fast Lane", PriceNowDec: fp(2.5),
				Forecast: domain.Forecast{WinProb: 0.45, Rank: 1, Tag: "A_LITE"}},
		},
	}
}

func TestSQLiteStore_SaveAndLoadCards(t *testing.T) {
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.SaveCard(ctx, makeCard("c2", "20260829_ROSE", 2)))
	require.NoError(t, store.SaveCard(ctx, makeCard("c1", "20260829_RAND", 5)))

	cards, err := store.LoadCards(ctx, "2026-08-29")
	require.NoError(t, err)
	require.Len(t, cards, 2)

	// ordenados por (meeting, carrera)
	assert.Equal(t, "20260829_RAND", cards[0].Meta.MeetingID)
	assert.Equal(t, "20260829_ROSE", cards[1].Meta.MeetingID)
	assert.Equal(t, "Fast Lane", cards[0].Runners[0].RunnerName)

	cards, err = store.LoadCards(ctx, "2026-08-30")
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestSQLiteStore_UpsertByCardID(t *testing.T) {
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	card := makeCard("c1", "20260829_RAND", 5)
	require.NoError(t, store.SaveCard(ctx, card))

	card.DegradeMode = domain.DegradePartialSidecar
	require.NoError(t, store.SaveCard(ctx, card))

	cards, err := store.LoadCards(ctx, "2026-08-29")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, domain.DegradePartialSidecar, cards[0].DegradeMode)
}

func TestSQLiteStore_SaveCardRequiresID(t *testing.T) {
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	card := makeCard("", "20260829_RAND", 5)
	require.Error(t, store.SaveCard(context.Background(), card))
}

func TestSQLiteStore_SaveDigest(t *testing.T) {
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.SaveDigest(ctx, "2026-08-29", []byte(`{"shape_id":"turf.daily_digest.v1"}`)))
	// el segundo pase del día sobreescribe al primero
	require.NoError(t, store.SaveDigest(ctx, "2026-08-29", []byte(`{"shape_id":"turf.daily_digest.v1","counts":{}}`)))
	require.Error(t, store.SaveDigest(ctx, "", nil))
}
