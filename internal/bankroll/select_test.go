package bankroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aturoa13699-lab/turf-engine/internal/bankroll"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

func makeCard() domain.StakeCard {
	return domain.StakeCard{
		ShapeID: domain.ShapeStakeCard,
		CardID:  "cafe01",
		Meta:    domain.CardMeta{MeetingID: "20260829_RAND", DateLocal: "2026-08-29", RaceNumber: 5},
		Runners: []domain.CardRunner{
			{RunnerNumber: 3, PriceNowDec: fp(3.0),
				Forecast: domain.Forecast{WinProb: 0.40, EV1U: fp(0.20), ValueEdge: fp(0.07)}},
			{RunnerNumber: 1, PriceNowDec: fp(2.0),
				Forecast: domain.Forecast{WinProb: 0.45, EV1U: fp(-0.10), ValueEdge: fp(-0.05)}},
			{RunnerNumber: 2, PriceNowDec: fp(6.0),
				Forecast: domain.Forecast{WinProb: 0.20, EV1U: fp(0.20), ValueEdge: fp(0.03)}},
			{RunnerNumber: 4, // sin precio: nunca califica
				Forecast: domain.Forecast{WinProb: 0.10}},
		},
	}
}

func TestSelectBets_DefaultRulesRequirePositiveEV(t *testing.T) {
	bets, err := bankroll.SelectBets(makeCard(), domain.DefaultSelectionRules())
	require.NoError(t, err)

	require.Len(t, bets, 2)
	// orden determinista por (carrera, corredor)
	assert.Equal(t, 2, bets[0].RunnerNumber)
	assert.Equal(t, 3, bets[1].RunnerNumber)
	for _, b := range bets {
		assert.True(t, b.HasPriceProb())
		assert.Greater(t, *b.EV1U, 0.0)
	}
}

func TestSelectBets_MinEdgeFilter(t *testing.T) {
	rules := domain.DefaultSelectionRules()
	rules.MinEdge = fp(0.05)

	bets, err := bankroll.SelectBets(makeCard(), rules)
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, 3, bets[0].RunnerNumber)
}

func TestSelectBets_MinEdgeIgnoresEdgelessBets(t *testing.T) {
	rules := domain.DefaultSelectionRules()
	rules.MinEdge = fp(0.05)

	// corredor con EV positivo pero sin value_edge (sin market_prob):
	// min_edge no lo puede filtrar
	card := makeCard()
	card.Runners = append(card.Runners, domain.CardRunner{
		RunnerNumber: 5, PriceNowDec: fp(4.0),
		Forecast: domain.Forecast{WinProb: 0.30, EV1U: fp(0.20)},
	})

	bets, err := bankroll.SelectBets(card, rules)
	require.NoError(t, err)
	require.Len(t, bets, 2)
	assert.Equal(t, 3, bets[0].RunnerNumber)
	assert.Equal(t, 5, bets[1].RunnerNumber)
}

func TestSelectBets_EmptyCardFails(t *testing.T) {
	_, err := bankroll.SelectBets(domain.StakeCard{}, domain.DefaultSelectionRules())
	require.Error(t, err)
}
