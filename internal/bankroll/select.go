package bankroll

// select.go extrae las apuestas candidatas de un stake card según las
// reglas de selección. Orden determinista: (carrera, número de corredor).

import (
	"fmt"
	"sort"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// SelectBets recorre los corredores de un card y devuelve las apuestas que
// califican bajo las reglas. Un card sin corredores es input inválido.
func SelectBets(card domain.StakeCard, rules domain.SelectionRules) ([]domain.Bet, error) {
	if len(card.Runners) == 0 {
		return nil, fmt.Errorf("bankroll.SelectBets: %w",
			&domain.MalformedInputError{Field: "card.runners", Reason: "empty"})
	}

	var bets []domain.Bet
	for _, r := range card.Runners {
		if !qualifies(r, rules) {
			continue
		}
		bets = append(bets, domain.Bet{
			MeetingID:    card.Meta.MeetingID,
			DateLocal:    card.Meta.DateLocal,
			RaceNumber:   card.Meta.RaceNumber,
			RunnerNumber: r.RunnerNumber,
			OddsDec:      copyFloat(r.PriceNowDec),
			WinProb:      floatPtr(r.Forecast.WinProb),
			EV1U:         copyFloat(r.Forecast.EV1U),
			ValueEdge:    copyFloat(r.Forecast.ValueEdge),
		})
	}

	sort.SliceStable(bets, func(i, j int) bool {
		if bets[i].RaceNumber != bets[j].RaceNumber {
			return bets[i].RaceNumber < bets[j].RaceNumber
		}
		return bets[i].RunnerNumber < bets[j].RunnerNumber
	})
	return bets, nil
}

// qualifies aplica las reglas en orden estricto: primero los requisitos de
// datos, después los umbrales.
func qualifies(r domain.CardRunner, rules domain.SelectionRules) bool {
	if r.PriceNowDec == nil || r.Forecast.EV1U == nil {
		return false
	}
	if rules.RequirePositiveEV && *r.Forecast.EV1U <= 0 {
		return false
	}
	if rules.MinEV != nil && *r.Forecast.EV1U < *rules.MinEV {
		return false
	}
	// min_edge solo filtra apuestas que traen edge; sin market_prob no hay
	// edge que comparar y la apuesta pasa.
	if rules.MinEdge != nil && r.Forecast.ValueEdge != nil && *r.Forecast.ValueEdge < *rules.MinEdge {
		return false
	}
	return true
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}
