package bankroll

// stake.go dimensiona apuestas. Todas las políticas producen primero una
// fracción del bankroll, acotada a [0, max_risk], y después el importe
// redondeado a 2 decimales. La función es pura: nunca muta la política.

import (
	"fmt"
	"math"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// StakeFraction devuelve la fracción del bankroll que la política asigna a
// la apuesta, ya acotada a [0, max_risk].
func StakeFraction(bet domain.Bet, policy domain.BankrollPolicy) (float64, error) {
	if err := policy.Validate(); err != nil {
		return 0, fmt.Errorf("bankroll.StakeFraction: %w", err)
	}

	var frac float64
	switch policy.Mode {
	case domain.PolicyFlat:
		if policy.Bankroll <= 0 {
			return 0, nil
		}
		frac = policy.FlatStake / policy.Bankroll

	case domain.PolicyKelly:
		k, err := kellyFraction(bet)
		if err != nil {
			return 0, fmt.Errorf("bankroll.StakeFraction: %w", err)
		}
		frac = k

	case domain.PolicyFractionalKelly:
		k, err := kellyFraction(bet)
		if err != nil {
			return 0, fmt.Errorf("bankroll.StakeFraction: %w", err)
		}
		frac = k * policy.KellyFraction

	case domain.PolicyCappedKelly:
		k, err := kellyFraction(bet)
		if err != nil {
			return 0, fmt.Errorf("bankroll.StakeFraction: %w", err)
		}
		frac = math.Min(k, policy.KellyCap)

	case domain.PolicyEdge:
		if bet.ValueEdge == nil {
			return 0, fmt.Errorf("bankroll.StakeFraction: %w",
				&domain.MalformedInputError{Field: "bet.value_edge", Reason: "required for edge policy"})
		}
		frac = *bet.ValueEdge * policy.EdgeScale
	}

	return clampFraction(frac, policy.MaxRisk), nil
}

// Stake convierte la fracción en importe monetario, redondeado a 2
// decimales. El redondeo nunca puede superar max_risk * bankroll.
func Stake(bet domain.Bet, policy domain.BankrollPolicy) (float64, error) {
	frac, err := StakeFraction(bet, policy)
	if err != nil {
		return 0, err
	}
	amount := round2(frac * policy.Bankroll)
	if limit := policy.MaxRisk * policy.Bankroll; amount > limit {
		amount = math.Floor(limit*100) / 100
	}
	return amount, nil
}

// kellyFraction calcula Kelly sobre odds decimales: f = (p*b - q) / b con
// b = odds - 1. Kelly negativo significa "no apostar", es decir 0.
func kellyFraction(bet domain.Bet) (float64, error) {
	if !bet.HasPriceProb() {
		return 0, &domain.MalformedInputError{Field: "bet", Reason: "price and win_prob required for kelly"}
	}
	price := *bet.OddsDec
	p := *bet.WinProb
	if price <= 1 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, &domain.MalformedInputError{Field: "bet.odds_dec", Reason: fmt.Sprintf("invalid price %v", price)}
	}
	if p < 0 || p > 1 || math.IsNaN(p) {
		return 0, &domain.MalformedInputError{Field: "bet.win_prob", Reason: fmt.Sprintf("invalid probability %v", p)}
	}
	b := price - 1
	k := (p*b - (1 - p)) / b
	if k < 0 {
		return 0, nil
	}
	return k, nil
}

func clampFraction(f, maxRisk float64) float64 {
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	if f > maxRisk {
		return maxRisk
	}
	return f
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
