package pro

// overlay.go rewrites the probabilistic block of a compiled stake card with
// the logit model, always on a deep copy. The Lite card handed in must come
// out of Apply byte-identical; only the returned copy carries PRO fields.

import (
	"fmt"
	"math"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
	"github.com/aturoa13699-lab/turf-engine/internal/lite"
)

const overlayTau = 0.12

// Apply runs the PRO overlay over a compiled card. The forecast identity
// block (score, tag, rank, components) is never touched; win/place
// probabilities, value edge, EV and certainty are recomputed from the logit
// model. Everything beyond the forecast is strictly flag-gated.
func Apply(card domain.StakeCard, sidecar domain.SpeedSidecar, flags FeatureFlags) (domain.StakeCard, error) {
	if len(card.Runners) == 0 {
		return domain.StakeCard{}, fmt.Errorf("pro.Apply: %w",
			&domain.MalformedInputError{Field: "card.runners", Reason: "empty"})
	}
	if card.ShapeID != domain.ShapeStakeCard {
		return domain.StakeCard{}, fmt.Errorf("pro.Apply: %w",
			&domain.MalformedInputError{Field: "card.shape_id", Reason: "unexpected " + card.ShapeID})
	}

	out := card.Clone()
	vectors := buildVectors(out, sidecar)

	win := overlayWinProbs(out.Runners, vectors)
	place := harvillePlace(out.Runners, win)
	certainty := overlayCertainty(out.DegradeMode, out.Warnings)

	for i := range out.Runners {
		r := &out.Runners[i]
		n := r.RunnerNumber

		r.Forecast.WinProb = win[n]
		r.Forecast.PlaceProb = place[n]
		r.Forecast.Certainty = certainty
		if r.Forecast.MarketProb != nil {
			edge := win[n] - *r.Forecast.MarketProb
			r.Forecast.ValueEdge = &edge
		} else {
			r.Forecast.ValueEdge = nil
		}
		if lite.ValidPrice(r.PriceNowDec) {
			b := *r.PriceNowDec - 1
			ev := win[n]*b - (1 - win[n])
			r.Forecast.EV1U = &ev
		} else {
			r.Forecast.EV1U = nil
		}

		if flags.EVBands {
			annotateValue(r)
		}
		if flags.RunnerFitness {
			r.FitnessFlags = fitnessFlags(*r, sidecar)
		}
		if flags.RunnerRisk {
			r.RiskTags = riskTags(*r)
		}
		if flags.RunnerNarratives {
			s := runnerSummary(*r)
			r.Summary = &s
		}
	}

	if flags.RaceSummary {
		rs := buildRaceSummary(out.Runners)
		out.RaceSummary = &rs
	}
	if flags.TrapRace {
		trap := deriveTrapRace(out)
		out.TrapRace = &trap
	}

	return out, nil
}

// overlayWinProbs feeds every vector through the logit, squashes with the
// logistic and sharpens via softmax at a fixed temperature.
func overlayWinProbs(runners []domain.CardRunner, vectors map[int]runnerVector) map[int]float64 {
	exps := make(map[int]float64, len(runners))
	z := 0.0
	for _, r := range runners {
		s := logistic(vectors[r.RunnerNumber].logit())
		e := math.Exp(s / overlayTau)
		exps[r.RunnerNumber] = e
		z += e
	}
	out := make(map[int]float64, len(runners))
	for n, e := range exps {
		out[n] = e / z
	}
	return out
}

func logistic(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// harvillePlace approximates top-3 probability from win probabilities.
func harvillePlace(runners []domain.CardRunner, win map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(runners))
	for _, r := range runners {
		n := r.RunnerNumber
		acc := 0.0
		for _, k := range runners {
			if k.RunnerNumber == n {
				continue
			}
			if d := 1 - win[k.RunnerNumber]; d > 0 {
				acc += win[k.RunnerNumber] * (win[n] / d)
			}
		}
		p := win[n] + acc
		if p > 1 {
			p = 1
		}
		out[n] = p
	}
	return out
}

// overlayCertainty mirrors the compiler mapping: the overlay sharpens
// probabilities but inherits the data quality of its inputs.
func overlayCertainty(degrade string, warnings []string) float64 {
	switch {
	case degrade == domain.DegradeNormal && len(warnings) == 0:
		return 1.00
	case containsWarning(warnings, domain.WarnSomePricesInvalid):
		return 0.80
	case containsWarning(warnings, domain.WarnAllPricesInvalid) || containsWarning(warnings, domain.WarnFewValidSpeeds):
		return 0.60
	default:
		return 0.80
	}
}

func containsWarning(warnings []string, w string) bool {
	for _, x := range warnings {
		if x == w {
			return true
		}
	}
	return false
}
