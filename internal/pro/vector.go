package pro

import (
	"sort"
	"strings"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
	"github.com/aturoa13699-lab/turf-engine/internal/lite"
)

// Role one-hot order: LEAD, ON_PACE, MID, BACK, UNKNOWN.
// Track one-hot order: GOOD, FIRM, SOFT, HEAVY, SYNTHETIC, UNKNOWN.
var (
	roleOrder  = []string{"LEAD", "ON_PACE", "MID", "BACK", "UNKNOWN"}
	trackOrder = []string{"GOOD", "FIRM", "SOFT", "HEAVY", "SYNTHETIC", "UNKNOWN"}
)

// Calibrated logit coefficients. Market price dominates, the rest of the
// vector nudges around it.
const biasCoeff = -0.20

var (
	marketProbCoeff   = 1.40
	liteScoreCoeff    = 1.10
	barrierPctCoeff   = -0.25
	speedNormCoeff    = 0.55
	daysNormCoeff     = -0.15
	fieldSizeCoeff    = -0.10
	jockeySRCoeff     = 0.18
	trainerSRCoeff    = 0.12
	roleCoeffs        = []float64{0.18, 0.10, 0.00, -0.12, 0.00}
	trackCondCoeffs   = []float64{0.05, 0.00, -0.03, -0.06, 0.00, 0.00}
	srNormDenominator = 0.30
)

// runnerVector is the per-runner feature vector fed to the logit. All
// continuous features live in [0,1]; missing signals sit at 0.5 so they
// neither help nor hurt.
type runnerVector struct {
	marketProb    float64
	liteScore     float64
	barrierPct    float64
	speedNorm     float64
	daysNorm      float64
	fieldSizeNorm float64
	jockeySRNorm  float64
	trainerSRNorm float64
	roleIdx       int
	trackIdx      int
}

func (v runnerVector) logit() float64 {
	z := biasCoeff
	z += marketProbCoeff * v.marketProb
	z += liteScoreCoeff * v.liteScore
	z += barrierPctCoeff * v.barrierPct
	z += speedNormCoeff * v.speedNorm
	z += daysNormCoeff * v.daysNorm
	z += fieldSizeCoeff * v.fieldSizeNorm
	z += jockeySRCoeff * v.jockeySRNorm
	z += trainerSRCoeff * v.trainerSRNorm
	z += roleCoeffs[v.roleIdx]
	z += trackCondCoeffs[v.trackIdx]
	return z
}

// buildVectors derives one vector per runner from the compiled card plus the
// speed sidecar. The card is read-only here.
func buildVectors(card domain.StakeCard, sidecar domain.SpeedSidecar) map[int]runnerVector {
	runners := card.Runners
	n := len(runners)

	marketProb := cardMarketProbs(runners)
	barrierPct := cardBarrierPercentiles(runners)
	speedNorm := speedMinMax(runners, sidecar)
	trackIdx := trackConditionIndex(card.Meta.TrackConditionRaw)
	fieldSize := clamp01((float64(n) - 2) / 16)

	out := make(map[int]runnerVector, n)
	for _, r := range runners {
		v := runnerVector{
			marketProb:    marketProb[r.RunnerNumber],
			liteScore:     r.Forecast.Score,
			barrierPct:    barrierPct[r.RunnerNumber],
			speedNorm:     speedNorm[r.RunnerNumber],
			daysNorm:      daysNorm(r.DaysSinceRun),
			fieldSizeNorm: fieldSize,
			jockeySRNorm:  strikeRateNorm(r.JockeyWinPct12m),
			trainerSRNorm: strikeRateNorm(r.TrainerWinPct12m),
			roleIdx:       roleIndex(r.MapRoleInferred),
			trackIdx:      trackIdx,
		}
		out[r.RunnerNumber] = v
	}
	return out
}

// cardMarketProbs renormalizes the implied probabilities over priced runners.
// Unpriced runners contribute 0.0 to the vector; with no valid price at all
// the whole field goes uniform.
func cardMarketProbs(runners []domain.CardRunner) map[int]float64 {
	out := make(map[int]float64, len(runners))
	total := 0.0
	for _, r := range runners {
		if lite.ValidPrice(r.PriceNowDec) {
			inv := 1 / *r.PriceNowDec
			out[r.RunnerNumber] = inv
			total += inv
		}
	}
	if total <= 0 {
		u := 1 / float64(len(runners))
		for _, r := range runners {
			out[r.RunnerNumber] = u
		}
		return out
	}
	for n, v := range out {
		out[n] = v / total
	}
	for _, r := range runners {
		if _, ok := out[r.RunnerNumber]; !ok {
			out[r.RunnerNumber] = 0.0
		}
	}
	return out
}

func cardBarrierPercentiles(runners []domain.CardRunner) map[int]float64 {
	type bn struct {
		n, barrier int
	}
	var present []bn
	for _, r := range runners {
		if r.Barrier != nil && *r.Barrier >= 1 {
			present = append(present, bn{r.RunnerNumber, *r.Barrier})
		}
	}

	out := make(map[int]float64, len(runners))
	for _, r := range runners {
		out[r.RunnerNumber] = 0.5
	}
	if len(present) == 0 {
		return out
	}

	sort.Slice(present, func(i, j int) bool {
		if present[i].barrier != present[j].barrier {
			return present[i].barrier < present[j].barrier
		}
		return present[i].n < present[j].n
	})

	denom := float64(max(1, len(present)-1))
	for rank, p := range present {
		out[p.n] = float64(rank) / denom
	}
	return out
}

// speedMinMax rescales sidecar speeds to [0,1]. Under 3 valid samples the
// signal neutralizes, same policy as the compiler.
func speedMinMax(runners []domain.CardRunner, sidecar domain.SpeedSidecar) map[int]float64 {
	out := make(map[int]float64, len(runners))
	for _, r := range runners {
		out[r.RunnerNumber] = 0.5
	}

	var valid []int
	lo, hi := 0.0, 0.0
	for _, r := range runners {
		if v, ok := sidecar.Speeds[r.RunnerNumber]; ok && lite.ValidSpeed(v) {
			if len(valid) == 0 || v < lo {
				lo = v
			}
			if len(valid) == 0 || v > hi {
				hi = v
			}
			valid = append(valid, r.RunnerNumber)
		}
	}
	if len(valid) < 3 || hi-lo <= 0 {
		return out
	}
	for _, n := range valid {
		out[n] = (sidecar.Speeds[n] - lo) / (hi - lo)
	}
	return out
}

func daysNorm(days *int) float64 {
	if days == nil {
		return 0.5
	}
	return clamp01(float64(*days) / 120)
}

func strikeRateNorm(pct *float64) float64 {
	if pct == nil {
		return 0.5
	}
	return clamp01(*pct / srNormDenominator)
}

func roleIndex(role string) int {
	up := strings.ToUpper(strings.TrimSpace(role))
	for i, r := range roleOrder {
		if up == r {
			return i
		}
	}
	return len(roleOrder) - 1
}

// trackConditionIndex maps the raw rating string ("Good 4", "Soft 7", ...)
// to its one-hot slot by prefix.
func trackConditionIndex(raw string) int {
	up := strings.ToUpper(strings.TrimSpace(raw))
	for i, t := range trackOrder {
		if strings.HasPrefix(up, t) {
			return i
		}
	}
	return len(trackOrder) - 1
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
