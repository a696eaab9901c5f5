package digest

// strategy.go construye el digest de estrategia: las apuestas que
// califican de un lote de cards, ya dimensionadas, con totales agregados.
// Determinista de punta a punta.

import (
	"fmt"
	"math"
	"sort"

	"github.com/aturoa13699-lab/turf-engine/internal/bankroll"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// ShapeStrategyDigest identifica el artefacto de estrategia.
const ShapeStrategyDigest = "turf.strategy_digest.v1"

// StrategyBetRow es una apuesta dimensionada dentro del digest.
type StrategyBetRow struct {
	MeetingID    string   `json:"meeting_id"`
	DateLocal    string   `json:"date_local"`
	RaceNumber   int      `json:"race_number"`
	RunnerNumber int      `json:"runner_number"`
	OddsDec      *float64 `json:"odds_dec"`
	WinProb      *float64 `json:"win_prob"`
	EV1U         *float64 `json:"ev_1u"`
	Stake        float64  `json:"stake"`
	StakePolicy  string   `json:"stake_policy"`
	ReasonTags   []string `json:"reason_tags"`
}

// StrategyTotals agrega el lote completo.
type StrategyTotals struct {
	BetCount       int     `json:"bet_count"`
	TotalStake     float64 `json:"total_stake"`
	ExpectedProfit float64 `json:"expected_profit"`
	ExpectedROI    float64 `json:"expected_roi"`
}

// StrategyDigest es el artefacto completo.
type StrategyDigest struct {
	ShapeID string           `json:"shape_id"`
	Policy  string           `json:"policy"`
	Bets    []StrategyBetRow `json:"bets"`
	Totals  StrategyTotals   `json:"totals"`
}

// BuildStrategyDigest selecciona y dimensiona las apuestas de todos los
// cards y devuelve el digest agregado. Las filas quedan ordenadas por
// (date_local, meeting_id, race_number, runner_number).
func BuildStrategyDigest(
	cards []domain.StakeCard,
	rules domain.SelectionRules,
	policy domain.BankrollPolicy,
) (StrategyDigest, error) {
	if err := policy.Validate(); err != nil {
		return StrategyDigest{}, fmt.Errorf("digest.BuildStrategyDigest: %w", err)
	}

	var rows []StrategyBetRow
	for _, card := range cards {
		bets, err := bankroll.SelectBets(card, rules)
		if err != nil {
			return StrategyDigest{}, fmt.Errorf("digest.BuildStrategyDigest: %w", err)
		}
		byRunner := make(map[int]domain.CardRunner, len(card.Runners))
		for _, r := range card.Runners {
			byRunner[r.RunnerNumber] = r
		}
		for _, b := range bets {
			stake, err := bankroll.Stake(b, policy)
			if err != nil {
				return StrategyDigest{}, fmt.Errorf("digest.BuildStrategyDigest: %w", err)
			}
			rows = append(rows, StrategyBetRow{
				MeetingID:    b.MeetingID,
				DateLocal:    b.DateLocal,
				RaceNumber:   b.RaceNumber,
				RunnerNumber: b.RunnerNumber,
				OddsDec:      b.OddsDec,
				WinProb:      b.WinProb,
				EV1U:         b.EV1U,
				Stake:        stake,
				StakePolicy:  string(policy.Mode),
				ReasonTags:   reasonTags(b, byRunner[b.RunnerNumber]),
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.DateLocal != b.DateLocal {
			return a.DateLocal < b.DateLocal
		}
		if a.MeetingID != b.MeetingID {
			return a.MeetingID < b.MeetingID
		}
		if a.RaceNumber != b.RaceNumber {
			return a.RaceNumber < b.RaceNumber
		}
		return a.RunnerNumber < b.RunnerNumber
	})

	return StrategyDigest{
		ShapeID: ShapeStrategyDigest,
		Policy:  string(policy.Mode),
		Bets:    rows,
		Totals:  totals(rows),
	}, nil
}

// reasonTags explica por qué la apuesta califica. Ordenadas y sin
// duplicados.
func reasonTags(b domain.Bet, r domain.CardRunner) []string {
	set := map[string]bool{}
	if b.EV1U != nil && *b.EV1U > 0 {
		set["positive_ev"] = true
	}
	if b.ValueEdge != nil && *b.ValueEdge > 0 {
		set["positive_edge"] = true
	}
	if r.EVBand != nil {
		set["ev_band_"+*r.EVBand] = true
	}
	if r.RiskProfile != nil && *r.RiskProfile == "VALUE" {
		set["value_profile"] = true
	}
	if r.Forecast.Tag != "" {
		set["tag_"+r.Forecast.Tag] = true
	}

	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

func totals(rows []StrategyBetRow) StrategyTotals {
	t := StrategyTotals{BetCount: len(rows)}
	for _, r := range rows {
		t.TotalStake += r.Stake
		if r.EV1U != nil {
			t.ExpectedProfit += r.Stake * *r.EV1U
		}
	}
	t.TotalStake = roundN(t.TotalStake, 2)
	t.ExpectedProfit = roundN(t.ExpectedProfit, 2)
	if t.TotalStake > 0 {
		t.ExpectedROI = roundN(t.ExpectedProfit/t.TotalStake, 4)
	}
	return t
}

func roundN(x float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(x*p) / p
}
