package bankroll

// simulate.go — simulación Monte Carlo sedeada del pipeline de apuestas.
// Determinismo estricto: misma semilla y mismas apuestas implican un
// resultado byte a byte idéntico, incluido el orden de consumo del RNG
// (una extracción por apuesta, en el orden de la lista).

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// Stream abstrae la fuente de aleatoriedad para poder inyectar secuencias
// fijas en los tests.
type Stream interface {
	Float64() float64
}

// NewStream devuelve el stream estándar sedeado.
func NewStream(seed int64) Stream {
	return rand.New(rand.NewSource(seed))
}

// SimConfig parametriza la simulación.
type SimConfig struct {
	Seed  int64 `json:"seed" yaml:"seed"`
	Iters int   `json:"iters" yaml:"iters"`
}

// DefaultSimConfig replica los parámetros históricos.
func DefaultSimConfig() SimConfig {
	return SimConfig{Seed: 42, Iters: 2000}
}

func (c SimConfig) validate() error {
	if c.Iters < 1 {
		return &domain.ConfigError{Param: "iters", Reason: "must be >= 1"}
	}
	return nil
}

// SimulationResult es el artefacto de salida. EquityCurve es el bankroll
// final de cada iteración, en orden de iteración; los percentiles se
// calculan sobre una copia ordenada.
type SimulationResult struct {
	Config       SimConfig `json:"config"`
	BetCount     int       `json:"bet_count"`
	SkippedBets  int       `json:"skipped_bets"`
	BankrollMean float64   `json:"bankroll_mean"`
	BankrollMin  float64   `json:"bankroll_min"`
	BankrollMax  float64   `json:"bankroll_max"`
	P05          float64   `json:"p05"`
	P50          float64   `json:"p50"`
	P95          float64   `json:"p95"`
	RuinRate     float64   `json:"ruin_rate"`
	EquityCurve  []float64 `json:"equity_curve,omitempty"`
}

// Simulate corre Iters secuencias de la lista de apuestas con la política
// dada. Cada apuesta se dimensiona contra el bankroll corriente y se
// resuelve con una extracción uniforme contra win_prob. Las apuestas sin
// precio o probabilidad se saltan sin consumir aleatoriedad.
func Simulate(bets []domain.Bet, policy domain.BankrollPolicy, cfg SimConfig, stream Stream) (SimulationResult, error) {
	if err := cfg.validate(); err != nil {
		return SimulationResult{}, fmt.Errorf("bankroll.Simulate: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return SimulationResult{}, fmt.Errorf("bankroll.Simulate: %w", err)
	}
	if stream == nil {
		stream = NewStream(cfg.Seed)
	}

	var playable []domain.Bet
	skipped := 0
	for _, b := range bets {
		if b.HasPriceProb() && *b.OddsDec > 1 && *b.WinProb >= 0 && *b.WinProb <= 1 {
			playable = append(playable, b)
		} else {
			skipped++
		}
	}

	finals := make([]float64, cfg.Iters)
	ruined := 0
	for it := 0; it < cfg.Iters; it++ {
		bank := policy.Bankroll
		for _, b := range playable {
			if bank <= 0 {
				break
			}
			p := policy
			p.Bankroll = bank
			stake, err := Stake(b, p)
			if err != nil {
				return SimulationResult{}, fmt.Errorf("bankroll.Simulate: %w", err)
			}
			draw := stream.Float64()
			if stake <= 0 {
				continue
			}
			if draw < *b.WinProb {
				bank += stake * (*b.OddsDec - 1)
			} else {
				bank -= stake
			}
		}
		if bank <= 0 {
			ruined++
		}
		finals[it] = round2(bank)
	}

	sorted := append([]float64(nil), finals...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	return SimulationResult{
		Config:       cfg,
		BetCount:     len(playable),
		SkippedBets:  skipped,
		BankrollMean: round2(sum / float64(len(sorted))),
		BankrollMin:  sorted[0],
		BankrollMax:  sorted[len(sorted)-1],
		P05:          percentile(sorted, 0.05),
		P50:          percentile(sorted, 0.50),
		P95:          percentile(sorted, 0.95),
		RuinRate:     float64(ruined) / float64(cfg.Iters),
		EquityCurve:  finals,
	}, nil
}

// percentile usa el índice truncado min(len-1, max(0, int(len*pct))) sobre
// la serie ya ordenada.
func percentile(sorted []float64, pct float64) float64 {
	idx := int(float64(len(sorted)) * pct)
	if idx < 0 {
		idx = 0
	}
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
