package bankroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aturoa13699-lab/turf-engine/internal/bankroll"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// fixedStream devuelve una secuencia fija: simulación totalmente controlada.
type fixedStream struct {
	vals []float64
	i    int
}

func (s *fixedStream) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func flatPolicy() domain.BankrollPolicy {
	policy := domain.DefaultBankrollPolicy()
	policy.Mode = domain.PolicyFlat
	policy.Bankroll = 1000
	policy.FlatStake = 20
	policy.MaxRisk = 1.0
	return policy
}

func TestSimulate_SameSeedSameResult(t *testing.T) {
	bets := []domain.Bet{makeBet(0.5, 2.2), makeBet(0.35, 3.5)}
	cfg := bankroll.SimConfig{Seed: 42, Iters: 500}

	a, err := bankroll.Simulate(bets, flatPolicy(), cfg, nil)
	require.NoError(t, err)
	b, err := bankroll.Simulate(bets, flatPolicy(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a.EquityCurve, 500)
	assert.LessOrEqual(t, a.P05, a.P50)
	assert.LessOrEqual(t, a.P50, a.P95)
	assert.Equal(t, 2, a.BetCount)
}

func TestSimulate_KnownStream(t *testing.T) {
	// un draw por apuesta: 0.1 gana (p=0.6), 0.9 pierde
	stream := &fixedStream{vals: []float64{0.1, 0.9}}
	bets := []domain.Bet{makeBet(0.6, 2.0)}

	result, err := bankroll.Simulate(bets, flatPolicy(), bankroll.SimConfig{Seed: 1, Iters: 2}, stream)
	require.NoError(t, err)

	// iter 1: gana → 1020; iter 2: pierde → 980. La curva conserva el
	// orden de iteración, no el orden de los percentiles.
	assert.Equal(t, []float64{1020, 980}, result.EquityCurve)
	assert.Equal(t, 980.0, result.P05)
	assert.Equal(t, 1020.0, result.P50)
	assert.Equal(t, 1020.0, result.P95)
	assert.InDelta(t, 1000.0, result.BankrollMean, 1e-9)
	assert.Equal(t, 0.0, result.RuinRate)
}

func TestSimulate_SkipsBetsWithoutPriceProb(t *testing.T) {
	bets := []domain.Bet{
		makeBet(0.5, 2.0),
		{RunnerNumber: 9}, // sin precio ni probabilidad
	}
	result, err := bankroll.Simulate(bets, flatPolicy(), bankroll.SimConfig{Seed: 7, Iters: 10}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.BetCount)
	assert.Equal(t, 1, result.SkippedBets)
}

func TestSimulate_ConfigValidation(t *testing.T) {
	_, err := bankroll.Simulate(nil, flatPolicy(), bankroll.SimConfig{Seed: 1, Iters: 0}, nil)
	require.Error(t, err)
}

func TestNewStream_Reproducible(t *testing.T) {
	a, b := bankroll.NewStream(99), bankroll.NewStream(99)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}
