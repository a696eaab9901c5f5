package pro

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

func TestEVBandThresholds(t *testing.T) {
	assert.Equal(t, "A", evBand(0.25))
	assert.Equal(t, "A", evBand(0.60))
	assert.Equal(t, "B", evBand(0.10))
	assert.Equal(t, "B", evBand(0.249))
	assert.Equal(t, "C", evBand(0.0))
	assert.Equal(t, "D", evBand(-0.01))
	assert.Equal(t, "D", evBand(-0.05))
	assert.Equal(t, "E", evBand(-0.06))
}

func TestEVMarker(t *testing.T) {
	assert.Equal(t, "🟢", evMarker(0.05))
	assert.Equal(t, "🔴", evMarker(-0.05))
	assert.Equal(t, "⚪️", evMarker(0.049))
	assert.Equal(t, "⚪️", evMarker(-0.049))
}

func TestConfidenceClass(t *testing.T) {
	assert.Equal(t, "HIGH", confidenceClass(0.90))
	assert.Equal(t, "HIGH", confidenceClass(1.0))
	assert.Equal(t, "MEDIUM", confidenceClass(0.75))
	assert.Equal(t, "MEDIUM", confidenceClass(0.89))
	assert.Equal(t, "LOW", confidenceClass(0.74))
}

func TestModelVsMarketAlert(t *testing.T) {
	assert.Equal(t, "overlay_positive", modelVsMarketAlert(0.08))
	assert.Equal(t, "overlay_negative", modelVsMarketAlert(-0.09))
	assert.Equal(t, "", modelVsMarketAlert(0.079))
	assert.Equal(t, "", modelVsMarketAlert(-0.05))
}

func TestRiskProfile(t *testing.T) {
	price := 4.0 // implícita 0.25

	mk := func(win float64) domain.CardRunner {
		p := price
		return domain.CardRunner{PriceNowDec: &p, Forecast: domain.Forecast{WinProb: win}}
	}

	rp, ok := riskProfile(mk(0.31))
	assert.True(t, ok)
	assert.Equal(t, "VALUE", rp)

	rp, ok = riskProfile(mk(0.19))
	assert.True(t, ok)
	assert.Equal(t, "UNDERLAY", rp)

	rp, ok = riskProfile(mk(0.26))
	assert.True(t, ok)
	assert.Equal(t, "FAIR", rp)

	_, ok = riskProfile(domain.CardRunner{Forecast: domain.Forecast{WinProb: 0.5}})
	assert.False(t, ok)
}
