package pro

// value.go derives the EV band family from the rewritten forecast. All of it
// lives behind the ev_bands flag.

import (
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
	"github.com/aturoa13699-lab/turf-engine/internal/lite"
)

// Edge thresholds shared by markers, risk profile and the divergence alert.
const (
	edgeCut  = 0.05
	alertCut = 0.08
)

// annotateValue writes the flag-gated value block on a runner whose forecast
// has already been rewritten by the overlay.
func annotateValue(r *domain.CardRunner) {
	if r.Forecast.EV1U != nil {
		ev := *r.Forecast.EV1U
		r.EV = &ev
		band := evBand(ev)
		r.EVBand = &band
	}
	if r.Forecast.ValueEdge != nil {
		marker := evMarker(*r.Forecast.ValueEdge)
		r.EVMarker = &marker
		alert := modelVsMarketAlert(*r.Forecast.ValueEdge)
		if alert != "" {
			r.ModelVsMarketAlert = &alert
		}
	}
	cc := confidenceClass(r.Forecast.Certainty)
	r.ConfidenceClass = &cc
	if rp, ok := riskProfile(*r); ok {
		r.RiskProfile = &rp
	}
}

func evBand(ev float64) string {
	switch {
	case ev >= 0.25:
		return "A"
	case ev >= 0.10:
		return "B"
	case ev >= 0.0:
		return "C"
	case ev >= -0.05:
		return "D"
	default:
		return "E"
	}
}

func evMarker(edge float64) string {
	switch {
	case edge >= edgeCut:
		return "🟢"
	case edge <= -edgeCut:
		return "🔴"
	default:
		return "⚪️"
	}
}

func confidenceClass(certainty float64) string {
	switch {
	case certainty >= 0.90:
		return "HIGH"
	case certainty >= 0.75:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// riskProfile compares model win probability against the implied price.
// Without a valid price there is no profile at all.
func riskProfile(r domain.CardRunner) (string, bool) {
	if !lite.ValidPrice(r.PriceNowDec) {
		return "", false
	}
	delta := r.Forecast.WinProb - 1 / *r.PriceNowDec
	switch {
	case delta >= edgeCut:
		return "VALUE", true
	case delta <= -edgeCut:
		return "UNDERLAY", true
	default:
		return "FAIR", true
	}
}

// modelVsMarketAlert fires only on a strong divergence between model and
// market; the empty string means no alert (and no field in the artifact).
func modelVsMarketAlert(edge float64) string {
	switch {
	case edge >= alertCut:
		return "overlay_positive"
	case edge <= -alertCut:
		return "overlay_negative"
	default:
		return ""
	}
}
