package resolver

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// ShapeScrapePlan identifica el artefacto de plan de captura.
const ShapeScrapePlan = "turf.scrape_plan.v1"

// BuildPlan resuelve un lote de (fecha, estado, pista) contra el índice.
// Semántica de fallo parcial: una pista sin resolver va a Warnings y el
// resto del plan sigue adelante — nunca aborta el lote completo.
func BuildPlan(ix *Index, items []domain.PlanItem) domain.ScrapePlan {
	plan := domain.ScrapePlan{
		ShapeID:         ShapeScrapePlan,
		PlanID:          uuid.New().String(),
		CreatedAtLocal:  time.Now().Format(time.RFC3339),
		RegistryVersion: ix.Version(),
	}

	for _, item := range items {
		match, err := ix.Resolve(item.Track, item.State)
		if err != nil {
			plan.Warnings = append(plan.Warnings,
				fmt.Sprintf("%s/%s: %v", item.Date, item.Track, err))
			continue
		}
		plan.Tracks = append(plan.Tracks, domain.PlanTrack{
			Date:       item.Date,
			State:      match.State,
			Canonical:  match.Canonical,
			Code:       match.Code,
			MatchKind:  string(match.Kind),
			Confidence: match.Confidence,
		})
	}

	return plan
}
