package ports

import (
	"context"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// OddsProvider entrega los precios vigentes de una carrera. La fuente es
// intercambiable: fichero, API o exchange.
type OddsProvider interface {
	// FetchOdds devuelve los odds actuales para (meeting, carrera).
	FetchOdds(ctx context.Context, meetingID string, raceNumber int) (domain.MarketOdds, error)
}
