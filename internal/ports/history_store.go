package ports

import (
	"context"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// HistoryStore persiste cards y digests para backtesting histórico.
type HistoryStore interface {
	// SaveCard hace upsert del card por card_id.
	SaveCard(ctx context.Context, card domain.StakeCard) error

	// LoadCards devuelve los cards de un día, ordenados por
	// (meeting_id, race_number).
	LoadCards(ctx context.Context, dateLocal string) ([]domain.StakeCard, error)

	// SaveDigest guarda el JSON canónico del digest diario.
	SaveDigest(ctx context.Context, dateLocal string, payload []byte) error

	Close() error
}
