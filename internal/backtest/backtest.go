package backtest

// backtest.go — re-agrega el histórico persistido en un digest diario.
//
// El camino de lectura del histórico: los cards que `compile`/`overlay`
// guardaron durante el día se cargan del store y pasan por el mismo
// agregador que los ficheros en disco, con simulación incluida. Misma
// semántica de dedupe: la variante PRO gana sobre la Lite.

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aturoa13699-lab/turf-engine/internal/digest"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
	"github.com/aturoa13699-lab/turf-engine/internal/ports"
)

// Run carga los cards de un día del histórico y los re-agrega en el digest
// diario. Un día sin cards es *domain.NotFoundError.
func Run(ctx context.Context, store ports.HistoryStore, dateLocal string, cfg digest.DailyConfig) (digest.DailyDigest, error) {
	if dateLocal == "" {
		return digest.DailyDigest{}, fmt.Errorf("backtest.Run: %w",
			&domain.MalformedInputError{Field: "date_local", Reason: "required"})
	}

	cards, err := store.LoadCards(ctx, dateLocal)
	if err != nil {
		return digest.DailyDigest{}, fmt.Errorf("backtest.Run: %w", err)
	}
	if len(cards) == 0 {
		return digest.DailyDigest{}, fmt.Errorf("backtest.Run: %w",
			&domain.NotFoundError{Query: dateLocal})
	}

	sources := make([]digest.SourceCard, 0, len(cards))
	for _, c := range cards {
		sources = append(sources, digest.SourceCard{Path: historyPath(c), Card: c})
	}
	slog.Info("backtest sources loaded", "date", dateLocal, "cards", len(sources))

	d, err := digest.BuildDailyFromCards(sources, cfg)
	if err != nil {
		return digest.DailyDigest{}, fmt.Errorf("backtest.Run: %w", err)
	}
	return d, nil
}

// historyPath sintetiza una ruta de origen estable para cada card del
// histórico. El sufijo _pro.json reproduce la convención de disco, así el
// dedupe prefer-pro funciona igual que sobre ficheros.
func historyPath(c domain.StakeCard) string {
	suffix := ".json"
	if c.IsPro() {
		suffix = "_pro.json"
	}
	return fmt.Sprintf("history/%s_%s_R%d_stake_card%s",
		c.Meta.DateLocal, c.Meta.MeetingID, c.Meta.RaceNumber, suffix)
}
