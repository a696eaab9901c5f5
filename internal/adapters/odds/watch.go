package odds

// watch.go — bucle de vigilancia de odds. Cada tick consulta el proveedor,
// detecta cambios por captured_at y archiva cada snapshot nuevo en un
// histórico JSONL. El rate limiter marca el pulso; el ctx manda.

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
	"github.com/aturoa13699-lab/turf-engine/internal/ports"
)

// Watcher observa los odds de una carrera a intervalos fijos.
type Watcher struct {
	provider ports.OddsProvider
	limiter  *rate.Limiter
	log      *slog.Logger

	historyDir string
}

// NewWatcher crea el watcher con el intervalo dado entre consultas.
func NewWatcher(provider ports.OddsProvider, interval time.Duration, historyDir string, log *slog.Logger) *Watcher {
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{
		provider:   provider,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		log:        log,
		historyDir: historyDir,
	}
}

// Watch consulta los odds hasta que el contexto se cancele, invocando fn en
// cada cambio. Un fetch fallido se loggea y se reintenta al próximo tick.
func (w *Watcher) Watch(ctx context.Context, meetingID string, raceNumber int, fn func(domain.MarketOdds)) error {
	lastCaptured := ""
	for {
		if err := w.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("odds.Watch: %w", err)
		}

		current, err := w.provider.FetchOdds(ctx, meetingID, raceNumber)
		if err != nil {
			w.log.Warn("odds fetch failed", "meeting", meetingID, "race", raceNumber, "error", err)
			continue
		}
		if current.CapturedAt == lastCaptured {
			continue
		}
		lastCaptured = current.CapturedAt

		if err := w.appendHistory(current); err != nil {
			w.log.Warn("odds history append failed", "meeting", meetingID, "error", err)
		}
		w.log.Info("odds updated",
			"meeting", meetingID, "race", raceNumber,
			"captured_at", current.CapturedAt, "runners", len(current.Runners))

		if fn != nil {
			fn(current)
		}
	}
}

// appendHistory archiva el snapshot como una línea JSONL por captura.
func (w *Watcher) appendHistory(o domain.MarketOdds) error {
	if w.historyDir == "" {
		return nil
	}
	if err := os.MkdirAll(w.historyDir, 0o755); err != nil {
		return fmt.Errorf("odds.appendHistory: %w", err)
	}

	name := fmt.Sprintf("%s_R%d_history.jsonl", o.MeetingID, o.RaceNumber)
	f, err := os.OpenFile(filepath.Join(w.historyDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("odds.appendHistory: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("odds.appendHistory: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("odds.appendHistory: %w", err)
	}
	return nil
}
