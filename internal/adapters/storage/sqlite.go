package storage

// sqlite.go — histórico de cards y digests para backtesting.
//
// Estrategia:
//   - `cards`: UNA fila por card (UPSERT por card_id). El payload completo
//     va como JSON canónico; las columnas sueltas existen solo para filtrar.
//   - `digests`: una fila por día, el último pase de agregación gana.
//   - Prune automático al arrancar: cards no vistos en 90d, digests > 180d.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aturoa13699-lab/turf-engine/internal/digest"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

const schema = `
-- Una fila por stake card, sin duplicados
CREATE TABLE IF NOT EXISTS cards (
    card_id      TEXT PRIMARY KEY,
    date_local   TEXT    NOT NULL,
    meeting_id   TEXT    NOT NULL,
    race_number  INTEGER NOT NULL,
    degrade_mode TEXT    NOT NULL,
    pro          INTEGER NOT NULL DEFAULT 0,
    payload      TEXT    NOT NULL,
    first_seen   DATETIME NOT NULL,
    last_seen    DATETIME NOT NULL
);

-- Un digest por día; el último pase gana
CREATE TABLE IF NOT EXISTS digests (
    date_local TEXT PRIMARY KEY,
    payload    TEXT     NOT NULL,
    saved_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cards_date    ON cards(date_local);
CREATE INDEX IF NOT EXISTS idx_cards_meeting ON cards(meeting_id, race_number);
CREATE INDEX IF NOT EXISTS idx_cards_last    ON cards(last_seen DESC);
`

const (
	retentionCards   = 90 * 24 * time.Hour
	retentionDigests = 180 * 24 * time.Hour
)

// SQLiteStore implementa ports.HistoryStore usando SQLite (pure Go, sin CGo).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore abre (o crea) la base de datos en la ruta dada, aplica el
// schema y limpia datos antiguos.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveCard hace upsert del card por card_id. first_seen se conserva en
// re-escrituras; last_seen avanza siempre.
func (s *SQLiteStore) SaveCard(ctx context.Context, card domain.StakeCard) error {
	if card.CardID == "" {
		return fmt.Errorf("storage.SaveCard: %w",
			&domain.MalformedInputError{Field: "card_id", Reason: "required"})
	}

	payload, err := digest.CanonicalJSON(card)
	if err != nil {
		return fmt.Errorf("storage.SaveCard: %w", err)
	}

	pro := 0
	if card.IsPro() {
		pro = 1
	}
	now := time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cards
			(card_id, date_local, meeting_id, race_number, degrade_mode, pro, payload, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(card_id) DO UPDATE SET
			degrade_mode = excluded.degrade_mode,
			pro          = excluded.pro,
			payload      = excluded.payload,
			last_seen    = excluded.last_seen
	`,
		card.CardID, card.Meta.DateLocal, card.Meta.MeetingID, card.Meta.RaceNumber,
		card.DegradeMode, pro, string(payload), now, now,
	)
	if err != nil {
		return fmt.Errorf("storage.SaveCard: upsert: %w", err)
	}
	return nil
}

// LoadCards devuelve los cards de un día en orden estable.
func (s *SQLiteStore) LoadCards(ctx context.Context, dateLocal string) ([]domain.StakeCard, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM cards
		WHERE date_local = ?
		ORDER BY meeting_id, race_number, card_id
	`, dateLocal)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadCards: query: %w", err)
	}
	defer rows.Close()

	var out []domain.StakeCard
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("storage.LoadCards: scan: %w", err)
		}
		var card domain.StakeCard
		if err := json.Unmarshal([]byte(payload), &card); err != nil {
			return nil, fmt.Errorf("storage.LoadCards: %w",
				&domain.MalformedInputError{Field: "cards.payload", Reason: err.Error()})
		}
		out = append(out, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.LoadCards: rows: %w", err)
	}
	return out, nil
}

// SaveDigest guarda el JSON canónico del digest del día.
func (s *SQLiteStore) SaveDigest(ctx context.Context, dateLocal string, payload []byte) error {
	if dateLocal == "" {
		return fmt.Errorf("storage.SaveDigest: %w",
			&domain.MalformedInputError{Field: "date_local", Reason: "required"})
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO digests (date_local, payload, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT(date_local) DO UPDATE SET
			payload  = excluded.payload,
			saved_at = excluded.saved_at
	`, dateLocal, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("storage.SaveDigest: upsert: %w", err)
	}
	return nil
}

// Close cierra la base.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// pruneOld borra histórico fuera de la ventana de retención. Best effort:
// un fallo aquí no impide arrancar.
func (s *SQLiteStore) pruneOld(ctx context.Context) {
	now := time.Now().UTC()
	s.db.ExecContext(ctx, `DELETE FROM cards   WHERE last_seen < ?`, now.Add(-retentionCards))
	s.db.ExecContext(ctx, `DELETE FROM digests WHERE saved_at  < ?`, now.Add(-retentionDigests))
}
