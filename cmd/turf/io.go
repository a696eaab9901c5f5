package main

// io.go — helpers de entrada/salida compartidos por los subcomandos. Todos
// los artefactos salen en JSON canónico; "-o ''" significa stdout.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aturoa13699-lab/turf-engine/internal/adapters/notify"
	"github.com/aturoa13699-lab/turf-engine/internal/adapters/storage"
	"github.com/aturoa13699-lab/turf-engine/internal/digest"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
	"github.com/aturoa13699-lab/turf-engine/internal/ports"
	"github.com/aturoa13699-lab/turf-engine/internal/resolver"
)

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %q: %w", path, err)
	}
	return nil
}

func writeArtifact(path string, v any) error {
	if path == "" {
		return digest.WriteJSON(os.Stdout, v)
	}
	return digest.WriteJSONFile(path, v)
}

// openHistory abre el histórico configurado. Los subcomandos solo ven el
// puerto, nunca la implementación concreta.
func openHistory() (ports.HistoryStore, error) {
	return storage.NewSQLiteStore(cfg.Storage.DSN)
}

// console devuelve el notificador de consola detrás de su puerto.
func console() ports.Notifier {
	return notify.NewConsole()
}

// saveCard persiste un card en el histórico para backtest posterior.
func saveCard(ctx context.Context, card domain.StakeCard) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveCard(ctx, card)
}

func loadIndex() (*resolver.Index, error) {
	reg, err := resolver.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		return nil, err
	}
	return resolver.NewIndexThreshold(reg, cfg.Registry.FuzzyThreshold), nil
}
