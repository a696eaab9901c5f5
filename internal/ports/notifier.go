package ports

import (
	"context"

	"github.com/aturoa13699-lab/turf-engine/internal/bankroll"
	"github.com/aturoa13699-lab/turf-engine/internal/digest"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// Notifier presenta los artefactos al usuario.
type Notifier interface {
	// NotifyCard muestra el stake card de una carrera.
	// En la implementación de consola, imprime una tabla formateada.
	NotifyCard(ctx context.Context, card domain.StakeCard) error

	// NotifyDigest muestra el índice diario agregado.
	NotifyDigest(ctx context.Context, d digest.DailyDigest) error

	// NotifySimulation muestra el resumen de la simulación Monte Carlo.
	NotifySimulation(ctx context.Context, result bankroll.SimulationResult) error
}
