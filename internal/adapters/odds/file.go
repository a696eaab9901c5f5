package odds

// file.go — adaptador de odds basado en ficheros. Fuente intercambiable:
// el core solo ve ports.OddsProvider.
//
// Layout esperado: <dir>/<meeting_id>_R<race>_odds.json con el shape
// turf.market_odds.v1.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// ShapeMarketOdds identifica el artefacto de odds en disco.
const ShapeMarketOdds = "turf.market_odds.v1"

// FileProvider implementa ports.OddsProvider leyendo JSON de un directorio.
type FileProvider struct {
	dir string
}

// NewFileProvider crea el proveedor sobre el directorio dado.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{dir: dir}
}

// FetchOdds lee los odds de (meeting, carrera) desde disco.
func (p *FileProvider) FetchOdds(ctx context.Context, meetingID string, raceNumber int) (domain.MarketOdds, error) {
	if err := ctx.Err(); err != nil {
		return domain.MarketOdds{}, fmt.Errorf("odds.FetchOdds: %w", err)
	}
	if meetingID == "" {
		return domain.MarketOdds{}, fmt.Errorf("odds.FetchOdds: %w",
			&domain.MalformedInputError{Field: "meeting_id", Reason: "required"})
	}

	path := filepath.Join(p.dir, fmt.Sprintf("%s_R%d_odds.json", meetingID, raceNumber))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.MarketOdds{}, fmt.Errorf("odds.FetchOdds: %w",
				&domain.NotFoundError{Query: path})
		}
		return domain.MarketOdds{}, fmt.Errorf("odds.FetchOdds: read %q: %w", path, err)
	}

	var out domain.MarketOdds
	if err := json.Unmarshal(data, &out); err != nil {
		return domain.MarketOdds{}, fmt.Errorf("odds.FetchOdds: %w",
			&domain.MalformedInputError{Field: path, Reason: err.Error()})
	}
	if out.ShapeID != "" && out.ShapeID != ShapeMarketOdds {
		return domain.MarketOdds{}, fmt.Errorf("odds.FetchOdds: %w",
			&domain.MalformedInputError{Field: path, Reason: "unexpected shape_id " + out.ShapeID})
	}
	if out.MeetingID == "" {
		out.MeetingID = meetingID
	}
	if out.RaceNumber == 0 {
		out.RaceNumber = raceNumber
	}
	return out, nil
}
