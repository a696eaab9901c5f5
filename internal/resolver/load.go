package resolver

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// LoadRegistry lee el registro de pistas desde disco y lo valida antes de
// entregarlo. Un registro vacío o con shape inesperado es input malformado.
func LoadRegistry(path string) (domain.TrackRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.TrackRegistry{}, fmt.Errorf("resolver.LoadRegistry: read %q: %w", path, err)
	}

	var reg domain.TrackRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return domain.TrackRegistry{}, fmt.Errorf("resolver.LoadRegistry: %w",
			&domain.MalformedInputError{Field: path, Reason: err.Error()})
	}
	if reg.ShapeID != "" && reg.ShapeID != domain.ShapeTrackRegistry {
		return domain.TrackRegistry{}, fmt.Errorf("resolver.LoadRegistry: %w",
			&domain.MalformedInputError{Field: path, Reason: "unexpected shape_id " + reg.ShapeID})
	}
	if len(reg.States) == 0 {
		return domain.TrackRegistry{}, fmt.Errorf("resolver.LoadRegistry: %w",
			&domain.MalformedInputError{Field: path, Reason: "no states"})
	}

	for state, st := range reg.States {
		if len(st.Tracks) == 0 {
			return domain.TrackRegistry{}, fmt.Errorf("resolver.LoadRegistry: %w",
				&domain.MalformedInputError{Field: "states." + state, Reason: "no tracks"})
		}
		for _, t := range st.Tracks {
			if t.Canonical == "" || t.Code == "" {
				return domain.TrackRegistry{}, fmt.Errorf("resolver.LoadRegistry: %w",
					&domain.MalformedInputError{Field: "states." + state, Reason: "track missing canonical or code"})
			}
		}
	}
	return reg, nil
}
