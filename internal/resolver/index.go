package resolver

// index.go — índice de resolución de pistas.
//
// Tres niveles, cada uno corta en corto si acierta:
//   1. exacto contra nombres canónicos normalizados
//   2. exacto contra aliases normalizados
//   3. fuzzy (ratio Levenshtein normalizado) contra todos los candidatos,
//      opcionalmente pre-filtrados por state_hint.
//
// Los empates fuzzy se rompen SIEMPRE por el código canónico menor en orden
// lexicográfico — nunca por orden de inserción del registro.

import (
	"sort"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// DefaultFuzzyThreshold es el umbral mínimo (0-100) para aceptar un match
// fuzzy. Forma parte del contrato del registro.
const DefaultFuzzyThreshold = 80.0

type candidate struct {
	norm      string
	canonical string
	code      string
	state     string
}

// Index es la estructura de búsqueda construida desde el registro.
// Inmutable tras la construcción: seguro compartirlo entre llamadas.
type Index struct {
	version   string
	exact     map[string]candidate
	alias     map[string]candidate
	byState   map[string][]candidate
	all       []candidate
	threshold float64
}

// NewIndex construye el índice con el umbral fuzzy por defecto.
func NewIndex(reg domain.TrackRegistry) *Index {
	return NewIndexThreshold(reg, DefaultFuzzyThreshold)
}

// NewIndexThreshold construye el índice con un umbral fuzzy explícito.
func NewIndexThreshold(reg domain.TrackRegistry, threshold float64) *Index {
	ix := &Index{
		version:   reg.Version,
		exact:     make(map[string]candidate),
		alias:     make(map[string]candidate),
		byState:   make(map[string][]candidate),
		threshold: threshold,
	}

	// Orden estable de estados: el contenido del índice no depende del
	// orden de iteración del map.
	states := make([]string, 0, len(reg.States))
	for s := range reg.States {
		states = append(states, s)
	}
	sort.Strings(states)

	for _, state := range states {
		for _, t := range reg.States[state].Tracks {
			canonNorm := Normalize(t.Canonical)
			c := candidate{norm: canonNorm, canonical: t.Canonical, code: t.Code, state: state}
			ix.exact[canonNorm] = c
			ix.byState[state] = append(ix.byState[state], c)
			ix.all = append(ix.all, c)

			for _, alias := range t.Aliases {
				a := candidate{norm: Normalize(alias), canonical: t.Canonical, code: t.Code, state: state}
				ix.alias[a.norm] = a
				ix.byState[state] = append(ix.byState[state], a)
				ix.all = append(ix.all, a)
			}
		}
	}

	return ix
}

// Version devuelve la versión del registro con que se construyó el índice.
func (ix *Index) Version() string { return ix.version }

func (ix *Index) candidates(stateHint string) []candidate {
	if stateHint != "" {
		if list, ok := ix.byState[stateHint]; ok {
			return list
		}
	}
	return ix.all
}
