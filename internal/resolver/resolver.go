package resolver

import (
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// Resolve resuelve un nombre de pista contra el índice. stateHint es
// opcional ("" = buscar en todos los estados) y solo pre-filtra el paso
// fuzzy. Devuelve *domain.NotFoundError si ningún candidato supera el
// umbral.
func (ix *Index) Resolve(query, stateHint string) (domain.ResolvedMatch, error) {
	norm := Normalize(query)

	if c, ok := ix.exact[norm]; ok {
		return domain.ResolvedMatch{
			Input:      query,
			Kind:       domain.MatchExact,
			Confidence: 1.0,
			Canonical:  c.canonical,
			Code:       c.code,
			State:      c.state,
		}, nil
	}

	if c, ok := ix.alias[norm]; ok {
		return domain.ResolvedMatch{
			Input:      query,
			Kind:       domain.MatchAlias,
			Confidence: 1.0,
			Canonical:  c.canonical,
			Code:       c.code,
			State:      c.state,
		}, nil
	}

	var (
		best      candidate
		bestScore = -1.0
		found     bool
	)
	for _, c := range ix.candidates(stateHint) {
		score := similarity(norm, c.norm)
		if score < ix.threshold {
			// fuera de umbral: solo lo recordamos para el mensaje de error
			if !found && score > bestScore {
				bestScore = score
				best = c
			}
			continue
		}
		switch {
		case !found || score > bestScore:
			found = true
			bestScore = score
			best = c
		case score == bestScore && c.code < best.code:
			// empate exacto de score: gana el código canónico menor
			best = c
		}
	}

	if !found {
		return domain.ResolvedMatch{}, &domain.NotFoundError{Query: query, Best: best.canonical, Score: bestScore}
	}

	return domain.ResolvedMatch{
		Input:      query,
		Kind:       domain.MatchFuzzy,
		Confidence: bestScore / 100,
		Canonical:  best.canonical,
		Code:       best.code,
		State:      best.state,
	}, nil
}
