package domain

// Bet es una apuesta candidata seleccionada de un stake card.
type Bet struct {
	MeetingID    string   `json:"meeting_id"`
	DateLocal    string   `json:"date_local"`
	RaceNumber   int      `json:"race_number"`
	RunnerNumber int      `json:"runner_number"`
	OddsDec      *float64 `json:"odds_dec"`
	WinProb      *float64 `json:"win_prob"`
	EV1U         *float64 `json:"ev_1u"`
	ValueEdge    *float64 `json:"value_edge"`
}

// HasPriceProb devuelve true si la apuesta tiene precio y probabilidad;
// sin ambos no se puede dimensionar ni simular.
func (b Bet) HasPriceProb() bool {
	return b.OddsDec != nil && b.WinProb != nil
}

// SelectionRules gobierna qué apuestas califican. La regla por defecto exige
// EV presente y positivo.
type SelectionRules struct {
	RequirePositiveEV bool     `json:"require_positive_ev" yaml:"require_positive_ev"`
	MinEV             *float64 `json:"min_ev" yaml:"min_ev"`
	MinEdge           *float64 `json:"min_edge" yaml:"min_edge"`
}

// DefaultSelectionRules exige EV positivo sin umbrales adicionales.
func DefaultSelectionRules() SelectionRules {
	return SelectionRules{RequirePositiveEV: true}
}
