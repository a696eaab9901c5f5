package domain

// ShapeStakeCard identifica el artefacto canónico por carrera.
const ShapeStakeCard = "turf.stake_card.v1"

// Modos de degradación del compilador según la calidad de los inputs.
const (
	DegradeNormal         = "NORMAL"
	DegradePartialSidecar = "PARTIAL_SIDECAR"
	DegradeMarketOnly     = "MARKET_ONLY"
)

// Warnings emitidos por el compilador Lite. Siempre ordenados y sin duplicados.
const (
	WarnSomePricesInvalid = "SOME_PRICES_INVALID"
	WarnAllPricesInvalid  = "ALL_PRICES_INVALID"
	WarnFewValidSpeeds    = "FEW_VALID_SPEEDS_NEUTRALIZED"
	WarnOddsMiss          = "ODDS_MISS"
)

// CardMeta son los metadatos de la carrera, copiados tal cual del snapshot.
type CardMeta struct {
	MeetingID         string `json:"meeting_id"`
	DateLocal         string `json:"date_local,omitempty"`
	RaceNumber        int    `json:"race_number"`
	DistanceM         int    `json:"distance_m,omitempty"`
	TrackConditionRaw string `json:"track_condition_raw,omitempty"`
	CapturedAt        string `json:"captured_at"`
}

// Forecast es el único bloque que escribe el compilador (y que el overlay PRO
// puede reescribir sobre una copia). Todo lo demás en el runner es copia
// literal del input.
type Forecast struct {
	Score      float64            `json:"score"`
	Tag        string             `json:"tag"`
	Rank       int                `json:"rank"`
	Components map[string]float64 `json:"components"`
	MarketProb *float64           `json:"market_prob"` // null si el corredor no tiene precio válido
	WinProb    float64            `json:"win_prob"`
	PlaceProb  float64            `json:"place_prob"`
	ValueEdge  *float64           `json:"value_edge"`
	EV1U       *float64           `json:"ev_1u"`
	Certainty  float64            `json:"certainty"`
}

// CardRunner es un corredor dentro del stake card. Los campos PRO son
// estrictamente aditivos: ausentes en Lite, presentes solo si el flag
// correspondiente está activo.
type CardRunner struct {
	RunnerNumber     int      `json:"runner_number"`
	RunnerName       string   `json:"runner_name"`
	Barrier          *int     `json:"barrier,omitempty"`
	MapRoleInferred  string   `json:"map_role_inferred,omitempty"`
	DaysSinceRun     *int     `json:"days_since_run,omitempty"`
	JockeyWinPct12m  *float64 `json:"jockey_win_pct_12m,omitempty"`
	TrainerWinPct12m *float64 `json:"trainer_win_pct_12m,omitempty"`
	PriceNowDec      *float64 `json:"price_now_dec,omitempty"`

	Forecast Forecast `json:"forecast"`

	// --- Campos PRO (aditivos, nunca placeholder) ---
	EV                 *float64 `json:"ev,omitempty"`
	EVBand             *string  `json:"ev_band,omitempty"`
	EVMarker           *string  `json:"ev_marker,omitempty"`
	ConfidenceClass    *string  `json:"confidence_class,omitempty"`
	RiskProfile        *string  `json:"risk_profile,omitempty"`
	ModelVsMarketAlert *string  `json:"model_vs_market_alert,omitempty"`
	Summary            *string  `json:"summary,omitempty"`
	FitnessFlags       []string `json:"fitness_flags,omitempty"`
	RiskTags           []string `json:"risk_tags,omitempty"`
}

// RaceSummary es el resumen PRO a nivel de carrera. No lleva trap_race:
// ese indicador vive en el card y lo gobierna su propio flag.
type RaceSummary struct {
	TopPicks   []int  `json:"top_picks"`
	ValuePicks []int  `json:"value_picks"`
	Fades      []int  `json:"fades"`
	Strategy   string `json:"strategy"`
}

// StakeCard es el artefacto canónico por carrera. Inmutable después de la
// compilación: las capas posteriores solo trabajan sobre copias.
type StakeCard struct {
	ShapeID     string       `json:"shape_id"`
	CardID      string       `json:"card_id"`
	Meta        CardMeta     `json:"meta"`
	DegradeMode string       `json:"degrade_mode"`
	Warnings    []string     `json:"warnings"`
	Runners     []CardRunner `json:"runners"`

	// --- Campos PRO a nivel de carrera (aditivos) ---
	RaceSummary *RaceSummary `json:"race_summary,omitempty"`
	TrapRace    *bool        `json:"trap_race,omitempty"`
}

// IsPro devuelve true si el card lleva algún campo derivado PRO.
func (c StakeCard) IsPro() bool {
	if c.RaceSummary != nil || c.TrapRace != nil {
		return true
	}
	for _, r := range c.Runners {
		if r.EV != nil || r.EVBand != nil || r.RiskProfile != nil || r.Summary != nil ||
			len(r.FitnessFlags) > 0 || len(r.RiskTags) > 0 {
			return true
		}
	}
	return false
}

// Clone devuelve una copia profunda del card. El overlay PRO trabaja siempre
// sobre esta copia; el original debe quedar byte a byte idéntico.
func (c StakeCard) Clone() StakeCard {
	out := c
	out.Warnings = append([]string(nil), c.Warnings...)
	out.Runners = make([]CardRunner, len(c.Runners))
	for i, r := range c.Runners {
		out.Runners[i] = r.clone()
	}
	if c.RaceSummary != nil {
		rs := RaceSummary{
			TopPicks:   append([]int(nil), c.RaceSummary.TopPicks...),
			ValuePicks: append([]int(nil), c.RaceSummary.ValuePicks...),
			Fades:      append([]int(nil), c.RaceSummary.Fades...),
			Strategy:   c.RaceSummary.Strategy,
		}
		out.RaceSummary = &rs
	}
	out.TrapRace = cloneBoolPtr(c.TrapRace)
	return out
}

func (r CardRunner) clone() CardRunner {
	out := r
	out.Barrier = cloneIntPtr(r.Barrier)
	out.DaysSinceRun = cloneIntPtr(r.DaysSinceRun)
	out.JockeyWinPct12m = cloneFloatPtr(r.JockeyWinPct12m)
	out.TrainerWinPct12m = cloneFloatPtr(r.TrainerWinPct12m)
	out.PriceNowDec = cloneFloatPtr(r.PriceNowDec)
	out.Forecast = r.Forecast.clone()
	out.EV = cloneFloatPtr(r.EV)
	out.EVBand = cloneStringPtr(r.EVBand)
	out.EVMarker = cloneStringPtr(r.EVMarker)
	out.ConfidenceClass = cloneStringPtr(r.ConfidenceClass)
	out.RiskProfile = cloneStringPtr(r.RiskProfile)
	out.ModelVsMarketAlert = cloneStringPtr(r.ModelVsMarketAlert)
	out.Summary = cloneStringPtr(r.Summary)
	if r.FitnessFlags != nil {
		out.FitnessFlags = append([]string(nil), r.FitnessFlags...)
	}
	if r.RiskTags != nil {
		out.RiskTags = append([]string(nil), r.RiskTags...)
	}
	return out
}

func (f Forecast) clone() Forecast {
	out := f
	if f.Components != nil {
		out.Components = make(map[string]float64, len(f.Components))
		for k, v := range f.Components {
			out.Components[k] = v
		}
	}
	out.MarketProb = cloneFloatPtr(f.MarketProb)
	out.ValueEdge = cloneFloatPtr(f.ValueEdge)
	out.EV1U = cloneFloatPtr(f.EV1U)
	return out
}
