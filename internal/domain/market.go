package domain

// MarketSnapshot es la foto estructurada de un mercado para una carrera,
// producida por un parser externo. El core la trata como solo-lectura:
// toda transformación devuelve una copia nueva.
type MarketSnapshot struct {
	ShapeID           string           `json:"shape_id,omitempty"` // turf.market_snapshot.v1
	MeetingID         string           `json:"meeting_id"`
	DateLocal         string           `json:"date_local,omitempty"`
	RaceNumber        int              `json:"race_number"`
	DistanceM         int              `json:"distance_m,omitempty"`
	TrackConditionRaw string           `json:"track_condition_raw,omitempty"`
	CapturedAt        string           `json:"captured_at"` // timestamp con offset, se copia tal cual
	Runners           []SnapshotRunner `json:"runners"`
}

// SnapshotRunner es un corredor dentro del snapshot. Los campos opcionales
// van como punteros: ausente y cero no son lo mismo.
type SnapshotRunner struct {
	RunnerNumber     int      `json:"runner_number"`
	RunnerName       string   `json:"runner_name"`
	Barrier          *int     `json:"barrier,omitempty"`
	MapRoleInferred  string   `json:"map_role_inferred,omitempty"`
	DaysSinceRun     *int     `json:"days_since_run,omitempty"`
	JockeyWinPct12m  *float64 `json:"jockey_win_pct_12m,omitempty"`
	TrainerWinPct12m *float64 `json:"trainer_win_pct_12m,omitempty"`
	PriceNowDec      *float64 `json:"price_now_dec,omitempty"`
}

// Clone devuelve una copia profunda del snapshot.
func (m MarketSnapshot) Clone() MarketSnapshot {
	out := m
	out.Runners = make([]SnapshotRunner, len(m.Runners))
	for i, r := range m.Runners {
		out.Runners[i] = r.clone()
	}
	return out
}

func (r SnapshotRunner) clone() SnapshotRunner {
	out := r
	out.Barrier = cloneIntPtr(r.Barrier)
	out.DaysSinceRun = cloneIntPtr(r.DaysSinceRun)
	out.JockeyWinPct12m = cloneFloatPtr(r.JockeyWinPct12m)
	out.TrainerWinPct12m = cloneFloatPtr(r.TrainerWinPct12m)
	out.PriceNowDec = cloneFloatPtr(r.PriceNowDec)
	return out
}

// MarketOdds son los precios vigentes por nombre de corredor
// (turf.market_odds.v1). Entregado por un adaptador de odds intercambiable.
type MarketOdds struct {
	ShapeID    string    `json:"shape_id,omitempty"`
	MeetingID  string    `json:"meeting_id"`
	RaceNumber int       `json:"race_number"`
	CapturedAt string    `json:"captured_at,omitempty"`
	Runners    []OddsRow `json:"runners"`
}

// OddsRow es un precio decimal para un corredor identificado por nombre.
type OddsRow struct {
	RunnerName  string   `json:"runner_name"`
	PriceNowDec *float64 `json:"price_now_dec"`
}

// SpeedSidecar mapea runner_number → figura de velocidad (m/s).
// Entrada solo-lectura, alineada con el snapshot por runner_number.
type SpeedSidecar struct {
	ShapeID    string          `json:"shape_id,omitempty"` // turf.speed_sidecar.v1
	MeetingID  string          `json:"meeting_id,omitempty"`
	RaceNumber int             `json:"race_number,omitempty"`
	Speeds     map[int]float64 `json:"speeds"`
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBoolPtr(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
