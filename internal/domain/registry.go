package domain

// ShapeTrackRegistry identifica el registro de pistas en disco.
const ShapeTrackRegistry = "turf.track_registry.v1"

// TrackEntry es una pista del registro: nombre canónico, código corto y la
// lista de aliases aceptados. Inmutable tras la carga.
type TrackEntry struct {
	Canonical string   `json:"canonical"`
	Code      string   `json:"code"`
	Aliases   []string `json:"aliases,omitempty"`
}

// StateTracks agrupa las pistas de un estado.
type StateTracks struct {
	Tracks []TrackEntry `json:"tracks"`
}

// TrackRegistry es la fuente de verdad de nombres de pista, agrupada por
// estado. El índice de resolución es el único dueño de esta estructura.
type TrackRegistry struct {
	ShapeID          string                 `json:"shape_id,omitempty"`
	Version          string                 `json:"version"`
	GeneratedAtLocal string                 `json:"generated_at_local,omitempty"`
	SourceOfTruth    string                 `json:"source_of_truth,omitempty"`
	States           map[string]StateTracks `json:"states"`
}

// MatchKind es el nivel de resolución que produjo el match.
type MatchKind string

const (
	MatchExact MatchKind = "exact"
	MatchAlias MatchKind = "alias"
	MatchFuzzy MatchKind = "fuzzy"
)

// ResolvedMatch es el resultado de una resolución. Se crea por llamada y no
// se persiste.
type ResolvedMatch struct {
	Input      string    `json:"input"`
	Kind       MatchKind `json:"match_kind"`
	Confidence float64   `json:"confidence"`
	Canonical  string    `json:"canonical"`
	Code       string    `json:"code"`
	State      string    `json:"state"`
}

// PlanItem es una petición de captura: (fecha, estado, pista) tal como la
// escribió el usuario.
type PlanItem struct {
	Date  string `json:"date"`
	State string `json:"state"`
	Track string `json:"track"`
}

// PlanTrack es una pista ya resuelta dentro del plan.
type PlanTrack struct {
	Date       string  `json:"date"`
	State      string  `json:"state"`
	Canonical  string  `json:"canonical"`
	Code       string  `json:"code"`
	MatchKind  string  `json:"match_kind"`
	Confidence float64 `json:"confidence"`
}

// ScrapePlan es el plan de captura resuelto (turf.scrape_plan.v1). Las
// pistas que no resolvieron quedan en Warnings; el plan sigue siendo válido.
type ScrapePlan struct {
	ShapeID         string      `json:"shape_id"`
	PlanID          string      `json:"plan_id"`
	CreatedAtLocal  string      `json:"created_at_local"`
	RegistryVersion string      `json:"registry_version"`
	Tracks          []PlanTrack `json:"tracks"`
	Warnings        []string    `json:"warnings,omitempty"`
}
