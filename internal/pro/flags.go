package pro

// FeatureFlags gates every derived field group in the PRO overlay.
// Everything defaults to OFF: a disabled flag means total absence of the
// corresponding fields in the output, never a null/false placeholder.
type FeatureFlags struct {
	EVBands          bool `yaml:"ev_bands" json:"ev_bands"`
	RaceSummary      bool `yaml:"race_summary" json:"race_summary"`
	RunnerNarratives bool `yaml:"runner_narratives" json:"runner_narratives"`
	RunnerFitness    bool `yaml:"runner_fitness" json:"runner_fitness"`
	RunnerRisk       bool `yaml:"runner_risk" json:"runner_risk"`

	// TrapRace is gated strictly by this flag and nothing else. It must
	// never be implied by RunnerRisk.
	TrapRace bool `yaml:"trap_race" json:"trap_race"`
}
