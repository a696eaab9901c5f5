package domain

import "fmt"

// PolicyMode es la política de dimensionado de apuestas.
type PolicyMode string

const (
	PolicyFlat            PolicyMode = "flat"
	PolicyKelly           PolicyMode = "kelly"
	PolicyFractionalKelly PolicyMode = "fractional_kelly"
	PolicyCappedKelly     PolicyMode = "capped_kelly"
	PolicyEdge            PolicyMode = "edge"
)

// BankrollPolicy es configuración pura de dimensionado: sin estado mutable.
type BankrollPolicy struct {
	Mode          PolicyMode `json:"policy" yaml:"policy"`
	Bankroll      float64    `json:"bankroll_start" yaml:"bankroll_start"`
	FlatStake     float64    `json:"flat_stake" yaml:"flat_stake"`
	KellyFraction float64    `json:"kelly_fraction" yaml:"kelly_fraction"` // multiplicador < 1 para fractional_kelly
	KellyCap      float64    `json:"kelly_cap" yaml:"kelly_cap"`           // techo fijo para capped_kelly
	EdgeScale     float64    `json:"edge_scale" yaml:"edge_scale"`         // fracción de bankroll por unidad de edge
	MaxRisk       float64    `json:"max_risk" yaml:"max_risk"`             // fracción máxima del bankroll por apuesta
}

// DefaultBankrollPolicy replica los defaults históricos del pipeline.
func DefaultBankrollPolicy() BankrollPolicy {
	return BankrollPolicy{
		Mode:          PolicyFlat,
		Bankroll:      1000,
		FlatStake:     20,
		KellyFraction: 0.25,
		KellyCap:      0.05,
		EdgeScale:     0.10,
		MaxRisk:       0.02,
	}
}

// Validate comprueba los parámetros de la política. Cualquier violación
// devuelve un *ConfigError y la etapa que la use debe abortar.
func (p BankrollPolicy) Validate() error {
	switch p.Mode {
	case PolicyFlat, PolicyKelly, PolicyFractionalKelly, PolicyCappedKelly, PolicyEdge:
	default:
		return &ConfigError{Param: "policy", Reason: fmt.Sprintf("unknown mode %q", p.Mode)}
	}
	if p.MaxRisk < 0 || p.MaxRisk > 1 {
		return &ConfigError{Param: "max_risk", Reason: fmt.Sprintf("%.4f outside [0,1]", p.MaxRisk)}
	}
	if p.Bankroll < 0 {
		return &ConfigError{Param: "bankroll_start", Reason: "must be >= 0"}
	}
	if p.Mode == PolicyFlat && p.FlatStake < 0 {
		return &ConfigError{Param: "flat_stake", Reason: "must be >= 0"}
	}
	if p.Mode == PolicyFractionalKelly && (p.KellyFraction <= 0 || p.KellyFraction >= 1) {
		return &ConfigError{Param: "kelly_fraction", Reason: fmt.Sprintf("%.4f outside (0,1)", p.KellyFraction)}
	}
	if p.Mode == PolicyCappedKelly && (p.KellyCap <= 0 || p.KellyCap > 1) {
		return &ConfigError{Param: "kelly_cap", Reason: fmt.Sprintf("%.4f outside (0,1]", p.KellyCap)}
	}
	if p.Mode == PolicyEdge && p.EdgeScale < 0 {
		return &ConfigError{Param: "edge_scale", Reason: "must be >= 0"}
	}
	return nil
}
