package domain

import "fmt"

// Taxonomía de errores del core. Tres familias tipadas; el resto de la
// tubería decide con errors.As, nunca parseando mensajes.

// NotFoundError: la resolución no encontró ningún candidato por encima del
// umbral. Best y Score describen el mejor candidato rechazado, útiles para
// diagnosticar typos en los nombres de pista.
type NotFoundError struct {
	Query string
	Best  string
	Score float64
}

func (e *NotFoundError) Error() string {
	if e.Best == "" {
		return fmt.Sprintf("no match for %q", e.Query)
	}
	return fmt.Sprintf("no match for %q (best %q at %.1f)", e.Query, e.Best, e.Score)
}

// MalformedInputError: un artefacto de entrada viola su shape. Siempre
// aborta la etapa; nunca se degrada en silencio.
type MalformedInputError struct {
	Field  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input %s: %s", e.Field, e.Reason)
}

// ConfigError: un parámetro de configuración es inválido. Se detecta antes
// de tocar ningún dato.
type ConfigError struct {
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Param, e.Reason)
}
