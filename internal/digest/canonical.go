package digest

// canonical.go fija la forma canónica de los artefactos JSON: compacto,
// orden de campos por declaración del struct y newline final. Dos payloads
// iguales deben producir exactamente los mismos bytes.

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CanonicalJSON serializa el payload en su forma canónica.
func CanonicalJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("digest.CanonicalJSON: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSON escribe el payload canónico en el writer.
func WriteJSON(w io.Writer, v any) error {
	data, err := CanonicalJSON(v)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("digest.WriteJSON: %w", err)
	}
	return nil
}

// WriteJSONFile escribe el payload canónico en disco, creando el directorio
// si hace falta.
func WriteJSONFile(path string, v any) error {
	data, err := CanonicalJSON(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("digest.WriteJSONFile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("digest.WriteJSONFile: %w", err)
	}
	return nil
}
