package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aturoa13699-lab/turf-engine/config"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "registry.json", cfg.Registry.Path)
	assert.Equal(t, 80.0, cfg.Registry.FuzzyThreshold)
	assert.InDelta(t, 0.45, cfg.Lite.Weights.Market, 1e-9)
	assert.Equal(t, domain.PolicyFlat, cfg.Bankroll.Policy.Mode)
	assert.Equal(t, int64(42), cfg.Bankroll.Sim.Seed)
	assert.Equal(t, "turf.db", cfg.Storage.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Pro.Enabled)
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
registry:
  path: tracks.json
  fuzzy_threshold: 85
lite:
  weights:
    market: 0.5
    map: 0.3
    speed: 0.2
pro:
  enabled: true
  flags:
    ev_bands: true
bankroll:
  policy:
    policy: fractional_kelly
    bankroll_start: 500
    kelly_fraction: 0.5
    max_risk: 0.05
log:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tracks.json", cfg.Registry.Path)
	assert.Equal(t, 85.0, cfg.Registry.FuzzyThreshold)
	assert.InDelta(t, 0.5, cfg.Lite.Weights.Market, 1e-9)
	assert.True(t, cfg.Pro.Enabled)
	assert.True(t, cfg.Pro.Flags.EVBands)
	assert.False(t, cfg.Pro.Flags.TrapRace)
	assert.Equal(t, domain.PolicyFractionalKelly, cfg.Bankroll.Policy.Mode)
	assert.Equal(t, 500.0, cfg.Bankroll.Policy.Bankroll)
	// la variable de entorno pisa al YAML
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidPolicyFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
bankroll:
  policy:
    policy: martingale
    bankroll_start: 100
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
