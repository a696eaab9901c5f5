package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aturoa13699-lab/turf-engine/internal/bankroll"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
	"github.com/aturoa13699-lab/turf-engine/internal/lite"
	"github.com/aturoa13699-lab/turf-engine/internal/pro"
)

// Config es la configuración completa del pipeline.
type Config struct {
	Registry RegistryConfig `yaml:"registry"`
	Lite     LiteConfig     `yaml:"lite"`
	Pro      ProConfig      `yaml:"pro"`
	Bankroll BankrollConfig `yaml:"bankroll"`
	Digest   DigestConfig   `yaml:"digest"`
	Odds     OddsConfig     `yaml:"odds"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// RegistryConfig apunta al registro de pistas.
type RegistryConfig struct {
	Path           string  `yaml:"path"`
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"` // 0-100
}

// LiteConfig son los pesos del compilador.
type LiteConfig struct {
	Weights lite.Weights `yaml:"weights"`
}

// ProConfig activa el overlay y sus feature flags.
type ProConfig struct {
	Enabled bool             `yaml:"enabled"`
	Flags   pro.FeatureFlags `yaml:"flags"`
}

// BankrollConfig agrupa política, reglas de selección y simulación.
type BankrollConfig struct {
	Policy domain.BankrollPolicy `yaml:"policy"`
	Rules  domain.SelectionRules `yaml:"rules"`
	Sim    bankroll.SimConfig    `yaml:"sim"`
}

// DigestConfig controla la agregación diaria.
type DigestConfig struct {
	PreferPro            bool   `yaml:"prefer_pro"`
	Simulate             bool   `yaml:"simulate"`
	EmitMeetingArtifacts bool   `yaml:"emit_meeting_artifacts"`
	OutDir               string `yaml:"out_dir"`
}

// OddsConfig controla el adaptador de odds basado en ficheros.
type OddsConfig struct {
	Dir             string `yaml:"dir"`
	HistoryDir      string `yaml:"history_dir"`
	IntervalSeconds int    `yaml:"interval_seconds"`
}

// StorageConfig controla dónde se persiste el histórico.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Bankroll.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// OddsInterval devuelve el intervalo de vigilancia como time.Duration.
func (c *Config) OddsInterval() time.Duration {
	return time.Duration(c.Odds.IntervalSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TURF_REGISTRY"); v != "" {
		cfg.Registry.Path = v
	}
	if v := os.Getenv("TURF_STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Registry.Path == "" {
		cfg.Registry.Path = "registry.json"
	}
	if cfg.Registry.FuzzyThreshold <= 0 {
		cfg.Registry.FuzzyThreshold = 80
	}
	zero := lite.Weights{}
	if cfg.Lite.Weights == zero {
		cfg.Lite.Weights = lite.DefaultWeights()
	}
	if cfg.Bankroll.Policy.Mode == "" {
		cfg.Bankroll.Policy = domain.DefaultBankrollPolicy()
		cfg.Bankroll.Rules = domain.DefaultSelectionRules()
	}
	if cfg.Bankroll.Sim.Iters <= 0 {
		cfg.Bankroll.Sim = bankroll.DefaultSimConfig()
	}
	if cfg.Odds.Dir == "" {
		cfg.Odds.Dir = "odds"
	}
	if cfg.Odds.IntervalSeconds <= 0 {
		cfg.Odds.IntervalSeconds = 30
	}
	if cfg.Digest.OutDir == "" {
		cfg.Digest.OutDir = "out"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "turf.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
