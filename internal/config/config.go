package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// #region config
// Config is the fieldd process configuration, read from FIELD_* environment variables.
type Config struct {
	DBPath         string        `env:"FIELD_DB" envDefault:"decision_field.db"`
	HTTPAddr       string        `env:"FIELD_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr       string        `env:"FIELD_GRPC_ADDR"`
	EngineAddr     string        `env:"FIELD_ENGINE_ADDR"`
	JWTSecret      string        `env:"FIELD_JWT_SECRET,required"`
	TokenTTL       time.Duration `env:"FIELD_TOKEN_TTL" envDefault:"24h"`
	AnalyzeDelay   time.Duration `env:"FIELD_ANALYZE_DELAY" envDefault:"1500ms"`
	CollapseDelay  time.Duration `env:"FIELD_COLLAPSE_DELAY" envDefault:"2s"`
	VocabularyPath string        `env:"FIELD_VOCABULARY"`
	LogLevel       string        `env:"FIELD_LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"FIELD_LOG_FORMAT" envDefault:"text"`
	AuthRPS        int           `env:"FIELD_AUTH_RPS" envDefault:"5"`
	AuthBurst      int           `env:"FIELD_AUTH_BURST" envDefault:"10"`
	OTelEndpoint   string        `env:"FIELD_OTEL_ENDPOINT"`
}

// #endregion config

// #region load
// Load parses the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadFrom parses an explicit variable map instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("FIELD_JWT_SECRET must be at least 16 bytes")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("FIELD_TOKEN_TTL must be positive")
	}
	if c.AnalyzeDelay < 0 || c.CollapseDelay < 0 {
		return fmt.Errorf("simulated delays must not be negative")
	}
	if c.AuthRPS <= 0 || c.AuthBurst <= 0 {
		return fmt.Errorf("FIELD_AUTH_RPS and FIELD_AUTH_BURST must be positive")
	}
	return nil
}

// #endregion load
