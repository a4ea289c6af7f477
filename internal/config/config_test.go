package config

import (
	"testing"
	"time"
)

const secret = "0123456789abcdef0123"

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"FIELD_JWT_SECRET": secret})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.DBPath != "decision_field.db" {
		t.Errorf("unexpected DBPath %q", cfg.DBPath)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("unexpected HTTPAddr %q", cfg.HTTPAddr)
	}
	if cfg.AnalyzeDelay != 1500*time.Millisecond || cfg.CollapseDelay != 2*time.Second {
		t.Errorf("unexpected delays %v / %v", cfg.AnalyzeDelay, cfg.CollapseDelay)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("unexpected TTL %v", cfg.TokenTTL)
	}
	if cfg.GRPCAddr != "" || cfg.EngineAddr != "" || cfg.OTelEndpoint != "" {
		t.Error("optional addresses should default to empty")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"FIELD_JWT_SECRET":     secret,
		"FIELD_DB":             "/tmp/x.db",
		"FIELD_ANALYZE_DELAY":  "0s",
		"FIELD_COLLAPSE_DELAY": "10ms",
		"FIELD_ENGINE_ADDR":    "engine:50051",
		"FIELD_LOG_FORMAT":     "json",
	})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.DBPath != "/tmp/x.db" || cfg.AnalyzeDelay != 0 || cfg.CollapseDelay != 10*time.Millisecond {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.EngineAddr != "engine:50051" || cfg.LogFormat != "json" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadFrom_MissingSecret(t *testing.T) {
	if _, err := LoadFrom(map[string]string{}); err == nil {
		t.Fatal("expected error for missing FIELD_JWT_SECRET")
	}
}

func TestLoadFrom_ShortSecret(t *testing.T) {
	if _, err := LoadFrom(map[string]string{"FIELD_JWT_SECRET": "short"}); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestLoadFrom_BadDuration(t *testing.T) {
	if _, err := LoadFrom(map[string]string{"FIELD_JWT_SECRET": secret, "FIELD_TOKEN_TTL": "soon"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate_NegativeDelay(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"FIELD_JWT_SECRET": secret})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	cfg.AnalyzeDelay = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative delay")
	}
}
