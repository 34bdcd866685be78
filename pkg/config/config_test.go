package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SnapshotYears != 5 {
		t.Errorf("expected 5 snapshot years, got %d", cfg.SnapshotYears)
	}
	if cfg.Gemini.RequestsPerMinute != 10 {
		t.Errorf("expected rpm=10, got %d", cfg.Gemini.RequestsPerMinute)
	}
	if cfg.Gemini.MinCallDelay != 10*time.Second {
		t.Errorf("expected 10s call delay, got %s", cfg.Gemini.MinCallDelay)
	}
}

func TestValidateEnv(t *testing.T) {
	t.Setenv("ENV", "nonsense")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid ENV")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("GEMINI_RPM", "15")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-flash-lite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Gemini.RequestsPerMinute != 15 {
		t.Errorf("expected rpm=15, got %d", cfg.Gemini.RequestsPerMinute)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash-lite" {
		t.Errorf("unexpected model: %s", cfg.Gemini.Model)
	}
}
