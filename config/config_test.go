package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if got, want := cfg.PDF.ViabilityThreshold, 0.5; got != want {
		t.Errorf("ViabilityThreshold = %v, want %v", got, want)
	}
	if got, want := cfg.PDF.StrategyTimeout, 20*time.Second; got != want {
		t.Errorf("StrategyTimeout = %v, want %v", got, want)
	}
	if len(cfg.PDF.StrategyOrder) != 3 || cfg.PDF.StrategyOrder[0] != "layout" {
		t.Errorf("StrategyOrder = %v, want layout first", cfg.PDF.StrategyOrder)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Batch.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TABLECAST_BATCH_WORKERS", "9")
	t.Setenv("TABLECAST_IMAGE_LANGUAGE", "eng+deu")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Batch.Workers != 9 {
		t.Errorf("Workers = %d, want 9 from environment", cfg.Batch.Workers)
	}
	if cfg.Image.Language != "eng+deu" {
		t.Errorf("Language = %q, want eng+deu from environment", cfg.Image.Language)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tablecast.yaml")
	content := "pdf:\n  viability_threshold: 0.8\nquality:\n  min_accuracy: 0.9\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s) failed: %v", path, err)
	}
	if cfg.PDF.ViabilityThreshold != 0.8 {
		t.Errorf("ViabilityThreshold = %v, want 0.8 from file", cfg.PDF.ViabilityThreshold)
	}
	if cfg.Quality.MinAccuracy != 0.9 {
		t.Errorf("MinAccuracy = %v, want 0.9 from file", cfg.Quality.MinAccuracy)
	}
	// Unset keys keep their defaults.
	if cfg.Batch.Workers != 4 {
		t.Errorf("Workers = %d, want default 4", cfg.Batch.Workers)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() accepted a missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty strategy order", func(c *Config) { c.PDF.StrategyOrder = nil }, true},
		{"threshold above one", func(c *Config) { c.PDF.ViabilityThreshold = 1.5 }, true},
		{"negative threshold", func(c *Config) { c.PDF.ViabilityThreshold = -0.1 }, true},
		{"zero timeout", func(c *Config) { c.PDF.StrategyTimeout = 0 }, true},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }, true},
		{"confidence above one", func(c *Config) { c.Image.MinCellConfidence = 2 }, true},
		{"quality above one", func(c *Config) { c.Quality.MinConsistency = 1.1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
