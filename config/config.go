// Package config provides Viper-based configuration for the conversion
// pipeline. Values resolve in precedence order: explicit file, environment
// variables (TABLECAST_ prefix), then built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete pipeline configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	// PDF controls the strategy cascade.
	PDF struct {
		// StrategyOrder is the cascade priority order. New strategies are
		// added here, not in controller logic.
		StrategyOrder []string `mapstructure:"strategy_order"`

		// ViabilityThreshold is the minimum aggregate confidence for a
		// strategy's output to be committed outright.
		ViabilityThreshold float64 `mapstructure:"viability_threshold"`

		// StrategyTimeout bounds each strategy attempt.
		StrategyTimeout time.Duration `mapstructure:"strategy_timeout"`
	} `mapstructure:"pdf"`

	Image struct {
		// Language is the OCR language code ("eng", "eng+fra", ...).
		Language string `mapstructure:"language"`

		// MinCellConfidence filters OCR words below this confidence (0-1)
		// out of reconstructed cells.
		MinCellConfidence float64 `mapstructure:"min_cell_confidence"`
	} `mapstructure:"image"`

	Quality struct {
		MinCompleteness float64 `mapstructure:"min_completeness"`
		MinConsistency  float64 `mapstructure:"min_consistency"`
		MinAccuracy     float64 `mapstructure:"min_accuracy"`
	} `mapstructure:"quality"`

	Batch struct {
		// Workers bounds concurrent file conversions in a batch.
		Workers int `mapstructure:"workers"`
	} `mapstructure:"batch"`
}

// Default returns the built-in configuration.
func Default() Config {
	cfg, _ := Load("")
	return cfg
}

// Load reads configuration from the optional file path plus environment.
// An empty path loads defaults and environment only.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("pdf.strategy_order", []string{"layout", "lattice", "whitespace"})
	v.SetDefault("pdf.viability_threshold", 0.5)
	v.SetDefault("pdf.strategy_timeout", 20*time.Second)
	v.SetDefault("image.language", "eng")
	v.SetDefault("image.min_cell_confidence", 0.3)
	v.SetDefault("quality.min_completeness", 0.5)
	v.SetDefault("quality.min_consistency", 0.7)
	v.SetDefault("quality.min_accuracy", 0.6)
	v.SetDefault("batch.workers", 4)

	v.SetEnvPrefix("TABLECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if len(c.PDF.StrategyOrder) == 0 {
		return fmt.Errorf("pdf.strategy_order must name at least one strategy")
	}
	if c.PDF.ViabilityThreshold < 0 || c.PDF.ViabilityThreshold > 1 {
		return fmt.Errorf("pdf.viability_threshold must be in [0,1], got %v", c.PDF.ViabilityThreshold)
	}
	if c.PDF.StrategyTimeout <= 0 {
		return fmt.Errorf("pdf.strategy_timeout must be positive, got %v", c.PDF.StrategyTimeout)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1, got %d", c.Batch.Workers)
	}
	for _, th := range []struct {
		name string
		v    float64
	}{
		{"quality.min_completeness", c.Quality.MinCompleteness},
		{"quality.min_consistency", c.Quality.MinConsistency},
		{"quality.min_accuracy", c.Quality.MinAccuracy},
		{"image.min_cell_confidence", c.Image.MinCellConfidence},
	} {
		if th.v < 0 || th.v > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", th.name, th.v)
		}
	}
	return nil
}
