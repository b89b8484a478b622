// Package config holds the application configuration, loaded from
// ~/.sahayak/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dukaan-dev/sahayak/internal/fuzzy"
)

// Config holds the runtime configuration.
type Config struct {
	// DBPath is the sqlite database file. Empty means the default under
	// the config directory.
	DBPath string `yaml:"db_path"`
	// CorpusPath optionally points at a YAML training corpus merged on
	// top of the built-in examples.
	CorpusPath string `yaml:"corpus_path,omitempty"`
	// ListenAddr is where the HTTP API serves.
	ListenAddr string `yaml:"listen_addr"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Fuzzy tunes the similarity matcher.
	Fuzzy FuzzyConfig `yaml:"fuzzy"`
}

// FuzzyConfig tunes the similarity matcher thresholds and weights.
type FuzzyConfig struct {
	// AutoExecuteBelow is the score under which a match executes without
	// confirmation.
	AutoExecuteBelow float64 `yaml:"auto_execute_below"`
	// SuggestBelow is the score under which a match is offered as a
	// suggestion; at or above it the matcher reports no match.
	SuggestBelow float64 `yaml:"suggest_below"`
	// UtteranceWeight and IntentWeight weight the two distance fields.
	UtteranceWeight float64 `yaml:"utterance_weight"`
	IntentWeight    float64 `yaml:"intent_weight"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		ListenAddr: "127.0.0.1:7331",
		LogLevel:   "info",
		Fuzzy: FuzzyConfig{
			AutoExecuteBelow: fuzzy.DefaultAutoExecuteBelow,
			SuggestBelow:     fuzzy.DefaultSuggestBelow,
			UtteranceWeight:  fuzzy.DefaultUtteranceWeight,
			IntentWeight:     fuzzy.DefaultIntentWeight,
		},
	}
}

// Dir returns the config directory, ~/.sahayak.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	return filepath.Join(home, ".sahayak"), nil
}

// ResolveDBPath returns the configured database path, or the default
// under the config directory.
func (c *Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sahayak.db"), nil
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromHome loads configuration from ~/.sahayak/config.yaml.
func LoadFromHome() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return Default(), nil
	}
	return Load(filepath.Join(dir, "config.yaml"))
}

// Save saves configuration to a YAML file, creating parent directories
// if needed.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	levels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !levels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be: debug, info, warn, or error", c.LogLevel)
	}

	f := c.Fuzzy
	if f.AutoExecuteBelow < 0 || f.AutoExecuteBelow > 1 {
		return fmt.Errorf("fuzzy.auto_execute_below must be in [0,1]")
	}
	if f.SuggestBelow <= f.AutoExecuteBelow || f.SuggestBelow > 1 {
		return fmt.Errorf("fuzzy.suggest_below must be in (auto_execute_below, 1]")
	}
	if f.UtteranceWeight < 0 || f.IntentWeight < 0 || f.UtteranceWeight+f.IntentWeight == 0 {
		return fmt.Errorf("fuzzy weights must be non-negative and not both zero")
	}
	return nil
}

// MatcherOptions translates the fuzzy section into matcher options.
func (c *Config) MatcherOptions() []fuzzy.Option {
	return []fuzzy.Option{
		fuzzy.WithThresholds(c.Fuzzy.AutoExecuteBelow, c.Fuzzy.SuggestBelow),
		fuzzy.WithWeights(c.Fuzzy.UtteranceWeight, c.Fuzzy.IntentWeight),
	}
}
