package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fwojciec/aeo"
	"github.com/fwojciec/aeo/analysis"
	"github.com/fwojciec/aeo/gemini"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the aeo configuration file.
type Config struct {
	Site      aeo.Site        `yaml:"site"`
	Limits    aeo.Limits      `yaml:"limits"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Providers ProvidersConfig `yaml:"providers"`
}

// AnalysisConfig tunes the analyzer.
type AnalysisConfig struct {
	Timeout           time.Duration   `yaml:"timeout"`
	RetryDelays       []time.Duration `yaml:"retry_delays"`
	RequestsPerSecond float64         `yaml:"requests_per_second"`
	Burst             int             `yaml:"burst"`
	CacheTTL          time.Duration   `yaml:"cache_ttl"`
	KnownTags         []string        `yaml:"known_tags"`
}

// ProvidersConfig configures remote providers.
type ProvidersConfig struct {
	Gemini GeminiConfig `yaml:"gemini"`
}

// GeminiConfig configures the Gemini provider. The API key is read from
// the environment only.
type GeminiConfig struct {
	Model          string        `yaml:"model"`
	Rates          aeo.RateTable `yaml:"rates"`
	PromptMaxRunes int           `yaml:"prompt_max_runes"`
	APIKey         string        `yaml:"-"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Site: aeo.Site{Language: aeo.DefaultLanguage},
		Limits: aeo.Limits{
			Analyses: aeo.DefaultAnalysesLimit,
			Cost:     aeo.DefaultCostLimit,
		},
		Analysis: AnalysisConfig{
			Timeout:     analysis.DefaultTimeout,
			RetryDelays: analysis.DefaultRetryDelays(),
			Burst:       1,
			CacheTTL:    analysis.DefaultCacheTTL,
		},
		Providers: ProvidersConfig{
			Gemini: GeminiConfig{
				Model:          gemini.DefaultModel,
				Rates:          gemini.DefaultRates,
				PromptMaxRunes: 20000,
			},
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults. An empty path
// returns the defaults. GEMINI_API_KEY is taken from the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, aeo.Errorf(aeo.EINVALID, "parse config %s: %v", path, err)
		}
	}
	cfg.Providers.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error for settings that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.Limits.Analyses < 0:
		return aeo.Errorf(aeo.EINVALID, "limits.analyses cannot be negative")
	case c.Limits.Cost < 0:
		return aeo.Errorf(aeo.EINVALID, "limits.cost cannot be negative")
	case c.Analysis.Timeout < 0:
		return aeo.Errorf(aeo.EINVALID, "analysis.timeout cannot be negative")
	case c.Analysis.RequestsPerSecond < 0:
		return aeo.Errorf(aeo.EINVALID, "analysis.requests_per_second cannot be negative")
	case c.Providers.Gemini.Rates.CostPerToken < 0 || c.Providers.Gemini.Rates.PerAnalysis < 0:
		return aeo.Errorf(aeo.EINVALID, "providers.gemini.rates cannot be negative")
	}
	return nil
}

// loadDotEnv loads variables from a .env file without overriding ones
// already set. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
