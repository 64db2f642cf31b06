package main_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/aeo"
	main "github.com/fwojciec/aeo/cmd/aeo"
	"github.com/fwojciec/aeo/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("returns defaults without a file", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")

		cfg, err := main.LoadConfig("")

		require.NoError(t, err)
		assert.Equal(t, aeo.DefaultAnalysesLimit, cfg.Limits.Analyses)
		assert.InDelta(t, aeo.DefaultCostLimit, cfg.Limits.Cost, 1e-9)
		assert.Equal(t, 30*time.Second, cfg.Analysis.Timeout)
		assert.Equal(t, 7*24*time.Hour, cfg.Analysis.CacheTTL)
		assert.Equal(t, gemini.DefaultModel, cfg.Providers.Gemini.Model)
		assert.InDelta(t, 0.000001, cfg.Providers.Gemini.Rates.CostPerToken, 1e-12)
		assert.Equal(t, aeo.DefaultLanguage, cfg.Site.Language)
		assert.Empty(t, cfg.Providers.Gemini.APIKey)
	})

	t.Run("overrides defaults from YAML", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "secret")
		path := writeFile(t, t.TempDir(), "aeo.yaml", `
site:
  origin: https://example.com
  publisher_name: Example
  language: de
limits:
  analyses: 100
analysis:
  timeout: 45s
  retry_delays: [500ms]
  requests_per_second: 2
  known_tags: [Go, Kubernetes]
providers:
  gemini:
    model: gemini-2.0-flash
    rates:
      cost_per_token: 0.000002
`)

		cfg, err := main.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", cfg.Site.Origin)
		assert.Equal(t, "de", cfg.Site.Language)
		assert.Equal(t, 100, cfg.Limits.Analyses)
		assert.InDelta(t, aeo.DefaultCostLimit, cfg.Limits.Cost, 1e-9)
		assert.Equal(t, 45*time.Second, cfg.Analysis.Timeout)
		assert.Equal(t, []time.Duration{500 * time.Millisecond}, cfg.Analysis.RetryDelays)
		assert.InDelta(t, 2.0, cfg.Analysis.RequestsPerSecond, 1e-9)
		assert.Equal(t, []string{"Go", "Kubernetes"}, cfg.Analysis.KnownTags)
		assert.Equal(t, "gemini-2.0-flash", cfg.Providers.Gemini.Model)
		assert.InDelta(t, 0.000002, cfg.Providers.Gemini.Rates.CostPerToken, 1e-12)
		assert.Equal(t, "secret", cfg.Providers.Gemini.APIKey)
	})

	t.Run("accepts an empty file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "aeo.yaml", "")

		cfg, err := main.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, aeo.DefaultAnalysesLimit, cfg.Limits.Analyses)
	})

	t.Run("rejects negative limits", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "aeo.yaml", "limits:\n  cost: -1\n")

		_, err := main.LoadConfig(path)

		assert.Equal(t, aeo.EINVALID, aeo.ErrorCode(err))
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "aeo.yaml", "limits: [\n")

		_, err := main.LoadConfig(path)

		assert.Equal(t, aeo.EINVALID, aeo.ErrorCode(err))
	})

	t.Run("fails on missing file", func(t *testing.T) {
		_, err := main.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		require.Error(t, err)
	})
}
