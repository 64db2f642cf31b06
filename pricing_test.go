package aeo_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/aeo"
	"github.com/stretchr/testify/assert"
)

func TestEstimateCost(t *testing.T) {
	t.Parallel()

	t.Run("free rates cost nothing", func(t *testing.T) {
		t.Parallel()

		assert.Zero(t, aeo.EstimateCost("Title", strings.Repeat("word ", 1000), aeo.RateTable{}))
	})

	t.Run("scales with words", func(t *testing.T) {
		t.Parallel()

		rates := aeo.RateTable{CostPerToken: 0.0001, TokensPerWord: 2}

		got := aeo.EstimateCost("two words", strings.Repeat("word ", 998), rates)

		assert.InDelta(t, 0.2, got, 1e-9)
	})

	t.Run("defaults tokens per word and adds the flat fee", func(t *testing.T) {
		t.Parallel()

		rates := aeo.RateTable{CostPerToken: 0.001, PerAnalysis: 0.05}

		got := aeo.EstimateCost("", strings.Repeat("word ", 100), rates)

		assert.InDelta(t, 0.18, got, 1e-9)
	})
}

func TestTokenCost(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.01, aeo.TokenCost(1000, aeo.RateTable{CostPerToken: 0.00001}), 1e-9)
	assert.InDelta(t, 0.001, aeo.TokenCost(1234, aeo.RateTable{CostPerToken: 0.000001}), 1e-9)
}

func TestRateTable_IsFree(t *testing.T) {
	t.Parallel()

	assert.True(t, aeo.RateTable{TokensPerWord: 1.3}.IsFree())
	assert.False(t, aeo.RateTable{PerAnalysis: 0.01}.IsFree())
}
