package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/aeo"
	"github.com/fwojciec/aeo/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisCache(t *testing.T) {
	t.Parallel()

	t.Run("serves entries until they expire", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		c := sqlite.NewAnalysisCache(openDB(t))
		c.Now = func() time.Time { return now }

		got, err := c.GetAnalysis(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, got)

		quality := 72
		want := &aeo.ContentAnalysisResult{
			Suggestions: aeo.Suggestions{
				Tags: []aeo.SuggestionItem{{Name: "Go", Kind: aeo.KindTag, Confidence: 90, Provenance: aeo.ProvenanceAI}},
			},
			ContentType:        "tutorial",
			ReadingTimeMinutes: 3,
			Metadata:           aeo.AnalysisMetadata{Provider: "gemini", Cost: 0.004, QualityScore: &quality, AnalyzedAt: now},
		}
		require.NoError(t, c.PutAnalysis(ctx, "k", want, time.Hour))

		got, err = c.GetAnalysis(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, want, got)

		now = now.Add(2 * time.Hour)
		got, err = c.GetAnalysis(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, got)

		n, err := c.Purge(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
