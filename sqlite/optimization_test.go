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

func TestOptimizationService(t *testing.T) {
	t.Parallel()

	t.Run("returns not found for unknown content", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewOptimizationService(openDB(t))

		_, err := s.FindOptimization(context.Background(), "missing")

		assert.Equal(t, aeo.ENOTFOUND, aeo.ErrorCode(err))
	})

	t.Run("saves and replaces records", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := sqlite.NewOptimizationService(openDB(t))
		at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

		rec := &aeo.OptimizationRecord{
			ContentID: "post-1",
			SEOKeywords: []aeo.SuggestionItem{
				{Name: "schema markup", Kind: aeo.KindKeyword, Confidence: 80, Provenance: aeo.ProvenanceAI, SearchIntent: "informational"},
			},
			EnhancedTags:    []aeo.EnhancedTag{{TagRef: "SEO", Weight: 0.7, Provenance: aeo.ProvenanceManual}},
			Method:          aeo.MethodAIWithManualOverride,
			LastOptimizedAt: at,
			ModelUsed:       "gemini-2.5-flash",
		}
		require.NoError(t, s.SaveOptimization(ctx, rec))

		got, err := s.FindOptimization(ctx, "post-1")
		require.NoError(t, err)
		assert.Equal(t, rec, got)

		rec.SEOKeywords = nil
		rec.Method = aeo.MethodManualOnly
		require.NoError(t, s.SaveOptimization(ctx, rec))

		got, err = s.FindOptimization(ctx, "post-1")
		require.NoError(t, err)
		assert.Empty(t, got.SEOKeywords)
		assert.Equal(t, aeo.MethodManualOnly, got.Method)
	})

	t.Run("requires a content ID", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewOptimizationService(openDB(t))

		err := s.SaveOptimization(context.Background(), &aeo.OptimizationRecord{})

		assert.Equal(t, aeo.EINVALID, aeo.ErrorCode(err))
	})
}
