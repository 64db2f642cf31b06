package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/aeo"
	"github.com/fwojciec/aeo/mock"
	aeoslog "github.com/fwojciec/aeo/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingProvider_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("logs suggestion counts and cost", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SuggestionProvider{
			AnalyzeFn: func(ctx context.Context, title, content string, opts aeo.AnalyzeOptions) (*aeo.ContentAnalysisResult, error) {
				r := &aeo.ContentAnalysisResult{}
				r.Suggestions.Keywords = []aeo.SuggestionItem{{Name: "go", Kind: aeo.KindKeyword}}
				r.Metadata.Cost = 0.002
				return r, nil
			},
		}

		p := aeoslog.NewLoggingProvider(inner, "gemini", logger)
		result, err := p.Analyze(context.Background(), "Hello", "body", aeo.AnalyzeOptions{})

		require.NoError(t, err)
		require.NotNil(t, result)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "provider=gemini")
		assert.Contains(t, output, "title=Hello")
		assert.Contains(t, output, "keywords=1")
		assert.Contains(t, output, "cost=0.002")
	})

	t.Run("logs error code at warn level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SuggestionProvider{
			AnalyzeFn: func(ctx context.Context, title, content string, opts aeo.AnalyzeOptions) (*aeo.ContentAnalysisResult, error) {
				return nil, aeo.Errorf(aeo.EPROVIDER, "upstream failed")
			},
		}

		p := aeoslog.NewLoggingProvider(inner, "gemini", logger)
		_, err := p.Analyze(context.Background(), "Hello", "body", aeo.AnalyzeOptions{})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "code=provider_error")
		assert.NotContains(t, output, "keywords=")
	})
}
