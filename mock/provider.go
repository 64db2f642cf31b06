package mock

import (
	"context"

	"github.com/fwojciec/aeo"
)

var _ aeo.SuggestionProvider = (*SuggestionProvider)(nil)

// SuggestionProvider is a mock implementation of aeo.SuggestionProvider.
type SuggestionProvider struct {
	AnalyzeFn func(ctx context.Context, title, content string, opts aeo.AnalyzeOptions) (*aeo.ContentAnalysisResult, error)
}

func (p *SuggestionProvider) Analyze(ctx context.Context, title, content string, opts aeo.AnalyzeOptions) (*aeo.ContentAnalysisResult, error) {
	return p.AnalyzeFn(ctx, title, content, opts)
}
