package mock

import (
	"context"
	"time"

	"github.com/fwojciec/aeo"
)

var _ aeo.AnalysisCache = (*AnalysisCache)(nil)

// AnalysisCache is a mock implementation of aeo.AnalysisCache.
type AnalysisCache struct {
	GetAnalysisFn func(ctx context.Context, key string) (*aeo.ContentAnalysisResult, error)
	PutAnalysisFn func(ctx context.Context, key string, result *aeo.ContentAnalysisResult, ttl time.Duration) error
}

func (c *AnalysisCache) GetAnalysis(ctx context.Context, key string) (*aeo.ContentAnalysisResult, error) {
	return c.GetAnalysisFn(ctx, key)
}

func (c *AnalysisCache) PutAnalysis(ctx context.Context, key string, result *aeo.ContentAnalysisResult, ttl time.Duration) error {
	return c.PutAnalysisFn(ctx, key, result, ttl)
}
