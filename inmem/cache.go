package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/aeo"
)

var _ aeo.AnalysisCache = (*AnalysisCache)(nil)

type cacheEntry struct {
	result    aeo.ContentAnalysisResult
	expiresAt time.Time
}

// AnalysisCache holds analysis results until they expire.
type AnalysisCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewAnalysisCache creates an empty AnalysisCache.
func NewAnalysisCache() *AnalysisCache {
	return &AnalysisCache{entries: make(map[string]cacheEntry), Now: time.Now}
}

// GetAnalysis returns a copy of the cached result, or nil if absent or expired.
func (c *AnalysisCache) GetAnalysis(ctx context.Context, key string) (*aeo.ContentAnalysisResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if !c.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, nil
	}
	result := e.result
	return &result, nil
}

// PutAnalysis stores a copy of result for ttl.
func (c *AnalysisCache) PutAnalysis(ctx context.Context, key string, result *aeo.ContentAnalysisResult, ttl time.Duration) error {
	if result == nil {
		return aeo.Errorf(aeo.EINVALID, "result required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{result: *result, expiresAt: c.Now().Add(ttl)}
	return nil
}
