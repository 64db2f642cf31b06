package inmem

import (
	"context"
	"sync"

	"github.com/fwojciec/aeo"
)

var _ aeo.OptimizationService = (*OptimizationService)(nil)

// OptimizationService keeps optimization records in memory.
type OptimizationService struct {
	mu      sync.RWMutex
	records map[string]aeo.OptimizationRecord
}

// NewOptimizationService creates an empty OptimizationService.
func NewOptimizationService() *OptimizationService {
	return &OptimizationService{records: make(map[string]aeo.OptimizationRecord)}
}

// FindOptimization returns a copy of the stored record.
func (s *OptimizationService) FindOptimization(ctx context.Context, contentID string) (*aeo.OptimizationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[contentID]
	if !ok {
		return nil, aeo.Errorf(aeo.ENOTFOUND, "optimization for %q not found", contentID)
	}
	return clone(rec), nil
}

// SaveOptimization stores a copy of rec.
func (s *OptimizationService) SaveOptimization(ctx context.Context, rec *aeo.OptimizationRecord) error {
	if rec == nil || rec.ContentID == "" {
		return aeo.Errorf(aeo.EINVALID, "content ID required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ContentID] = *clone(*rec)
	return nil
}

func clone(rec aeo.OptimizationRecord) *aeo.OptimizationRecord {
	rec.SEOKeywords = append([]aeo.SuggestionItem(nil), rec.SEOKeywords...)
	rec.EnhancedTags = append([]aeo.EnhancedTag(nil), rec.EnhancedTags...)
	return &rec
}
