package mock

import (
	"context"

	"github.com/fwojciec/aeo"
)

var _ aeo.OptimizationService = (*OptimizationService)(nil)

// OptimizationService is a mock implementation of aeo.OptimizationService.
type OptimizationService struct {
	FindOptimizationFn func(ctx context.Context, contentID string) (*aeo.OptimizationRecord, error)
	SaveOptimizationFn func(ctx context.Context, rec *aeo.OptimizationRecord) error
}

func (s *OptimizationService) FindOptimization(ctx context.Context, contentID string) (*aeo.OptimizationRecord, error) {
	return s.FindOptimizationFn(ctx, contentID)
}

func (s *OptimizationService) SaveOptimization(ctx context.Context, rec *aeo.OptimizationRecord) error {
	return s.SaveOptimizationFn(ctx, rec)
}
