package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/aeo"
)

// Compile-time interface verification.
var _ aeo.OptimizationService = (*OptimizationService)(nil)

// OptimizationService implements aeo.OptimizationService using SQLite.
// Keyword and tag lists are stored as JSON columns.
type OptimizationService struct {
	db *DB
}

// NewOptimizationService creates a new OptimizationService.
func NewOptimizationService(db *DB) *OptimizationService {
	return &OptimizationService{db: db}
}

// FindOptimization retrieves the record for a content item.
func (s *OptimizationService) FindOptimization(ctx context.Context, contentID string) (*aeo.OptimizationRecord, error) {
	var rec aeo.OptimizationRecord
	var keywords, tags, method, lastOptimizedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT content_id, seo_keywords, enhanced_tags, method, last_optimized_at, model_used
		FROM optimizations
		WHERE content_id = ?
	`, contentID).Scan(&rec.ContentID, &keywords, &tags, &method, &lastOptimizedAt, &rec.ModelUsed)
	if err == sql.ErrNoRows {
		return nil, aeo.Errorf(aeo.ENOTFOUND, "optimization for %q not found", contentID)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(keywords), &rec.SEOKeywords); err != nil {
		return nil, fmt.Errorf("failed to decode seo_keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &rec.EnhancedTags); err != nil {
		return nil, fmt.Errorf("failed to decode enhanced_tags: %w", err)
	}
	rec.Method = aeo.OptimizationMethod(method)
	rec.LastOptimizedAt, err = parseRFC3339(lastOptimizedAt, "last_optimized_at")
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// SaveOptimization creates or replaces the record for rec.ContentID.
func (s *OptimizationService) SaveOptimization(ctx context.Context, rec *aeo.OptimizationRecord) error {
	if rec == nil || rec.ContentID == "" {
		return aeo.Errorf(aeo.EINVALID, "content ID required")
	}

	keywords, err := json.Marshal(nonNil(rec.SEOKeywords))
	if err != nil {
		return err
	}
	tags, err := json.Marshal(nonNil(rec.EnhancedTags))
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO optimizations (content_id, seo_keywords, enhanced_tags, method, last_optimized_at, model_used)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (content_id) DO UPDATE SET
			seo_keywords = excluded.seo_keywords,
			enhanced_tags = excluded.enhanced_tags,
			method = excluded.method,
			last_optimized_at = excluded.last_optimized_at,
			model_used = excluded.model_used
	`, rec.ContentID, string(keywords), string(tags), string(rec.Method),
		formatTime(rec.LastOptimizedAt), rec.ModelUsed)

	return err
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
