package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/aeo"
)

// Compile-time interface verification.
var _ aeo.AnalysisCache = (*AnalysisCache)(nil)

// AnalysisCache implements aeo.AnalysisCache using SQLite.
type AnalysisCache struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewAnalysisCache creates a new AnalysisCache.
func NewAnalysisCache(db *DB) *AnalysisCache {
	return &AnalysisCache{db: db, Now: time.Now}
}

// GetAnalysis returns the cached result for key, or nil if absent or expired.
func (c *AnalysisCache) GetAnalysis(ctx context.Context, key string) (*aeo.ContentAnalysisResult, error) {
	var raw string
	err := c.db.QueryRowContext(ctx, `
		SELECT result FROM analysis_cache WHERE key = ? AND expires_at > ?
	`, key, formatTime(c.Now())).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var result aeo.ContentAnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to decode cached analysis: %w", err)
	}
	return &result, nil
}

// PutAnalysis stores result under key for ttl.
func (c *AnalysisCache) PutAnalysis(ctx context.Context, key string, result *aeo.ContentAnalysisResult, ttl time.Duration) error {
	if result == nil {
		return aeo.Errorf(aeo.EINVALID, "result required")
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO analysis_cache (key, result, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET result = excluded.result, expires_at = excluded.expires_at
	`, key, string(raw), formatTime(c.Now().Add(ttl)))
	return err
}

// Purge deletes expired entries and returns how many were removed.
func (c *AnalysisCache) Purge(ctx context.Context) (int, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE expires_at <= ?`, formatTime(c.Now()))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
