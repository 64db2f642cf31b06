package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fwojciec/aeo"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ aeo.UsageLedger = (*UsageLedger)(nil)

// UsageLedger implements aeo.UsageLedger using SQLite. Reservations are
// rows in the reservations table so that they survive a crashed process
// and can be released later with ReleaseStale.
type UsageLedger struct {
	db       *DB
	defaults aeo.Limits

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewUsageLedger creates a new UsageLedger applying defaults to users
// without a limits override.
func NewUsageLedger(db *DB, defaults aeo.Limits) *UsageLedger {
	return &UsageLedger{db: db, defaults: defaults, Now: time.Now}
}

// CheckAndReserve atomically counts one analysis against the user's current
// period. The check and increment are a single conditional UPDATE, so
// concurrent callers can never push usage past the limits.
func (l *UsageLedger) CheckAndReserve(ctx context.Context, userID string, estimatedCost float64) (*aeo.Reservation, error) {
	if userID == "" {
		return nil, aeo.Errorf(aeo.EINVALID, "user ID required")
	}
	if estimatedCost < 0 {
		return nil, aeo.Errorf(aeo.EINVALID, "estimated cost must not be negative")
	}

	now := l.Now().UTC()
	period := aeo.Period(now)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := l.ensureRecord(ctx, tx, userID, period); err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE usage
		SET analyses_used = analyses_used + 1,
			cost_used = ROUND(cost_used + ?, 3)
		WHERE user_id = ? AND period_month = ?
			AND analyses_used + 1 <= analyses_limit
			AND ROUND(cost_used + ?, 3) <= cost_limit
	`, estimatedCost, userID, period, estimatedCost)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		rec, err := findRecord(ctx, tx, userID, period)
		if err != nil {
			return nil, err
		}
		return nil, rec.QuotaError()
	}

	r := &aeo.Reservation{
		ID:            uuid.New().String(),
		UserID:        userID,
		PeriodMonth:   period,
		EstimatedCost: estimatedCost,
		CreatedAt:     now,
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reservations (id, user_id, period_month, estimated_cost, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, r.ID, r.UserID, r.PeriodMonth, r.EstimatedCost, formatTime(r.CreatedAt)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r, nil
}

// Commit replaces the reservation's estimated cost with actualCost.
func (l *UsageLedger) Commit(ctx context.Context, r *aeo.Reservation, actualCost float64) error {
	if actualCost < 0 {
		return aeo.Errorf(aeo.EINVALID, "actual cost must not be negative")
	}
	return l.resolve(ctx, r, func(tx *sql.Tx, held *aeo.Reservation) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE usage
			SET cost_used = MAX(0, ROUND(cost_used - ? + ?, 3))
			WHERE user_id = ? AND period_month = ?
		`, held.EstimatedCost, actualCost, held.UserID, held.PeriodMonth)
		return err
	})
}

// Release refunds the reservation's analysis and estimated cost.
func (l *UsageLedger) Release(ctx context.Context, r *aeo.Reservation) error {
	return l.resolve(ctx, r, func(tx *sql.Tx, held *aeo.Reservation) error {
		return refund(ctx, tx, held)
	})
}

// ReleaseStale releases reservations older than olderThan, which are left
// behind by processes that died between reserving and resolving.
func (l *UsageLedger) ReleaseStale(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := formatTime(l.Now().Add(-olderThan))

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, user_id, period_month, estimated_cost
		FROM reservations
		WHERE created_at < ?
	`, cutoff)
	if err != nil {
		return 0, err
	}
	var stale []*aeo.Reservation
	for rows.Next() {
		var r aeo.Reservation
		if err := rows.Scan(&r.ID, &r.UserID, &r.PeriodMonth, &r.EstimatedCost); err != nil {
			rows.Close()
			return 0, err
		}
		stale = append(stale, &r)
	}
	if err := rows.Close(); err != nil {
		return 0, err
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, r := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, r.ID); err != nil {
			return 0, err
		}
		if err := refund(ctx, tx, r); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(stale), nil
}

// Usage returns the user's usage for the current period.
func (l *UsageLedger) Usage(ctx context.Context, userID string) (*aeo.UsageSummary, error) {
	if userID == "" {
		return nil, aeo.Errorf(aeo.EINVALID, "user ID required")
	}

	period := aeo.Period(l.Now())
	rec, err := findRecord(ctx, l.db.db, userID, period)
	if aeo.ErrorCode(err) == aeo.ENOTFOUND {
		limits, err := l.limits(ctx, l.db.db, userID)
		if err != nil {
			return nil, err
		}
		rec = &aeo.UsageRecord{
			UserID:        userID,
			PeriodMonth:   period,
			AnalysesLimit: limits.Analyses,
			CostLimit:     limits.Cost,
		}
	} else if err != nil {
		return nil, err
	}
	return rec.Summary(), nil
}

// SetLimits stores a limits override for the user and applies it to the
// current period.
func (l *UsageLedger) SetLimits(ctx context.Context, userID string, limits aeo.Limits) error {
	if userID == "" {
		return aeo.Errorf(aeo.EINVALID, "user ID required")
	}
	if limits.Analyses < 0 || limits.Cost < 0 {
		return aeo.Errorf(aeo.EINVALID, "limits must not be negative")
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO usage_limits (user_id, analyses_limit, cost_limit)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			analyses_limit = excluded.analyses_limit,
			cost_limit = excluded.cost_limit
	`, userID, limits.Analyses, limits.Cost); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE usage SET analyses_limit = ?, cost_limit = ?
		WHERE user_id = ? AND period_month = ?
	`, limits.Analyses, limits.Cost, userID, aeo.Period(l.Now())); err != nil {
		return err
	}

	return tx.Commit()
}

// resolve deletes a pending reservation and applies fn within one transaction.
func (l *UsageLedger) resolve(ctx context.Context, r *aeo.Reservation, fn func(*sql.Tx, *aeo.Reservation) error) error {
	if r == nil {
		return aeo.Errorf(aeo.EINVALID, "reservation required")
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var held aeo.Reservation
	err = tx.QueryRowContext(ctx, `
		SELECT id, user_id, period_month, estimated_cost
		FROM reservations
		WHERE id = ?
	`, r.ID).Scan(&held.ID, &held.UserID, &held.PeriodMonth, &held.EstimatedCost)
	if err == sql.ErrNoRows {
		return aeo.Errorf(aeo.ENOTFOUND, "reservation %q not found", r.ID)
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, held.ID); err != nil {
		return err
	}
	if err := fn(tx, &held); err != nil {
		return err
	}

	return tx.Commit()
}

// ensureRecord creates the user's row for period with their current limits.
func (l *UsageLedger) ensureRecord(ctx context.Context, tx *sql.Tx, userID, period string) error {
	limits, err := l.limits(ctx, tx, userID)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO usage (user_id, period_month, analyses_limit, cost_limit)
		VALUES (?, ?, ?, ?)
	`, userID, period, limits.Analyses, limits.Cost)
	return err
}

func (l *UsageLedger) limits(ctx context.Context, q querier, userID string) (aeo.Limits, error) {
	var limits aeo.Limits
	err := q.QueryRowContext(ctx, `
		SELECT analyses_limit, cost_limit FROM usage_limits WHERE user_id = ?
	`, userID).Scan(&limits.Analyses, &limits.Cost)
	if err == sql.ErrNoRows {
		return l.defaults, nil
	}
	if err != nil {
		return aeo.Limits{}, fmt.Errorf("failed to read limits: %w", err)
	}
	return limits, nil
}

func refund(ctx context.Context, tx *sql.Tx, r *aeo.Reservation) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE usage
		SET analyses_used = MAX(0, analyses_used - 1),
			cost_used = MAX(0, ROUND(cost_used - ?, 3))
		WHERE user_id = ? AND period_month = ?
	`, r.EstimatedCost, r.UserID, r.PeriodMonth)
	return err
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func findRecord(ctx context.Context, q querier, userID, period string) (*aeo.UsageRecord, error) {
	rec := aeo.UsageRecord{UserID: userID, PeriodMonth: period}
	err := q.QueryRowContext(ctx, `
		SELECT analyses_used, cost_used, analyses_limit, cost_limit
		FROM usage
		WHERE user_id = ? AND period_month = ?
	`, userID, period).Scan(&rec.AnalysesUsed, &rec.CostUsed, &rec.AnalysesLimit, &rec.CostLimit)
	if err == sql.ErrNoRows {
		return nil, aeo.Errorf(aeo.ENOTFOUND, "usage not found")
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
