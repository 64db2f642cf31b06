// Package inmem provides process-local implementations of the aeo storage
// interfaces. State is lost when the process exits.
package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/aeo"
	"github.com/google/uuid"
)

var _ aeo.UsageLedger = (*UsageLedger)(nil)

type usageKey struct {
	userID string
	period string
}

// UsageLedger is a mutex guarded aeo.UsageLedger.
type UsageLedger struct {
	mu           sync.Mutex
	defaults     aeo.Limits
	limits       map[string]aeo.Limits
	usage        map[usageKey]*aeo.UsageRecord
	reservations map[string]*aeo.Reservation

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewUsageLedger creates a ledger applying defaults to users without an override.
func NewUsageLedger(defaults aeo.Limits) *UsageLedger {
	return &UsageLedger{
		defaults:     defaults,
		limits:       make(map[string]aeo.Limits),
		usage:        make(map[usageKey]*aeo.UsageRecord),
		reservations: make(map[string]*aeo.Reservation),
		Now:          time.Now,
	}
}

// CheckAndReserve counts one analysis costing estimatedCost against the
// user's current period if it fits the limits.
func (l *UsageLedger) CheckAndReserve(ctx context.Context, userID string, estimatedCost float64) (*aeo.Reservation, error) {
	if userID == "" {
		return nil, aeo.Errorf(aeo.EINVALID, "user ID required")
	}
	if estimatedCost < 0 {
		return nil, aeo.Errorf(aeo.EINVALID, "estimated cost must not be negative")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.Now().UTC()
	rec := l.record(userID, aeo.Period(now))
	if !rec.Allows(estimatedCost) {
		return nil, rec.QuotaError()
	}
	rec.AnalysesUsed++
	rec.CostUsed = aeo.RoundCost(rec.CostUsed + estimatedCost)

	r := &aeo.Reservation{
		ID:            uuid.NewString(),
		UserID:        userID,
		PeriodMonth:   rec.PeriodMonth,
		EstimatedCost: estimatedCost,
		CreatedAt:     now,
	}
	l.reservations[r.ID] = r
	return r, nil
}

// Commit replaces the reservation's estimate with actualCost.
func (l *UsageLedger) Commit(ctx context.Context, r *aeo.Reservation, actualCost float64) error {
	if actualCost < 0 {
		return aeo.Errorf(aeo.EINVALID, "actual cost must not be negative")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	held, err := l.take(r)
	if err != nil {
		return err
	}
	rec := l.record(held.UserID, held.PeriodMonth)
	rec.CostUsed = max(0, aeo.RoundCost(rec.CostUsed-held.EstimatedCost+actualCost))
	return nil
}

// Release refunds the reservation's analysis and estimated cost.
func (l *UsageLedger) Release(ctx context.Context, r *aeo.Reservation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	held, err := l.take(r)
	if err != nil {
		return err
	}
	l.refund(held)
	return nil
}

// ReleaseStale releases reservations created before now minus olderThan
// and returns how many were released.
func (l *UsageLedger) ReleaseStale(ctx context.Context, olderThan time.Duration) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.Now().UTC().Add(-olderThan)
	var n int
	for id, r := range l.reservations {
		if r.CreatedAt.Before(cutoff) {
			delete(l.reservations, id)
			l.refund(r)
			n++
		}
	}
	return n, nil
}

// Usage returns the user's usage for the current period.
func (l *UsageLedger) Usage(ctx context.Context, userID string) (*aeo.UsageSummary, error) {
	if userID == "" {
		return nil, aeo.Errorf(aeo.EINVALID, "user ID required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.record(userID, aeo.Period(l.Now())).Summary(), nil
}

// SetLimits overrides the user's limits, including the current period.
func (l *UsageLedger) SetLimits(ctx context.Context, userID string, limits aeo.Limits) error {
	if userID == "" {
		return aeo.Errorf(aeo.EINVALID, "user ID required")
	}
	if limits.Analyses < 0 || limits.Cost < 0 {
		return aeo.Errorf(aeo.EINVALID, "limits must not be negative")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.limits[userID] = limits
	rec := l.record(userID, aeo.Period(l.Now()))
	rec.AnalysesLimit = limits.Analyses
	rec.CostLimit = limits.Cost
	return nil
}

// record returns the usage record for a user and period, creating it with
// the user's limits. Callers must hold l.mu.
func (l *UsageLedger) record(userID, period string) *aeo.UsageRecord {
	key := usageKey{userID: userID, period: period}
	if rec, ok := l.usage[key]; ok {
		return rec
	}
	limits, ok := l.limits[userID]
	if !ok {
		limits = l.defaults
	}
	rec := &aeo.UsageRecord{
		UserID:        userID,
		PeriodMonth:   period,
		AnalysesLimit: limits.Analyses,
		CostLimit:     limits.Cost,
	}
	l.usage[key] = rec
	return rec
}

// take removes and returns a pending reservation. Callers must hold l.mu.
func (l *UsageLedger) take(r *aeo.Reservation) (*aeo.Reservation, error) {
	if r == nil {
		return nil, aeo.Errorf(aeo.EINVALID, "reservation required")
	}
	held, ok := l.reservations[r.ID]
	if !ok {
		return nil, aeo.Errorf(aeo.ENOTFOUND, "reservation %q not found", r.ID)
	}
	delete(l.reservations, r.ID)
	return held, nil
}

func (l *UsageLedger) refund(r *aeo.Reservation) {
	rec := l.record(r.UserID, r.PeriodMonth)
	rec.AnalysesUsed = max(0, rec.AnalysesUsed-1)
	rec.CostUsed = max(0, aeo.RoundCost(rec.CostUsed-r.EstimatedCost))
}
