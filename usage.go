package aeo

import (
	"context"
	"math"
	"time"
)

// Default monthly limits per user.
const (
	DefaultAnalysesLimit = 50
	DefaultCostLimit     = 5.00
)

// PeriodLayout formats a usage period (one calendar month).
const PeriodLayout = "2006-01"

// Period returns the usage period containing t.
func Period(t time.Time) string {
	return t.UTC().Format(PeriodLayout)
}

// Limits caps a user's monthly AI usage.
type Limits struct {
	Analyses int     `json:"analyses" yaml:"analyses"`
	Cost     float64 `json:"cost" yaml:"cost"`
}

// DefaultLimits returns the limits applied to users without an override.
func DefaultLimits() Limits {
	return Limits{Analyses: DefaultAnalysesLimit, Cost: DefaultCostLimit}
}

// UsageRecord holds a user's counters for one period. Reserved analyses and
// cost are included in AnalysesUsed and CostUsed until they are committed
// or released.
type UsageRecord struct {
	UserID        string  `json:"userId"`
	PeriodMonth   string  `json:"periodMonth"`
	AnalysesUsed  int     `json:"analysesUsed"`
	CostUsed      float64 `json:"costUsed"`
	AnalysesLimit int     `json:"analysesLimit"`
	CostLimit     float64 `json:"costLimit"`
}

// Allows reports whether one more analysis costing cost fits the limits.
func (u *UsageRecord) Allows(cost float64) bool {
	return u.AnalysesUsed+1 <= u.AnalysesLimit && RoundCost(u.CostUsed+cost) <= u.CostLimit
}

// Summary returns the read view of the record.
func (u *UsageRecord) Summary() *UsageSummary {
	var pct float64
	if u.AnalysesLimit > 0 {
		pct = math.Round(float64(u.AnalysesUsed)/float64(u.AnalysesLimit)*1000) / 10
	}
	return &UsageSummary{
		AnalysesUsed:   u.AnalysesUsed,
		AnalysesLimit:  u.AnalysesLimit,
		CostUsed:       RoundCost(u.CostUsed),
		CostLimit:      u.CostLimit,
		PercentageUsed: pct,
	}
}

// QuotaError returns the EQUOTA error describing which limit is exhausted.
func (u *UsageRecord) QuotaError() error {
	if u.AnalysesUsed+1 > u.AnalysesLimit {
		return Errorf(EQUOTA, "monthly limit reached (%d analyses)", u.AnalysesLimit)
	}
	return Errorf(EQUOTA, "monthly cost limit reached ($%.2f)", u.CostLimit)
}

// UsageSummary is the read view of a user's current usage.
type UsageSummary struct {
	AnalysesUsed   int     `json:"analysesUsed"`
	AnalysesLimit  int     `json:"analysesLimit"`
	CostUsed       float64 `json:"costUsed"`
	CostLimit      float64 `json:"costLimit"`
	PercentageUsed float64 `json:"percentageUsed"`
}

// Reservation is quota held for one in-flight AI analysis. It must be
// resolved exactly once with Commit or Release.
type Reservation struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	PeriodMonth   string    `json:"periodMonth"`
	EstimatedCost float64   `json:"estimatedCost"`
	CreatedAt     time.Time `json:"createdAt"`
}

// UsageLedger tracks per-user monthly AI usage with reservation semantics.
// CheckAndReserve happens before a provider call; Commit or Release after.
type UsageLedger interface {
	// CheckAndReserve atomically checks the user's limits and, if one more
	// analysis costing estimatedCost fits, counts it as used.
	// Returns EQUOTA without changing any counter if it does not fit.
	CheckAndReserve(ctx context.Context, userID string, estimatedCost float64) (*Reservation, error)

	// Commit finalizes a reservation, replacing its estimated cost with actualCost.
	// Returns ENOTFOUND if the reservation was already resolved.
	Commit(ctx context.Context, r *Reservation, actualCost float64) error

	// Release refunds a reservation's analysis and estimated cost.
	// Returns ENOTFOUND if the reservation was already resolved.
	Release(ctx context.Context, r *Reservation) error

	// Usage returns the user's usage for the current period.
	Usage(ctx context.Context, userID string) (*UsageSummary, error)

	// SetLimits overrides the default limits for a user.
	SetLimits(ctx context.Context, userID string, limits Limits) error
}

// UserLimiter throttles requests per user.
type UserLimiter interface {
	// Wait blocks until userID may make another request.
	// Returns an error if ctx is canceled first.
	Wait(ctx context.Context, userID string) error
}
