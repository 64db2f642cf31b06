package mock

import (
	"context"

	"github.com/fwojciec/aeo"
)

var _ aeo.UsageLedger = (*UsageLedger)(nil)

// UsageLedger is a mock implementation of aeo.UsageLedger.
type UsageLedger struct {
	CheckAndReserveFn func(ctx context.Context, userID string, estimatedCost float64) (*aeo.Reservation, error)
	CommitFn          func(ctx context.Context, r *aeo.Reservation, actualCost float64) error
	ReleaseFn         func(ctx context.Context, r *aeo.Reservation) error
	UsageFn           func(ctx context.Context, userID string) (*aeo.UsageSummary, error)
	SetLimitsFn       func(ctx context.Context, userID string, limits aeo.Limits) error
}

func (l *UsageLedger) CheckAndReserve(ctx context.Context, userID string, estimatedCost float64) (*aeo.Reservation, error) {
	return l.CheckAndReserveFn(ctx, userID, estimatedCost)
}

func (l *UsageLedger) Commit(ctx context.Context, r *aeo.Reservation, actualCost float64) error {
	return l.CommitFn(ctx, r, actualCost)
}

func (l *UsageLedger) Release(ctx context.Context, r *aeo.Reservation) error {
	return l.ReleaseFn(ctx, r)
}

func (l *UsageLedger) Usage(ctx context.Context, userID string) (*aeo.UsageSummary, error) {
	return l.UsageFn(ctx, userID)
}

func (l *UsageLedger) SetLimits(ctx context.Context, userID string, limits aeo.Limits) error {
	return l.SetLimitsFn(ctx, userID, limits)
}

var _ aeo.UserLimiter = (*UserLimiter)(nil)

// UserLimiter is a mock implementation of aeo.UserLimiter.
type UserLimiter struct {
	WaitFn func(ctx context.Context, userID string) error
}

func (l *UserLimiter) Wait(ctx context.Context, userID string) error {
	return l.WaitFn(ctx, userID)
}
