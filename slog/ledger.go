package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/aeo"
)

// Ensure LoggingLedger implements aeo.UsageLedger.
var _ aeo.UsageLedger = (*LoggingLedger)(nil)

// LoggingLedger wraps a UsageLedger with debug logging of every
// reservation transition.
type LoggingLedger struct {
	next   aeo.UsageLedger
	logger *slog.Logger
}

// NewLoggingLedger creates a new LoggingLedger.
func NewLoggingLedger(next aeo.UsageLedger, logger *slog.Logger) *LoggingLedger {
	return &LoggingLedger{next: next, logger: logger}
}

func (l *LoggingLedger) CheckAndReserve(ctx context.Context, userID string, estimatedCost float64) (r *aeo.Reservation, err error) {
	defer func(begin time.Time) {
		var id string
		if r != nil {
			id = r.ID
		}
		l.logger.Debug("usage reserve",
			"user", userID,
			"estimate", estimatedCost,
			"reservation", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.CheckAndReserve(ctx, userID, estimatedCost)
}

func (l *LoggingLedger) Commit(ctx context.Context, r *aeo.Reservation, actualCost float64) (err error) {
	defer func(begin time.Time) {
		l.logger.Debug("usage commit",
			"reservation", reservationID(r),
			"actual", actualCost,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.Commit(ctx, r, actualCost)
}

func (l *LoggingLedger) Release(ctx context.Context, r *aeo.Reservation) (err error) {
	defer func(begin time.Time) {
		l.logger.Debug("usage release",
			"reservation", reservationID(r),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.Release(ctx, r)
}

func (l *LoggingLedger) Usage(ctx context.Context, userID string) (*aeo.UsageSummary, error) {
	return l.next.Usage(ctx, userID)
}

func (l *LoggingLedger) SetLimits(ctx context.Context, userID string, limits aeo.Limits) (err error) {
	defer func() {
		l.logger.Info("usage limits",
			"user", userID,
			"analyses", limits.Analyses,
			"cost", limits.Cost,
			"err", err,
		)
	}()
	return l.next.SetLimits(ctx, userID, limits)
}

func reservationID(r *aeo.Reservation) string {
	if r == nil {
		return ""
	}
	return r.ID
}
