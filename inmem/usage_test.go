package inmem_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/aeo"
	"github.com/fwojciec/aeo/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger(limits aeo.Limits) (*inmem.UsageLedger, *time.Time) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	l := inmem.NewUsageLedger(limits)
	l.Now = func() time.Time { return now }
	return l, &now
}

func TestUsageLedger_CheckAndReserve(t *testing.T) {
	t.Parallel()

	t.Run("counts the reservation immediately", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		l, _ := newLedger(aeo.DefaultLimits())

		r, err := l.CheckAndReserve(ctx, "alice", 0.25)
		require.NoError(t, err)
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, "2025-03", r.PeriodMonth)

		usage, err := l.Usage(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, usage.AnalysesUsed)
		assert.InDelta(t, 0.25, usage.CostUsed, 1e-9)
		assert.Equal(t, 50, usage.AnalysesLimit)
		assert.InDelta(t, 5.0, usage.CostLimit, 1e-9)
		assert.InDelta(t, 2.0, usage.PercentageUsed, 1e-9)
	})

	t.Run("fails with quota exceeded at the analysis limit", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		l, _ := newLedger(aeo.Limits{Analyses: 1, Cost: 5})

		_, err := l.CheckAndReserve(ctx, "alice", 0.1)
		require.NoError(t, err)

		_, err = l.CheckAndReserve(ctx, "alice", 0.1)
		assert.Equal(t, aeo.EQUOTA, aeo.ErrorCode(err))

		usage, err := l.Usage(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, usage.AnalysesUsed)
		assert.InDelta(t, 0.1, usage.CostUsed, 1e-9)
	})

	t.Run("fails with quota exceeded when cost would pass the limit", func(t *testing.T) {
		t.Parallel()

		l, _ := newLedger(aeo.Limits{Analyses: 10, Cost: 1})

		_, err := l.CheckAndReserve(context.Background(), "alice", 1.5)

		assert.Equal(t, aeo.EQUOTA, aeo.ErrorCode(err))
		assert.Contains(t, aeo.ErrorMessage(err), "cost")
	})

	t.Run("users are independent", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		l, _ := newLedger(aeo.Limits{Analyses: 1, Cost: 5})

		_, err := l.CheckAndReserve(ctx, "alice", 0)
		require.NoError(t, err)
		_, err = l.CheckAndReserve(ctx, "bob", 0)
		require.NoError(t, err)
	})

	t.Run("new period starts from zero", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		l, now := newLedger(aeo.Limits{Analyses: 1, Cost: 5})

		_, err := l.CheckAndReserve(ctx, "alice", 0.1)
		require.NoError(t, err)

		*now = now.AddDate(0, 1, 0)
		_, err = l.CheckAndReserve(ctx, "alice", 0.1)
		require.NoError(t, err)
	})

	t.Run("never over-reserves under concurrency", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		l, _ := newLedger(aeo.Limits{Analyses: 10, Cost: 100})

		var wg sync.WaitGroup
		var granted atomic.Int32
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := l.CheckAndReserve(ctx, "alice", 0.01); err == nil {
					granted.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(10), granted.Load())
		usage, err := l.Usage(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 10, usage.AnalysesUsed)
	})

	t.Run("rejects negative estimates", func(t *testing.T) {
		t.Parallel()

		l, _ := newLedger(aeo.DefaultLimits())

		_, err := l.CheckAndReserve(context.Background(), "alice", -1)

		assert.Equal(t, aeo.EINVALID, aeo.ErrorCode(err))
	})
}

func TestUsageLedger_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("commit replaces the estimate with the actual cost", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		l, _ := newLedger(aeo.DefaultLimits())

		r, err := l.CheckAndReserve(ctx, "alice", 0.5)
		require.NoError(t, err)
		require.NoError(t, l.Commit(ctx, r, 0.2))

		usage, err := l.Usage(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, usage.AnalysesUsed)
		assert.InDelta(t, 0.2, usage.CostUsed, 1e-9)
	})

	t.Run("release refunds the analysis and cost", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		l, _ := newLedger(aeo.DefaultLimits())

		r, err := l.CheckAndReserve(ctx, "alice", 0.5)
		require.NoError(t, err)
		require.NoError(t, l.Release(ctx, r))

		usage, err := l.Usage(ctx, "alice")
		require.NoError(t, err)
		assert.Zero(t, usage.AnalysesUsed)
		assert.Zero(t, usage.CostUsed)
	})

	t.Run("a reservation resolves only once", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		l, _ := newLedger(aeo.DefaultLimits())

		r, err := l.CheckAndReserve(ctx, "alice", 0.5)
		require.NoError(t, err)
		require.NoError(t, l.Commit(ctx, r, 0.5))

		assert.Equal(t, aeo.ENOTFOUND, aeo.ErrorCode(l.Release(ctx, r)))
		assert.Equal(t, aeo.ENOTFOUND, aeo.ErrorCode(l.Commit(ctx, r, 0.5)))
	})

	t.Run("release stale reservations", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		l, now := newLedger(aeo.DefaultLimits())

		_, err := l.CheckAndReserve(ctx, "alice", 0.5)
		require.NoError(t, err)
		*now = now.Add(time.Hour)
		fresh, err := l.CheckAndReserve(ctx, "alice", 0.25)
		require.NoError(t, err)

		n, err := l.ReleaseStale(ctx, 30*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		usage, err := l.Usage(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, usage.AnalysesUsed)
		assert.InDelta(t, 0.25, usage.CostUsed, 1e-9)
		require.NoError(t, l.Commit(ctx, fresh, 0.25))
	})
}

func TestUsageLedger_SetLimits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, _ := newLedger(aeo.Limits{Analyses: 1, Cost: 1})

	_, err := l.CheckAndReserve(ctx, "alice", 0.1)
	require.NoError(t, err)
	require.NoError(t, l.SetLimits(ctx, "alice", aeo.Limits{Analyses: 100, Cost: 20}))

	_, err = l.CheckAndReserve(ctx, "alice", 0.1)
	require.NoError(t, err)

	usage, err := l.Usage(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 100, usage.AnalysesLimit)
	assert.InDelta(t, 20.0, usage.CostLimit, 1e-9)

	assert.Equal(t, aeo.EINVALID, aeo.ErrorCode(l.SetLimits(ctx, "alice", aeo.Limits{Analyses: -1})))
}
