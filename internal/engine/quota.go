package engine

import (
	"time"

	"github.com/hpungsan/pace/internal/errors"
	"github.com/hpungsan/pace/internal/store"
)

// DailyQuotaCounter is the per-calendar-day post counter. Rollover is
// detected lazily on each access; there is no timer.
type DailyQuotaCounter struct {
	store store.Store
	loc   *time.Location
}

// dayKey buckets an instant into a calendar day in the configured timezone.
func (q *DailyQuotaCounter) dayKey(now time.Time) string {
	return now.In(q.loc).Format(time.DateOnly)
}

// CurrentCount returns today's post count, first resetting the counter if
// the stored day key is stale.
func (q *DailyQuotaCounter) CurrentCount(now time.Time) (int, error) {
	if err := q.rollover(now); err != nil {
		return 0, err
	}

	var count int
	if _, err := q.store.Get(store.KeyDailyPostCount, &count); err != nil {
		return 0, errors.NewInternal(err)
	}
	return count, nil
}

// Increment rolls over if needed, then adds one to today's count.
func (q *DailyQuotaCounter) Increment(now time.Time) error {
	count, err := q.CurrentCount(now)
	if err != nil {
		return err
	}
	if err := q.store.Set(store.KeyDailyPostCount, count+1); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// Remaining returns how many posts are left today under max, floored at 0.
func (q *DailyQuotaCounter) Remaining(now time.Time, max int) (int, error) {
	count, err := q.CurrentCount(now)
	if err != nil {
		return 0, err
	}
	remaining := max - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// rollover resets the counter exactly once per observed day change.
func (q *DailyQuotaCounter) rollover(now time.Time) error {
	today := q.dayKey(now)

	var stored string
	found, err := q.store.Get(store.KeyDailyPostDate, &stored)
	if err != nil {
		return errors.NewInternal(err)
	}
	if found && stored == today {
		return nil
	}

	if err := q.store.Set(store.KeyDailyPostCount, 0); err != nil {
		return errors.NewInternal(err)
	}
	if err := q.store.Set(store.KeyDailyPostDate, today); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
