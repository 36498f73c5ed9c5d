package engine

import (
	"testing"
	"time"
)

func TestDailyQuotaCounter_StartsAtZero(t *testing.T) {
	e, _ := testEngine(t, nil, nil)

	count, err := e.quota.CurrentCount(t0)
	if err != nil {
		t.Fatalf("CurrentCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestDailyQuotaCounter_IncrementAndRemaining(t *testing.T) {
	e, _ := testEngine(t, nil, nil)

	for i := 0; i < 3; i++ {
		if err := e.quota.Increment(t0); err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
	}

	count, err := e.quota.CurrentCount(t0)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	remaining, err := e.quota.Remaining(t0, 8)
	if err != nil {
		t.Fatal(err)
	}
	if remaining != 5 {
		t.Errorf("remaining = %d, want 5", remaining)
	}
}

func TestDailyQuotaCounter_RemainingFlooredAtZero(t *testing.T) {
	e, _ := testEngine(t, nil, nil)

	for i := 0; i < 4; i++ {
		if err := e.quota.Increment(t0); err != nil {
			t.Fatal(err)
		}
	}

	remaining, err := e.quota.Remaining(t0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if remaining != 0 {
		t.Errorf("remaining = %d, want 0", remaining)
	}
}

func TestDailyQuotaCounter_LazyRollover(t *testing.T) {
	e, _ := testEngine(t, nil, nil)

	if err := e.quota.Increment(t0); err != nil {
		t.Fatal(err)
	}
	if err := e.quota.Increment(t0); err != nil {
		t.Fatal(err)
	}

	// Next calendar day: count resets on access, no timer involved
	nextDay := t0.AddDate(0, 0, 1)
	count, err := e.quota.CurrentCount(nextDay)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count = %d after rollover, want 0", count)
	}

	if err := e.quota.Increment(nextDay); err != nil {
		t.Fatal(err)
	}
	count, _ = e.quota.CurrentCount(nextDay)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestDailyQuotaCounter_DayBoundaryFollowsTimezone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	e, _ := testEngine(t, nil, func(s *Settings) { s.Location = ny })

	// 2026-03-10 03:00 UTC is still 2026-03-09 in New York
	early := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)
	if err := e.quota.Increment(early); err != nil {
		t.Fatal(err)
	}

	// 2026-03-10 12:00 UTC is 2026-03-10 in New York: a new day there
	count, err := e.quota.CurrentCount(t0)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0 after NY day boundary", count)
	}
}
