package engine

import (
	"testing"
	"time"
)

func TestRateLimitTracker_UnknownAssumesNotLimited(t *testing.T) {
	e, _ := testEngine(t, nil, nil)

	exhausted, err := e.limits.IsExhausted(t0)
	if err != nil {
		t.Fatalf("IsExhausted failed: %v", err)
	}
	if exhausted {
		t.Error("unobserved tracker reported exhausted")
	}

	cooldown, err := e.limits.CooldownRemaining(t0)
	if err != nil {
		t.Fatal(err)
	}
	if cooldown != 0 {
		t.Errorf("cooldown = %v, want 0", cooldown)
	}
}

func TestRateLimitTracker_Exhausted(t *testing.T) {
	e, _ := testEngine(t, nil, nil)

	reset := t0.Add(10 * time.Minute)
	if err := e.limits.Observe(RateLimitState{Remaining: 0, Limit: 300, ResetAt: reset}); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}

	exhausted, err := e.limits.IsExhausted(t0)
	if err != nil {
		t.Fatal(err)
	}
	if !exhausted {
		t.Error("tracker should be exhausted")
	}

	cooldown, err := e.limits.CooldownRemaining(t0)
	if err != nil {
		t.Fatal(err)
	}
	if cooldown != 10*time.Minute {
		t.Errorf("cooldown = %v, want 10m", cooldown)
	}

	// After the reset instant, no longer exhausted
	after := reset.Add(time.Second)
	exhausted, _ = e.limits.IsExhausted(after)
	if exhausted {
		t.Error("tracker still exhausted after reset")
	}
	cooldown, _ = e.limits.CooldownRemaining(after)
	if cooldown != 0 {
		t.Errorf("cooldown = %v after reset, want 0", cooldown)
	}
}

func TestRateLimitTracker_RemainingCallsNotExhausted(t *testing.T) {
	e, _ := testEngine(t, nil, nil)

	if err := e.limits.Observe(RateLimitState{Remaining: 5, Limit: 300, ResetAt: t0.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}

	exhausted, err := e.limits.IsExhausted(t0)
	if err != nil {
		t.Fatal(err)
	}
	if exhausted {
		t.Error("window with remaining calls reported exhausted")
	}
}

func TestRateLimitTracker_ObserveOverwrites(t *testing.T) {
	e, _ := testEngine(t, nil, nil)

	if err := e.limits.Observe(RateLimitState{Remaining: 0, Limit: 300, ResetAt: t0.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if err := e.limits.Observe(RateLimitState{Remaining: 10, Limit: 300, ResetAt: t0.Add(2 * time.Hour)}); err != nil {
		t.Fatal(err)
	}

	state, err := e.limits.Current()
	if err != nil {
		t.Fatal(err)
	}
	if state == nil || state.Remaining != 10 {
		t.Errorf("state = %+v, want latest observation", state)
	}
}
