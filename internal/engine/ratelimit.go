package engine

import (
	"time"

	"github.com/hpungsan/pace/internal/errors"
	"github.com/hpungsan/pace/internal/store"
)

// RateLimitState is the publisher's last reported rate-limit window.
// Absent state means "unknown, assume not limited".
type RateLimitState struct {
	Remaining int       `json:"remaining"`
	Limit     int       `json:"limit"`
	ResetAt   time.Time `json:"reset_at"`
}

// RateLimitTracker persists the most recently observed window and answers
// whether posting is currently blocked by it.
type RateLimitTracker struct {
	store store.Store
}

// Observe overwrites the tracked window with the latest report from the
// publisher.
func (t *RateLimitTracker) Observe(state RateLimitState) error {
	if err := t.store.Set(store.KeyRateLimit, state); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// Current returns the tracked window, or nil if none has been observed.
func (t *RateLimitTracker) Current() (*RateLimitState, error) {
	var state RateLimitState
	found, err := t.store.Get(store.KeyRateLimit, &state)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if !found {
		return nil, nil
	}
	return &state, nil
}

// IsExhausted reports whether the window has zero remaining calls and has
// not yet reset.
func (t *RateLimitTracker) IsExhausted(now time.Time) (bool, error) {
	state, err := t.Current()
	if err != nil {
		return false, err
	}
	if state == nil {
		return false, nil
	}
	return state.Remaining == 0 && state.ResetAt.After(now), nil
}

// CooldownRemaining returns the time until the window resets, or zero if
// the tracker is not exhausted.
func (t *RateLimitTracker) CooldownRemaining(now time.Time) (time.Duration, error) {
	exhausted, err := t.IsExhausted(now)
	if err != nil {
		return 0, err
	}
	if !exhausted {
		return 0, nil
	}
	state, err := t.Current()
	if err != nil {
		return 0, err
	}
	return state.ResetAt.Sub(now), nil
}
