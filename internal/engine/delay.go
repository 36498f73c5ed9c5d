package engine

import (
	"time"
)

// Delay reason strings, stable across CLI/MCP/web output.
const (
	ReasonRateLimitCooldown = "rate limit cooldown"
	ReasonMinInterval       = "minimum post interval"
	ReasonQuietHours        = "quiet hours"
)

// Delay is the computed minimum wait before the next post is permitted.
type Delay struct {
	Wait   time.Duration `json:"wait"`
	Reason string        `json:"reason,omitempty"`
}

// DelayScheduler combines rate-limit cooldown, minimum-interval spacing,
// quiet-hour windows, and randomized jitter into a single wait.
type DelayScheduler struct {
	history  *HistoryStore
	limits   *RateLimitTracker
	settings Settings
	jitter   func(max time.Duration) time.Duration
}

// ComputeDelay returns the wait before posting is permitted at now.
// The base delay is the max of the component delays; jitter is layered on
// top only when the base is nonzero, so it never delays an otherwise-clear
// post. jitterOverrideMinutes, when non-nil, replaces the configured
// jitter bound for this call.
func (s *DelayScheduler) ComputeDelay(now time.Time, jitterOverrideMinutes *int) (Delay, error) {
	var d Delay

	cooldown, err := s.limits.CooldownRemaining(now)
	if err != nil {
		return Delay{}, err
	}
	if cooldown > d.Wait {
		d.Wait = cooldown
		d.Reason = ReasonRateLimitCooldown
	}

	last, found, err := s.history.LastPostAt()
	if err != nil {
		return Delay{}, err
	}
	if found {
		if elapsed := now.Sub(last); elapsed < s.settings.MinInterval {
			if wait := s.settings.MinInterval - elapsed; wait > d.Wait {
				d.Wait = wait
			}
			if d.Reason == "" {
				d.Reason = ReasonMinInterval
			}
		}
	}

	if s.settings.EnableQuietHours {
		local := now.In(s.settings.Location)
		if quietHoursActive(local.Hour(), s.settings.QuietHoursStart, s.settings.QuietHoursEnd) {
			if wait := quietHoursEnd(now, s.settings.QuietHoursEnd, s.settings.Location).Sub(now); wait > d.Wait {
				d.Wait = wait
			}
			if d.Reason == "" {
				d.Reason = ReasonQuietHours
			}
		}
	}

	if s.settings.EnableJitter && d.Wait > 0 {
		max := s.settings.MaxJitter
		if jitterOverrideMinutes != nil {
			max = time.Duration(*jitterOverrideMinutes) * time.Minute
		}
		d.Wait += s.jitter(max)
	}

	return d, nil
}

// quietHoursActive reports whether hour h falls inside the [start, end)
// window. A start greater than end means the window wraps past midnight.
func quietHoursActive(h, start, end int) bool {
	if start > end {
		return h >= start || h < end
	}
	return h >= start && h < end
}

// quietHoursEnd returns the next occurrence of the end hour (minutes and
// seconds zeroed) strictly after now, in the given location.
func quietHoursEnd(now time.Time, end int, loc *time.Location) time.Time {
	local := now.In(loc)
	at := time.Date(local.Year(), local.Month(), local.Day(), end, 0, 0, 0, loc)
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}
