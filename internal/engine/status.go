package engine

import (
	"time"
)

// StatusOutput summarizes the engine's persisted pacing state.
type StatusOutput struct {
	DailyCount         int             `json:"daily_count"`
	DailyRemaining     int             `json:"daily_remaining"`
	MaxPostsPerDay     int             `json:"max_posts_per_day"`
	LastPostAt         *time.Time      `json:"last_post_at,omitempty"`
	RateLimit          *RateLimitState `json:"rate_limit,omitempty"`
	RateLimitExhausted bool            `json:"rate_limit_exhausted"`
	QuietHoursActive   bool            `json:"quiet_hours_active"`
	RecentPosts        int             `json:"recent_posts"`
	Timezone           string          `json:"timezone"`
}

// Status reads the current quota, rate-limit, and history state.
// The read itself performs any pending quota rollover.
func (e *Engine) Status() (*StatusOutput, error) {
	now := e.now()

	count, err := e.quota.CurrentCount(now)
	if err != nil {
		return nil, err
	}
	remaining, err := e.quota.Remaining(now, e.settings.MaxPostsPerDay)
	if err != nil {
		return nil, err
	}

	out := &StatusOutput{
		DailyCount:     count,
		DailyRemaining: remaining,
		MaxPostsPerDay: e.settings.MaxPostsPerDay,
		Timezone:       e.settings.Location.String(),
	}

	if last, found, err := e.history.LastPostAt(); err != nil {
		return nil, err
	} else if found {
		out.LastPostAt = &last
	}

	out.RateLimit, err = e.limits.Current()
	if err != nil {
		return nil, err
	}
	out.RateLimitExhausted, err = e.limits.IsExhausted(now)
	if err != nil {
		return nil, err
	}

	if e.settings.EnableQuietHours {
		out.QuietHoursActive = quietHoursActive(
			now.In(e.settings.Location).Hour(),
			e.settings.QuietHoursStart,
			e.settings.QuietHoursEnd,
		)
	}

	out.RecentPosts, err = e.history.RecentCount(retentionDays)
	if err != nil {
		return nil, err
	}

	return out, nil
}
