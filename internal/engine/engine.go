// Package engine decides whether an outbound post is safe to send now,
// when it becomes safe if not, and records the history future decisions
// depend on. All state lives behind the injected store.Store; the engine
// itself holds no timers and no background goroutines.
package engine

import (
	"math/rand/v2"
	"time"

	"github.com/hpungsan/pace/internal/config"
	"github.com/hpungsan/pace/internal/publish"
	"github.com/hpungsan/pace/internal/store"
)

// retentionDays is the history retention horizon. Records older than this
// are pruned lazily on the next write.
const retentionDays = 30

// similarityThreshold is the Jaccard score above which a post is flagged
// as a near-duplicate.
const similarityThreshold = 0.8

// Settings is the immutable safety configuration for one engine instance.
// A single Location drives quiet hours, the daily-quota day boundary, and
// displayed times.
type Settings struct {
	MinInterval      time.Duration
	MaxPostsPerDay   int
	EnableJitter     bool
	MaxJitter        time.Duration
	DedupeWindowDays int
	QuietHoursStart  int
	QuietHoursEnd    int
	EnableQuietHours bool
	Location         *time.Location
}

// SettingsFromConfig resolves a validated config into engine settings.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := Settings{
		MinInterval:      time.Duration(cfg.MinIntervalMinutes) * time.Minute,
		MaxPostsPerDay:   cfg.MaxPostsPerDay,
		MaxJitter:        time.Duration(cfg.MaxJitterMinutes) * time.Minute,
		DedupeWindowDays: cfg.DedupeWindowDays,
		QuietHoursStart:  23,
		QuietHoursEnd:    6,
		EnableJitter:     true,
		EnableQuietHours: true,
		Location:         cfg.Location(),
	}
	if cfg.EnableJitter != nil {
		s.EnableJitter = *cfg.EnableJitter
	}
	if cfg.EnableQuietHours != nil {
		s.EnableQuietHours = *cfg.EnableQuietHours
	}
	if cfg.QuietHoursStart != nil {
		s.QuietHoursStart = *cfg.QuietHoursStart
	}
	if cfg.QuietHoursEnd != nil {
		s.QuietHoursEnd = *cfg.QuietHoursEnd
	}
	return s
}

// Engine wires the safety components over one Store and one Publisher.
type Engine struct {
	settings  Settings
	history   *HistoryStore
	limits    *RateLimitTracker
	quota     *DailyQuotaCounter
	safety    *SafetyEvaluator
	scheduler *DelayScheduler
	publisher publish.Publisher

	// now and jitter are injectable for deterministic tests
	now    func() time.Time
	jitter func(max time.Duration) time.Duration
}

// New creates an engine over the given store and publisher. The publisher
// may be nil for evaluate-only use (check, status, history).
func New(st store.Store, settings Settings, pub publish.Publisher) *Engine {
	if settings.Location == nil {
		settings.Location = time.UTC
	}

	e := &Engine{
		settings:  settings,
		publisher: pub,
		now:       time.Now,
		jitter:    uniformJitter,
	}
	e.history = &HistoryStore{store: st, clock: e.clock}
	e.limits = &RateLimitTracker{store: st}
	e.quota = &DailyQuotaCounter{store: st, loc: settings.Location}
	e.safety = &SafetyEvaluator{
		history:  e.history,
		limits:   e.limits,
		quota:    e.quota,
		settings: settings,
	}
	e.scheduler = &DelayScheduler{
		history:  e.history,
		limits:   e.limits,
		settings: settings,
		jitter:   e.roll,
	}
	return e
}

// clock indirects through e.now so tests can rebind the engine clock after
// construction and every component sees it.
func (e *Engine) clock() time.Time {
	return e.now()
}

func (e *Engine) roll(max time.Duration) time.Duration {
	return e.jitter(max)
}

// uniformJitter draws a uniformly random duration in [0, max).
func uniformJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(max)))
}
