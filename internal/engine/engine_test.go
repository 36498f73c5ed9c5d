package engine

import (
	"testing"
	"time"

	"github.com/hpungsan/pace/internal/config"
	"github.com/hpungsan/pace/internal/publish"
	"github.com/hpungsan/pace/internal/store"
)

// t0 is a fixed reference instant: a Tuesday at 12:00 UTC, outside the
// default quiet window.
var t0 = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// testSettings returns settings with jitter and quiet hours off so tests
// are deterministic unless they opt in.
func testSettings() Settings {
	return Settings{
		MinInterval:      30 * time.Minute,
		MaxPostsPerDay:   8,
		EnableJitter:     false,
		MaxJitter:        30 * time.Minute,
		DedupeWindowDays: 7,
		QuietHoursStart:  23,
		QuietHoursEnd:    6,
		EnableQuietHours: false,
		Location:         time.UTC,
	}
}

// testEngine builds an engine over a memory store with a controllable
// clock. Mutate *clock to advance time.
func testEngine(t *testing.T, pub publish.Publisher, mutate func(*Settings)) (*Engine, *time.Time) {
	t.Helper()

	settings := testSettings()
	if mutate != nil {
		mutate(&settings)
	}

	clock := t0
	e := New(store.NewMemory(), settings, pub)
	e.now = func() time.Time { return clock }
	return e, &clock
}

func intPtr(i int) *int { return &i }

func TestSettingsFromConfig_Defaults(t *testing.T) {
	s := SettingsFromConfig(config.DefaultConfig())

	if s.MinInterval != 30*time.Minute {
		t.Errorf("MinInterval = %v, want 30m", s.MinInterval)
	}
	if s.MaxPostsPerDay != 8 {
		t.Errorf("MaxPostsPerDay = %d, want 8", s.MaxPostsPerDay)
	}
	if !s.EnableJitter || s.MaxJitter != 30*time.Minute {
		t.Errorf("jitter = %v/%v, want true/30m", s.EnableJitter, s.MaxJitter)
	}
	if s.DedupeWindowDays != 7 {
		t.Errorf("DedupeWindowDays = %d, want 7", s.DedupeWindowDays)
	}
	if !s.EnableQuietHours || s.QuietHoursStart != 23 || s.QuietHoursEnd != 6 {
		t.Errorf("quiet hours = %v/%d/%d, want true/23/6", s.EnableQuietHours, s.QuietHoursStart, s.QuietHoursEnd)
	}
	if s.Location != time.UTC {
		t.Errorf("Location = %v, want UTC", s.Location)
	}
}

func TestSettingsFromConfig_Overrides(t *testing.T) {
	cfg := config.DefaultConfig()
	off := false
	cfg.EnableQuietHours = &off
	cfg.QuietHoursStart = intPtr(0)
	cfg.Timezone = "America/New_York"

	s := SettingsFromConfig(cfg)
	if s.EnableQuietHours {
		t.Error("EnableQuietHours override lost")
	}
	if s.QuietHoursStart != 0 {
		t.Errorf("QuietHoursStart = %d, want 0", s.QuietHoursStart)
	}
	if s.Location.String() != "America/New_York" {
		t.Errorf("Location = %v", s.Location)
	}
}

func TestUniformJitter_Bounds(t *testing.T) {
	max := 10 * time.Minute
	for i := 0; i < 100; i++ {
		j := uniformJitter(max)
		if j < 0 || j >= max {
			t.Fatalf("jitter %v out of [0, %v)", j, max)
		}
	}
	if uniformJitter(0) != 0 {
		t.Error("jitter with zero max should be 0")
	}
}
