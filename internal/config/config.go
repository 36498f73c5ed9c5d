package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds application configuration. Safety fields mirror the engine
// settings; the rest is glue (publisher endpoint, database tuning).
type Config struct {
	// MinIntervalMinutes is the minimum spacing between posts
	MinIntervalMinutes int `json:"min_interval_minutes,omitempty"`

	// MaxPostsPerDay is the daily post quota
	MaxPostsPerDay int `json:"max_posts_per_day,omitempty"`

	// EnableJitter adds randomized delay on top of any computed wait
	EnableJitter *bool `json:"enable_jitter,omitempty"`

	// MaxJitterMinutes bounds the randomized delay
	MaxJitterMinutes int `json:"max_jitter_minutes,omitempty"`

	// DedupeWindowDays is the lookback window for duplicate detection
	DedupeWindowDays int `json:"dedupe_window_days,omitempty"`

	// QuietHoursStart is the hour of day (0-23) when the quiet window opens
	QuietHoursStart *int `json:"quiet_hours_start,omitempty"`

	// QuietHoursEnd is the hour of day (0-23) when the quiet window closes
	QuietHoursEnd *int `json:"quiet_hours_end,omitempty"`

	// EnableQuietHours defers posts that fall inside the quiet window
	EnableQuietHours *bool `json:"enable_quiet_hours,omitempty"`

	// Timezone drives quiet hours and the daily-quota day boundary.
	// IANA name, e.g. "America/New_York". Defaults to UTC.
	Timezone string `json:"timezone,omitempty"`

	// WebhookURL is the publisher endpoint for the webhook publisher.
	// Empty means no publisher is configured (check/dry-run still work).
	WebhookURL string `json:"webhook_url,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized.
	// 0 means use sql.DB default. Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MinIntervalMinutes: 30,
		MaxPostsPerDay:     8,
		EnableJitter:       boolPtr(true),
		MaxJitterMinutes:   30,
		DedupeWindowDays:   7,
		QuietHoursStart:    intPtr(23),
		QuietHoursEnd:      intPtr(6),
		EnableQuietHours:   boolPtr(true),
		Timezone:           "UTC",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.pace.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	merged := Merge(DefaultConfig(), cfg)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence when set: non-zero for scalars, non-nil
// for pointer fields (which distinguish "unset" from zero/false).
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.MinIntervalMinutes = pickInt(base.MinIntervalMinutes, overlay.MinIntervalMinutes)
	result.MaxPostsPerDay = pickInt(base.MaxPostsPerDay, overlay.MaxPostsPerDay)
	result.MaxJitterMinutes = pickInt(base.MaxJitterMinutes, overlay.MaxJitterMinutes)
	result.DedupeWindowDays = pickInt(base.DedupeWindowDays, overlay.DedupeWindowDays)
	result.DBMaxOpenConns = pickInt(base.DBMaxOpenConns, overlay.DBMaxOpenConns)
	result.DBMaxIdleConns = pickInt(base.DBMaxIdleConns, overlay.DBMaxIdleConns)

	result.Timezone = pickString(base.Timezone, overlay.Timezone)
	result.WebhookURL = pickString(base.WebhookURL, overlay.WebhookURL)

	result.EnableJitter = pickBoolPtr(base.EnableJitter, overlay.EnableJitter)
	result.EnableQuietHours = pickBoolPtr(base.EnableQuietHours, overlay.EnableQuietHours)
	result.QuietHoursStart = pickIntPtr(base.QuietHoursStart, overlay.QuietHoursStart)
	result.QuietHoursEnd = pickIntPtr(base.QuietHoursEnd, overlay.QuietHoursEnd)

	return result
}

// Validate checks field ranges and the timezone name.
func (c *Config) Validate() error {
	if c.MinIntervalMinutes < 0 {
		return fmt.Errorf("min_interval_minutes must not be negative")
	}
	if c.MaxPostsPerDay < 1 {
		return fmt.Errorf("max_posts_per_day must be at least 1")
	}
	if c.MaxJitterMinutes < 0 {
		return fmt.Errorf("max_jitter_minutes must not be negative")
	}
	if c.DedupeWindowDays < 0 {
		return fmt.Errorf("dedupe_window_days must not be negative")
	}
	if h := c.QuietHoursStart; h != nil && (*h < 0 || *h > 23) {
		return fmt.Errorf("quiet_hours_start must be an hour 0-23, got %d", *h)
	}
	if h := c.QuietHoursEnd; h != nil && (*h < 0 || *h > 23) {
		return fmt.Errorf("quiet_hours_end must be an hour 0-23, got %d", *h)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the configured timezone. Call Validate first;
// an unparseable name falls back to UTC here.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func pickInt(base, overlay int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

func pickString(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

func pickBoolPtr(base, overlay *bool) *bool {
	if overlay != nil {
		return overlay
	}
	return base
}

func pickIntPtr(base, overlay *int) *int {
	if overlay != nil {
		return overlay
	}
	return base
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }
