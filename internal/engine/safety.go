package engine

import (
	"fmt"
	"time"

	"github.com/hpungsan/pace/internal/post"
)

// Report is the structured verdict of a safety evaluation. Errors block
// the post; warnings and suggestions are advisory.
type Report struct {
	Safe        bool     `json:"safe"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

func (r *Report) addError(msg string)      { r.Errors = append(r.Errors, msg) }
func (r *Report) addWarning(msg string)    { r.Warnings = append(r.Warnings, msg) }
func (r *Report) addSuggestion(msg string) { r.Suggestions = append(r.Suggestions, msg) }

// SafetyEvaluator runs the full rule set against a candidate post.
// Every rule runs; results accumulate, none short-circuits another.
type SafetyEvaluator struct {
	history  *HistoryStore
	limits   *RateLimitTracker
	quota    *DailyQuotaCounter
	settings Settings
}

// Evaluate checks the candidate text at the given instant and returns the
// accumulated report. Safe is true iff no rule produced an error.
func (e *SafetyEvaluator) Evaluate(text string, now time.Time) (*Report, error) {
	report := &Report{}

	if err := e.checkRateLimit(report, now); err != nil {
		return nil, err
	}
	if err := e.checkDailyQuota(report, now); err != nil {
		return nil, err
	}
	e.checkQuietHours(report, now)
	if err := e.checkDuplicates(report, text, now); err != nil {
		return nil, err
	}
	e.checkContent(report, text)
	if err := e.checkInterval(report, now); err != nil {
		return nil, err
	}

	report.Safe = len(report.Errors) == 0
	return report, nil
}

func (e *SafetyEvaluator) checkRateLimit(report *Report, now time.Time) error {
	exhausted, err := e.limits.IsExhausted(now)
	if err != nil {
		return err
	}
	if exhausted {
		state, err := e.limits.Current()
		if err != nil {
			return err
		}
		report.addError(fmt.Sprintf("Rate limit exceeded, resets at %s",
			state.ResetAt.In(e.settings.Location).Format("15:04 MST")))
	}
	return nil
}

func (e *SafetyEvaluator) checkDailyQuota(report *Report, now time.Time) error {
	count, err := e.quota.CurrentCount(now)
	if err != nil {
		return err
	}
	max := e.settings.MaxPostsPerDay
	switch {
	case count >= max:
		report.addError(fmt.Sprintf("Daily post limit reached (%d)", max))
	case count >= max-2:
		report.addWarning(fmt.Sprintf("Approaching daily post limit (%d/%d)", count, max))
	}
	return nil
}

func (e *SafetyEvaluator) checkQuietHours(report *Report, now time.Time) {
	if !e.settings.EnableQuietHours {
		return
	}
	if quietHoursActive(now.In(e.settings.Location).Hour(), e.settings.QuietHoursStart, e.settings.QuietHoursEnd) {
		report.addWarning("Quiet hours active, post will be delayed")
	}
}

func (e *SafetyEvaluator) checkDuplicates(report *Report, text string, now time.Time) error {
	window := e.settings.DedupeWindowDays

	dup, err := e.history.FindExactDuplicate(text, window)
	if err != nil {
		return err
	}
	if dup != nil {
		report.addError(fmt.Sprintf("Duplicate content posted %s ago", formatAge(dup.Age(now))))
	}

	similar, score, err := e.history.FindSimilar(text, window, similarityThreshold)
	if err != nil {
		return err
	}
	if similar != nil {
		report.addWarning(fmt.Sprintf("Very similar (%d%% match) to a post from %s ago",
			int(score*100), formatAge(similar.Age(now))))
		report.addSuggestion("Rephrase the post to make it distinct from recent content")
	}
	return nil
}

func (e *SafetyEvaluator) checkContent(report *Report, text string) {
	hashtags := post.CountHashtags(text)
	if hashtags > 5 {
		report.addError(fmt.Sprintf("Excessive hashtags (%d), maximum recommended is 5", hashtags))
	} else if hashtags > 3 {
		report.addWarning(fmt.Sprintf("High hashtag count (%d)", hashtags))
	}

	if domain := post.FindShortener(text); domain != "" {
		report.addWarning(fmt.Sprintf("Shortened URL (%s) may trigger spam filters", domain))
		report.addSuggestion("Use the full destination URL instead of a shortener")
	}

	if mentions := post.CountMentions(text); mentions > 5 {
		report.addWarning(fmt.Sprintf("High mention count (%d), may read as spam", mentions))
	}
}

func (e *SafetyEvaluator) checkInterval(report *Report, now time.Time) error {
	last, found, err := e.history.LastPostAt()
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	elapsed := now.Sub(last)
	if elapsed < e.settings.MinInterval {
		remaining := e.settings.MinInterval - elapsed
		report.addWarning(fmt.Sprintf("Only %d minutes since last post, recommend waiting %d more",
			int(elapsed.Minutes()), minutesCeil(remaining)))
	}
	return nil
}

// formatAge renders a duration as a compact age like "3h" or "2d".
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// minutesCeil rounds a duration up to whole minutes.
func minutesCeil(d time.Duration) int {
	m := int(d / time.Minute)
	if d%time.Minute != 0 {
		m++
	}
	return m
}
