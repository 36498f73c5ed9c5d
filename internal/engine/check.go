package engine

import (
	"time"

	"github.com/hpungsan/pace/internal/errors"
)

// CheckOutput is the result of a safety check without publishing.
type CheckOutput struct {
	Report      *Report   `json:"report"`
	WaitMinutes int       `json:"wait_minutes,omitempty"`
	Until       time.Time `json:"until,omitzero"`
	Reason      string    `json:"reason,omitempty"`
}

// Check evaluates the candidate text and computes the wait it would be
// scheduled with, without invoking the publisher or writing any state.
func (e *Engine) Check(text string) (*CheckOutput, error) {
	if text == "" {
		return nil, errors.NewInvalidRequest("text is required")
	}

	now := e.now()

	report, err := e.safety.Evaluate(text, now)
	if err != nil {
		return nil, err
	}

	out := &CheckOutput{Report: report}

	delay, err := e.scheduler.ComputeDelay(now, nil)
	if err != nil {
		return nil, err
	}
	if delay.Wait > 0 {
		out.WaitMinutes = minutesCeil(delay.Wait)
		out.Until = now.Add(delay.Wait)
		out.Reason = delay.Reason
	}

	return out, nil
}
