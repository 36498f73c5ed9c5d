package engine

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/hpungsan/pace/internal/errors"
	"github.com/hpungsan/pace/internal/post"
	"github.com/hpungsan/pace/internal/publish"
)

// Verdict statuses.
const (
	StatusPosted  = "posted"
	StatusBlocked = "blocked"
	StatusDelayed = "delayed"
)

// SubmitInput contains parameters for the Submit operation.
type SubmitInput struct {
	Text     string
	ReplyTo  string
	QuoteID  string
	MediaIDs []string

	// Force bypasses safety evaluation and delay scheduling entirely.
	Force bool

	// JitterMinutes overrides the configured jitter bound for this call.
	JitterMinutes *int
}

// Verdict is the outcome of one post attempt: posted, blocked, or delayed.
type Verdict struct {
	Status  string    `json:"status"`
	ID      string    `json:"id,omitempty"`
	Reasons []string  `json:"reasons,omitempty"`
	Until   time.Time `json:"until,omitzero"`
	Reason  string    `json:"reason,omitempty"`
	Minutes int       `json:"minutes,omitempty"`
	Report  *Report   `json:"report,omitempty"`
}

// Submit evaluates the candidate, schedules or blocks it, and publishes it
// when clear. Safety blocks and publisher rate limits become verdicts;
// any other publisher failure propagates to the caller unchanged.
func (e *Engine) Submit(ctx context.Context, input SubmitInput) (*Verdict, error) {
	if input.Text == "" {
		return nil, errors.NewInvalidRequest("text is required")
	}
	if e.publisher == nil {
		return nil, errors.NewInvalidRequest("no publisher configured")
	}

	now := e.now()

	if !input.Force {
		report, err := e.safety.Evaluate(input.Text, now)
		if err != nil {
			return nil, err
		}
		if !report.Safe {
			return &Verdict{
				Status:  StatusBlocked,
				Reasons: report.Errors,
				Report:  report,
			}, nil
		}

		delay, err := e.scheduler.ComputeDelay(now, input.JitterMinutes)
		if err != nil {
			return nil, err
		}
		if delay.Wait > 0 {
			return &Verdict{
				Status:  StatusDelayed,
				Until:   now.Add(delay.Wait),
				Reason:  delay.Reason,
				Minutes: minutesCeil(delay.Wait),
				Report:  report,
			}, nil
		}
	}

	return e.publishAndRecord(ctx, input)
}

// SubmitAndWait behaves like Submit, but on a delayed verdict it suspends
// for exactly the scheduled wait and then forces submission. The blocking
// checks were already evaluated when the delay was produced, so the forced
// re-entry does not re-run them. The suspension honors ctx cancellation
// and mutates no state while suspended.
func (e *Engine) SubmitAndWait(ctx context.Context, input SubmitInput) (*Verdict, error) {
	verdict, err := e.Submit(ctx, input)
	if err != nil || verdict.Status != StatusDelayed {
		return verdict, err
	}

	wait := verdict.Until.Sub(e.now())
	if wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return nil, ctx.Err()
		}
	}

	input.Force = true
	return e.Submit(ctx, input)
}

// publishAndRecord invokes the publisher and, on success, writes back into
// history and the daily quota. A rate-limit failure updates the tracker
// and returns a blocked verdict.
func (e *Engine) publishAndRecord(ctx context.Context, input SubmitInput) (*Verdict, error) {
	id, err := e.publisher.Submit(ctx, input.Text, publish.Options{
		ReplyTo:  input.ReplyTo,
		QuoteID:  input.QuoteID,
		MediaIDs: input.MediaIDs,
	})
	if err != nil {
		var rle *publish.RateLimitError
		if stderrors.As(err, &rle) {
			if obsErr := e.limits.Observe(RateLimitState{
				Remaining: 0,
				Limit:     rle.Limit,
				ResetAt:   rle.ResetAt,
			}); obsErr != nil {
				return nil, obsErr
			}
			return &Verdict{
				Status: StatusBlocked,
				Reasons: []string{
					errors.NewRateLimited(rle.Limit, rle.ResetAt.In(e.settings.Location).Format(time.RFC3339)).Message,
				},
			}, nil
		}
		// transport failure: the caller's responsibility
		return nil, err
	}

	if id == "" {
		generated, genErr := post.NewID()
		if genErr != nil {
			return nil, errors.NewInternal(genErr)
		}
		id = generated
	}

	if err := e.history.Record(input.Text, id, input.MediaIDs); err != nil {
		return nil, err
	}
	if err := e.quota.Increment(e.now()); err != nil {
		return nil, err
	}

	return &Verdict{Status: StatusPosted, ID: id}, nil
}
