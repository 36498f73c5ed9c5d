// Package publish defines the external publishing contract the engine
// coordinates against. The engine never retries a publisher; it only
// classifies failures into rate-limit updates vs caller errors.
package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/hpungsan/pace/internal/post"
)

// Options carries optional submission parameters.
type Options struct {
	ReplyTo  string   `json:"reply_to,omitempty"`
	QuoteID  string   `json:"quote_id,omitempty"`
	MediaIDs []string `json:"media_ids,omitempty"`
}

// Publisher submits a post to an external platform and returns its
// published identifier. A 429-equivalent failure is reported as
// *RateLimitError; any other error is opaque to the engine.
type Publisher interface {
	Submit(ctx context.Context, text string, opts Options) (string, error)
}

// RateLimitError reports the publisher's rate-limit window after a
// rejected submission.
type RateLimitError struct {
	Limit   int
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited until %s (limit %d)", e.ResetAt.Format(time.RFC3339), e.Limit)
}

// DryRun is a Publisher that accepts everything without side effects.
// Used by `post --dry-run` and tests.
type DryRun struct{}

// Submit returns a freshly generated post ID.
func (DryRun) Submit(_ context.Context, _ string, _ Options) (string, error) {
	return post.NewID()
}
