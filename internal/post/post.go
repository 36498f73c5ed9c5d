package post

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Record represents one published post kept in the history log.
type Record struct {
	// ID is a ULID that uniquely identifies this post
	ID string `json:"id"`

	// Text is the post body as it was published
	Text string `json:"text"`

	// ContentHash is the SHA-256 hex digest of the normalized text
	ContentHash string `json:"content_hash"`

	// Timestamp is when the post was published
	Timestamp time.Time `json:"timestamp"`

	// MediaIDs lists attached media identifiers, in order (optional)
	MediaIDs []string `json:"media_ids,omitempty"`
}

// Age returns how long ago the record was published relative to now.
func (r Record) Age(now time.Time) time.Duration {
	return now.Sub(r.Timestamp)
}

// NewID generates a new ULID for a post record.
func NewID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
