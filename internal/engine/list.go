package engine

import (
	"time"

	"github.com/hpungsan/pace/internal/errors"
)

// Pagination limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// HistoryItem is one post in a history listing.
type HistoryItem struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	ContentHash string    `json:"content_hash"`
	Timestamp   time.Time `json:"timestamp"`
	Age         string    `json:"age"`
	MediaIDs    []string  `json:"media_ids,omitempty"`
}

// HistoryOutput is the result of a history listing.
type HistoryOutput struct {
	Items []HistoryItem `json:"items"`
	Total int           `json:"total"`
}

// History lists recorded posts, newest first. A non-positive limit uses
// the default; limits above the maximum are clamped.
func (e *Engine) History(limit int) (*HistoryOutput, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	records, err := e.history.All()
	if err != nil {
		return nil, err
	}

	now := e.now()
	out := &HistoryOutput{
		Items: make([]HistoryItem, 0, limit),
		Total: len(records),
	}

	for i := len(records) - 1; i >= 0 && len(out.Items) < limit; i-- {
		r := records[i]
		out.Items = append(out.Items, HistoryItem{
			ID:          r.ID,
			Text:        r.Text,
			ContentHash: r.ContentHash,
			Timestamp:   r.Timestamp,
			Age:         formatAge(r.Age(now)),
			MediaIDs:    r.MediaIDs,
		})
	}

	return out, nil
}

// Find returns a single recorded post by ID.
func (e *Engine) Find(id string) (*HistoryItem, error) {
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	records, err := e.history.All()
	if err != nil {
		return nil, err
	}

	now := e.now()
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if r.ID != id {
			continue
		}
		return &HistoryItem{
			ID:          r.ID,
			Text:        r.Text,
			ContentHash: r.ContentHash,
			Timestamp:   r.Timestamp,
			Age:         formatAge(r.Age(now)),
			MediaIDs:    r.MediaIDs,
		}, nil
	}

	return nil, errors.NewNotFound(id)
}
