package engine

import (
	"time"

	"github.com/hpungsan/pace/internal/errors"
	"github.com/hpungsan/pace/internal/post"
	"github.com/hpungsan/pace/internal/store"
)

// HistoryStore is the append-only log of prior posts, with dedup and
// similarity queries. Retention pruning happens lazily on every write;
// there is no background sweep.
type HistoryStore struct {
	store store.Store
	clock func() time.Time
}

// Record appends a post to the history, prunes entries past the retention
// horizon, persists the log, and advances the last-post time.
func (h *HistoryStore) Record(text, id string, mediaIDs []string) error {
	records, err := h.All()
	if err != nil {
		return err
	}

	now := h.clock()
	records = append(records, post.Record{
		ID:          id,
		Text:        text,
		ContentHash: post.Hash(text),
		Timestamp:   now,
		MediaIDs:    mediaIDs,
	})

	cutoff := now.AddDate(0, 0, -retentionDays)
	kept := records[:0]
	for _, r := range records {
		if r.Timestamp.After(cutoff) {
			kept = append(kept, r)
		}
	}

	if err := h.store.Set(store.KeyPostHistory, kept); err != nil {
		return errors.NewInternal(err)
	}
	if err := h.store.Set(store.KeyLastPostAt, now); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// All returns the full history log in insertion order (oldest first).
func (h *HistoryStore) All() ([]post.Record, error) {
	var records []post.Record
	if _, err := h.store.Get(store.KeyPostHistory, &records); err != nil {
		return nil, errors.NewInternal(err)
	}
	return records, nil
}

// LastPostAt returns the time of the most recent recorded post.
func (h *HistoryStore) LastPostAt() (time.Time, bool, error) {
	var at time.Time
	found, err := h.store.Get(store.KeyLastPostAt, &at)
	if err != nil {
		return time.Time{}, false, errors.NewInternal(err)
	}
	return at, found, nil
}

// FindExactDuplicate returns the most recent record whose content hash
// matches the candidate's within the lookback window, or nil.
func (h *HistoryStore) FindExactDuplicate(text string, withinDays int) (*post.Record, error) {
	records, err := h.All()
	if err != nil {
		return nil, err
	}

	hash := post.Hash(text)
	cutoff := h.clock().AddDate(0, 0, -withinDays)

	// newest first: the log is append-only
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if r.ContentHash == hash && r.Timestamp.After(cutoff) {
			return &r, nil
		}
	}
	return nil, nil
}

// FindSimilar returns the first record in the window whose token-set
// similarity to the candidate exceeds threshold and whose hash differs
// (exact duplicates are reported separately). The score is returned
// alongside the record.
func (h *HistoryStore) FindSimilar(text string, withinDays int, threshold float64) (*post.Record, float64, error) {
	records, err := h.All()
	if err != nil {
		return nil, 0, err
	}

	hash := post.Hash(text)
	cutoff := h.clock().AddDate(0, 0, -withinDays)

	for _, r := range records {
		if !r.Timestamp.After(cutoff) || r.ContentHash == hash {
			continue
		}
		if score := post.Similarity(text, r.Text); score > threshold {
			return &r, score, nil
		}
	}
	return nil, 0, nil
}

// RecentCount returns the number of records within the lookback window.
func (h *HistoryStore) RecentCount(withinDays int) (int, error) {
	records, err := h.All()
	if err != nil {
		return 0, err
	}

	cutoff := h.clock().AddDate(0, 0, -withinDays)
	count := 0
	for _, r := range records {
		if r.Timestamp.After(cutoff) {
			count++
		}
	}
	return count, nil
}
