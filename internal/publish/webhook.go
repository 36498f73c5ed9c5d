package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Webhook is a Publisher that POSTs the submission as JSON to a configured
// endpoint. The endpoint answers 200 with {"id": "..."} on success or 429
// with rate-limit headers when the platform window is exhausted.
type Webhook struct {
	url    string
	client *retryablehttp.Client
}

// NewWebhook creates a webhook publisher for the given endpoint URL.
func NewWebhook(url string) *Webhook {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = 30 * time.Second
	client.Logger = nil
	// 429 must surface to the engine, not be retried away here
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			return false, nil
		}
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	return &Webhook{url: url, client: client}
}

type webhookRequest struct {
	Text     string   `json:"text"`
	ReplyTo  string   `json:"reply_to,omitempty"`
	QuoteID  string   `json:"quote_id,omitempty"`
	MediaIDs []string `json:"media_ids,omitempty"`
}

type webhookResponse struct {
	ID string `json:"id"`
}

// Submit posts the text to the webhook endpoint.
func (w *Webhook) Submit(ctx context.Context, text string, opts Options) (string, error) {
	body, err := json.Marshal(webhookRequest{
		Text:     text,
		ReplyTo:  opts.ReplyTo,
		QuoteID:  opts.QuoteID,
		MediaIDs: opts.MediaIDs,
	})
	if err != nil {
		return "", err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		rle := parseRateLimitHeaders(resp)
		slog.Warn("publisher rate limited", "reset_at", rle.ResetAt, "limit", rle.Limit)
		return "", rle
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("publisher returned %d: %s", resp.StatusCode, snippet)
	}

	var out webhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode publisher response: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("publisher response missing id")
	}
	return out.ID, nil
}

// parseRateLimitHeaders builds a RateLimitError from X-RateLimit-* and
// Retry-After headers, with a one-hour fallback when none are present.
func parseRateLimitHeaders(resp *http.Response) *RateLimitError {
	rle := &RateLimitError{
		ResetAt: time.Now().Add(time.Hour),
	}

	if v := resp.Header.Get("X-RateLimit-Limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			rle.Limit = n
		}
	}
	if v := resp.Header.Get("X-RateLimit-Reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			rle.ResetAt = time.Unix(epoch, 0)
			return rle
		}
	}
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			rle.ResetAt = time.Now().Add(time.Duration(secs) * time.Second)
		}
	}
	return rle
}
