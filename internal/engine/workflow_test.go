package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/pace/internal/publish"
)

// End-to-end scenarios over a memory store and a scripted publisher.

func TestWorkflow_NormalizationCatchesDuplicate(t *testing.T) {
	pub := &fakePublisher{id: "remote-1"}
	e, clock := testEngine(t, pub, nil)

	verdict, err := e.Submit(context.Background(), SubmitInput{Text: "Hello"})
	require.NoError(t, err)
	require.Equal(t, StatusPosted, verdict.Status)

	// Case-different with trailing space, 60 seconds later
	*clock = clock.Add(60 * time.Second)
	verdict, err = e.Submit(context.Background(), SubmitInput{Text: "hello "})
	require.NoError(t, err)
	assert.Equal(t, StatusBlocked, verdict.Status)
	require.NotNil(t, verdict.Report)
	assert.Contains(t, verdict.Report.Errors[0], "Duplicate content")
}

func TestWorkflow_DailyQuotaOfOne(t *testing.T) {
	pub := &fakePublisher{id: "remote-1"}
	e, clock := testEngine(t, pub, func(s *Settings) {
		s.MaxPostsPerDay = 1
		s.MinInterval = 0
	})

	verdict, err := e.Submit(context.Background(), SubmitInput{Text: "first of the day"})
	require.NoError(t, err)
	require.Equal(t, StatusPosted, verdict.Status)

	*clock = clock.Add(time.Hour)
	verdict, err = e.Submit(context.Background(), SubmitInput{Text: "second of the day"})
	require.NoError(t, err)
	assert.Equal(t, StatusBlocked, verdict.Status)
	assert.Contains(t, verdict.Reasons, "Daily post limit reached (1)")

	// Next calendar day the quota resets lazily
	*clock = clock.AddDate(0, 0, 1)
	verdict, err = e.Submit(context.Background(), SubmitInput{Text: "next day post"})
	require.NoError(t, err)
	assert.Equal(t, StatusPosted, verdict.Status)
}

func TestWorkflow_RateLimitCooldownDominates(t *testing.T) {
	e, _ := testEngine(t, &fakePublisher{id: "x"}, nil)

	require.NoError(t, e.limits.Observe(RateLimitState{
		Remaining: 0,
		Limit:     300,
		ResetAt:   t0.Add(10 * time.Minute),
	}))

	d, err := e.scheduler.ComputeDelay(t0, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, d.Wait, 10*time.Minute)
	assert.Equal(t, ReasonRateLimitCooldown, d.Reason)
}

func TestWorkflow_CheckDoesNotMutate(t *testing.T) {
	e, _ := testEngine(t, nil, nil)

	out, err := e.Check("a perfectly ordinary post")
	require.NoError(t, err)
	assert.True(t, out.Report.Safe)
	assert.Zero(t, out.WaitMinutes)

	// Checking must not create history or consume quota
	records, err := e.history.All()
	require.NoError(t, err)
	assert.Empty(t, records)
	count, err := e.quota.CurrentCount(t0)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestWorkflow_StatusReflectsState(t *testing.T) {
	pub := &fakePublisher{id: "remote-1"}
	e, clock := testEngine(t, pub, nil)

	status, err := e.Status()
	require.NoError(t, err)
	assert.Zero(t, status.DailyCount)
	assert.Equal(t, 8, status.DailyRemaining)
	assert.Nil(t, status.LastPostAt)
	assert.False(t, status.RateLimitExhausted)

	verdict, err := e.Submit(context.Background(), SubmitInput{Text: "hello world"})
	require.NoError(t, err)
	require.Equal(t, StatusPosted, verdict.Status)

	*clock = clock.Add(time.Minute)
	status, err = e.Status()
	require.NoError(t, err)
	assert.Equal(t, 1, status.DailyCount)
	assert.Equal(t, 7, status.DailyRemaining)
	require.NotNil(t, status.LastPostAt)
	assert.Equal(t, t0, status.LastPostAt.UTC())
	assert.Equal(t, 1, status.RecentPosts)
	assert.Equal(t, "UTC", status.Timezone)
}

func TestWorkflow_HistoryListsNewestFirst(t *testing.T) {
	pub := &fakePublisher{}
	e, clock := testEngine(t, pub, func(s *Settings) { s.MinInterval = 0 })

	texts := []string{"first post", "second post", "third post"}
	for _, text := range texts {
		pub.id = "remote-" + text[:5]
		verdict, err := e.Submit(context.Background(), SubmitInput{Text: text})
		require.NoError(t, err)
		require.Equal(t, StatusPosted, verdict.Status)
		*clock = clock.Add(time.Hour)
	}

	out, err := e.History(0)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	require.Len(t, out.Items, 3)
	assert.Equal(t, "third post", out.Items[0].Text)
	assert.Equal(t, "first post", out.Items[2].Text)

	out, err = e.History(2)
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 3, out.Total)
}

func TestWorkflow_RateLimitFailureThenRecovery(t *testing.T) {
	reset := t0.Add(10 * time.Minute)
	pub := &fakePublisher{err: &publish.RateLimitError{Limit: 300, ResetAt: reset}}
	e, clock := testEngine(t, pub, nil)

	verdict, err := e.Submit(context.Background(), SubmitInput{Text: "hello world"})
	require.NoError(t, err)
	require.Equal(t, StatusBlocked, verdict.Status)

	// While the window holds, evaluation blocks before reaching the
	// publisher at all
	*clock = clock.Add(time.Minute)
	verdict, err = e.Submit(context.Background(), SubmitInput{Text: "hello world"})
	require.NoError(t, err)
	assert.Equal(t, StatusBlocked, verdict.Status)
	assert.Equal(t, 1, pub.calls)

	// After the reset instant the publisher recovers
	pub.err = nil
	pub.id = "remote-ok"
	*clock = reset.Add(time.Minute)
	verdict, err = e.Submit(context.Background(), SubmitInput{Text: "hello world"})
	require.NoError(t, err)
	assert.Equal(t, StatusPosted, verdict.Status)
}
