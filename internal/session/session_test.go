// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/madhava-tui/internal/model"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

type countingScroller struct {
	mu    sync.Mutex
	calls int
}

func (s *countingScroller) ScrollToLatest() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *countingScroller) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestSession() (*Session, *countingScroller) {
	sc := &countingScroller{}
	s := New(Config{
		Clock:    &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)},
		Scroller: sc,
	})
	return s, sc
}

func kinds(msgs []model.Message) []model.Kind {
	out := make([]model.Kind, len(msgs))
	for i, m := range msgs {
		out[i] = m.Kind
	}
	return out
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmit_Success(t *testing.T) {
	s, sc := newTestSession()
	s.SetDraft("What is karma yoga?")

	req, err := s.Submit()
	require.NoError(t, err)
	assert.Equal(t, "What is karma yoga?", req.Question)
	assert.NotEmpty(t, req.ID)

	snap := s.Snapshot()
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, model.KindUser, snap.Messages[0].Kind)
	assert.Equal(t, "What is karma yoga?", snap.Messages[0].Content)
	assert.Empty(t, snap.Draft)
	assert.True(t, snap.Pending)
	assert.Equal(t, 1, sc.count())

	msg, err := s.ReceiveSuccess(req.ID, "Karma yoga is...")
	require.NoError(t, err)
	assert.Equal(t, model.KindAssistant, msg.Kind)

	snap = s.Snapshot()
	assert.Equal(t, []model.Kind{model.KindUser, model.KindAssistant}, kinds(snap.Messages))
	assert.Equal(t, "Karma yoga is...", snap.Messages[1].Content)
	assert.False(t, snap.Pending)
	assert.Equal(t, 2, sc.count())
}

func TestSubmit_Failure(t *testing.T) {
	s, _ := newTestSession()
	s.SetDraft("test")

	req, err := s.Submit()
	require.NoError(t, err)

	msg, err := s.ReceiveFailure(req.ID, errors.New("connection refused"))
	require.NoError(t, err)
	assert.Equal(t, model.KindError, msg.Kind)
	assert.Equal(t, FailureText, msg.Content)

	snap := s.Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, model.KindError, snap.Messages[1].Kind)
	assert.Equal(t, "Something went wrong. Please try again.", snap.Messages[1].Content)
	assert.False(t, snap.Pending)
}

func TestSubmit_BlankDraft(t *testing.T) {
	for _, draft := range []string{"", "   ", "\n\t  \n"} {
		s, sc := newTestSession()
		s.SetDraft(draft)

		_, err := s.Submit()
		assert.ErrorIs(t, err, ErrBlankDraft)
		assert.Empty(t, s.Messages())
		assert.False(t, s.Pending())
		assert.Equal(t, draft, s.Draft(), "blank draft is left as typed")
		assert.Zero(t, sc.count())
	}
}

func TestSubmit_RejectedWhilePending(t *testing.T) {
	s, _ := newTestSession()
	s.SetDraft("first")
	req, err := s.Submit()
	require.NoError(t, err)

	s.SetDraft("second")
	_, err = s.Submit()
	assert.ErrorIs(t, err, ErrPending)
	assert.Len(t, s.Messages(), 1)
	assert.Equal(t, "second", s.Draft())

	_, err = s.ReceiveSuccess(req.ID, "answer")
	require.NoError(t, err)

	_, err = s.Submit()
	require.NoError(t, err)
	assert.Len(t, s.Messages(), 3)
}

func TestSubmit_KeepsMultilineDraftVerbatim(t *testing.T) {
	s, _ := newTestSession()
	s.SetDraft("  line one\nline two  ")

	req, err := s.Submit()
	require.NoError(t, err)
	assert.Equal(t, "  line one\nline two  ", req.Question)
}

// =============================================================================
// SETTLE TESTS
// =============================================================================

func TestSettle_ExactlyOnce(t *testing.T) {
	s, _ := newTestSession()
	s.SetDraft("q")
	req, err := s.Submit()
	require.NoError(t, err)

	_, err = s.ReceiveSuccess(req.ID, "a")
	require.NoError(t, err)

	_, err = s.ReceiveSuccess(req.ID, "again")
	assert.ErrorIs(t, err, ErrAlreadySettled)
	_, err = s.ReceiveFailure(req.ID, errors.New("late"))
	assert.ErrorIs(t, err, ErrAlreadySettled)

	assert.Len(t, s.Messages(), 2)
	assert.False(t, s.Pending())
}

func TestSettle_UnknownRequest(t *testing.T) {
	s, _ := newTestSession()
	_, err := s.ReceiveSuccess("req_missing", "a")
	assert.ErrorIs(t, err, ErrUnknownRequest)
	assert.Empty(t, s.Messages())
}

func TestSettle_EveryCycleAddsExactlyTwoMessages(t *testing.T) {
	s, _ := newTestSession()
	for i := 0; i < 10; i++ {
		s.SetDraft("question")
		req, err := s.Submit()
		require.NoError(t, err)
		require.True(t, s.Pending())

		if i%2 == 0 {
			_, err = s.ReceiveSuccess(req.ID, "answer")
		} else {
			_, err = s.ReceiveFailure(req.ID, errors.New("boom"))
		}
		require.NoError(t, err)
		require.False(t, s.Pending())
		require.Len(t, s.Messages(), 2*(i+1))
	}
}

func TestSettle_RecordStaysBounded(t *testing.T) {
	s, _ := newTestSession()
	ids := make([]string, 0, settledLimit+8)
	for i := 0; i < settledLimit+8; i++ {
		s.SetDraft("question")
		req, err := s.Submit()
		require.NoError(t, err)
		_, err = s.ReceiveSuccess(req.ID, "answer")
		require.NoError(t, err)
		ids = append(ids, req.ID)
	}

	s.mu.Lock()
	assert.Len(t, s.settled, settledLimit)
	assert.Len(t, s.settledOrder, settledLimit)
	s.mu.Unlock()

	_, err := s.ReceiveSuccess(ids[len(ids)-1], "again")
	assert.ErrorIs(t, err, ErrAlreadySettled)
	_, err = s.ReceiveSuccess(ids[0], "again")
	assert.ErrorIs(t, err, ErrUnknownRequest)

	assert.Len(t, s.Messages(), 2*len(ids))
	assert.Equal(t, len(ids), s.CountByKind(model.KindUser))
	assert.Equal(t, len(ids), s.CountByKind(model.KindAssistant))
	assert.Zero(t, s.CountByKind(model.KindError))
}

// =============================================================================
// CLEAR TESTS
// =============================================================================

func TestClear_ResetsConversationKeepsDraft(t *testing.T) {
	s, sc := newTestSession()
	s.SetDraft("q")
	req, _ := s.Submit()
	_, _ = s.ReceiveSuccess(req.ID, "a")
	s.SelectVerse("BG 2.47")
	s.SetDraft("unsent")

	before := sc.count()
	s.Clear()

	snap := s.Snapshot()
	assert.True(t, snap.Empty())
	assert.False(t, snap.Pending)
	assert.Empty(t, snap.SelectedVerse)
	assert.Equal(t, "unsent", snap.Draft)
	assert.Equal(t, before+1, sc.count())
}

func TestClear_LateResponseAppendsWithoutTouchingPending(t *testing.T) {
	s, _ := newTestSession()
	s.SetDraft("slow question")
	old, err := s.Submit()
	require.NoError(t, err)

	s.Clear()
	assert.False(t, s.Pending())

	s.SetDraft("new question")
	fresh, err := s.Submit()
	require.NoError(t, err)
	require.True(t, s.Pending())

	// The orphaned request lands while the new one is in flight.
	_, err = s.ReceiveSuccess(old.ID, "late answer")
	require.NoError(t, err)
	assert.True(t, s.Pending(), "orphaned request must not settle the new one")

	_, err = s.ReceiveSuccess(fresh.ID, "fresh answer")
	require.NoError(t, err)
	assert.False(t, s.Pending())

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "new question", msgs[0].Content)
	assert.Equal(t, "late answer", msgs[1].Content)
	assert.Equal(t, "fresh answer", msgs[2].Content)
}

func TestClear_ThenResubmitStartsFreshSequence(t *testing.T) {
	s, _ := newTestSession()
	s.SetDraft("one")
	req, _ := s.Submit()
	_, _ = s.ReceiveSuccess(req.ID, "1")
	s.Clear()

	s.SetDraft("two")
	req, err := s.Submit()
	require.NoError(t, err)
	_, _ = s.ReceiveSuccess(req.ID, "2")

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "two", msgs[0].Content)
	assert.Equal(t, "2", msgs[1].Content)
}

// =============================================================================
// SUGGESTION TESTS
// =============================================================================

func TestSelectSuggestion_PopulatesDraftOnly(t *testing.T) {
	s, _ := newTestSession()

	text, err := s.SelectSuggestion(1)
	require.NoError(t, err)
	assert.Equal(t, "How can I find peace within?", text)
	assert.Equal(t, text, s.Draft())
	assert.Empty(t, s.Messages())
	assert.False(t, s.Pending())

	_, err = s.SelectSuggestion(3)
	assert.ErrorIs(t, err, ErrNoSuggestion)
	_, err = s.SelectSuggestion(-1)
	assert.ErrorIs(t, err, ErrNoSuggestion)
}

func TestTimestampsComeFromClock(t *testing.T) {
	s, _ := newTestSession()
	s.SetDraft("q")
	req, _ := s.Submit()
	_, _ = s.ReceiveSuccess(req.ID, "a")

	msgs := s.Messages()
	assert.Equal(t, "09:01", msgs[0].Clock("24h"))
	assert.Equal(t, "09:02", msgs[1].Clock("24h"))
}

// =============================================================================
// ASK TESTS
// =============================================================================

func TestAsk_Success(t *testing.T) {
	s, _ := newTestSession()
	s.SetDraft("What is dharma?")

	var got string
	msg, err := s.Ask(context.Background(), AskerFunc(func(_ context.Context, q string) (string, error) {
		got = q
		return "Dharma is duty.", nil
	}))
	require.NoError(t, err)
	assert.Equal(t, "What is dharma?", got)
	assert.Equal(t, model.KindAssistant, msg.Kind)
	assert.False(t, s.Pending())
}

func TestAsk_FailureSettles(t *testing.T) {
	s, _ := newTestSession()
	s.SetDraft("q")
	boom := errors.New("boom")

	msg, err := s.Ask(context.Background(), AskerFunc(func(context.Context, string) (string, error) {
		return "", boom
	}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, model.KindError, msg.Kind)
	assert.Equal(t, FailureText, msg.Content)
	assert.False(t, s.Pending())
}

func TestAsk_PanicStillSettles(t *testing.T) {
	s, _ := newTestSession()
	s.SetDraft("q")

	msg, err := s.Ask(context.Background(), AskerFunc(func(context.Context, string) (string, error) {
		panic("transport exploded")
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transport exploded")
	assert.Equal(t, model.KindError, msg.Kind)
	assert.False(t, s.Pending())
	assert.Len(t, s.Messages(), 2)
}

func TestAsk_BlankDraftIssuesNoRequest(t *testing.T) {
	s, _ := newTestSession()
	s.SetDraft("   ")

	called := false
	_, err := s.Ask(context.Background(), AskerFunc(func(context.Context, string) (string, error) {
		called = true
		return "", nil
	}))
	assert.ErrorIs(t, err, ErrBlankDraft)
	assert.False(t, called)
	assert.Empty(t, s.Messages())
}

// =============================================================================
// CONCURRENCY TESTS
// =============================================================================

func TestSubmit_ConcurrentOnlyOneAccepted(t *testing.T) {
	s, _ := newTestSession()

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SetDraft("q")
			if _, err := s.Submit(); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Len(t, s.Messages(), 1)
	assert.True(t, s.Pending())
}
