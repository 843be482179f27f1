// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the state of one chat view and its transitions.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/madhava-tui/internal/model"
)

// FailureText is the only error text ever shown to the user.
const FailureText = "Something went wrong. Please try again."

// DefaultSuggestions are the example questions offered on the welcome panel.
var DefaultSuggestions = []string{
	"Why is life full of struggles?",
	"How can I find peace within?",
	"What does Shree Krishna say about letting go?",
}

var (
	// ErrBlankDraft is returned by Submit when the draft is empty or whitespace.
	ErrBlankDraft = errors.New("draft is blank")

	// ErrPending is returned by Submit while a request is in flight.
	ErrPending = errors.New("a request is already pending")

	// ErrAlreadySettled is returned when a request is settled a second time.
	ErrAlreadySettled = errors.New("request already settled")

	// ErrUnknownRequest is returned when settling an ID this session never issued.
	ErrUnknownRequest = errors.New("unknown request")

	// ErrNoSuggestion is returned by SelectSuggestion for an out of range index.
	ErrNoSuggestion = errors.New("no such suggestion")
)

// =============================================================================
// REQUEST TICKET
// =============================================================================

// Request is the ticket handed out by an accepted Submit. It must be
// settled exactly once with ReceiveSuccess or ReceiveFailure.
type Request struct {
	ID          string
	Question    string
	SubmittedAt time.Time
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is a read-only copy of the session state for rendering.
type Snapshot struct {
	Draft         string
	Messages      []model.Message
	Pending       bool
	SelectedVerse string
	Suggestions   []string
}

// Empty reports whether the conversation has no messages.
func (s Snapshot) Empty() bool {
	return len(s.Messages) == 0
}

// =============================================================================
// SESSION
// =============================================================================

// Config holds the ports and options for a session.
type Config struct {
	// Clock stamps new messages (default: SystemClock)
	Clock Clock

	// Scroller is notified after every conversation change (default: no-op)
	Scroller Scroller

	// Suggestions offered while the conversation is empty
	Suggestions []string
}

// DefaultConfig returns a config wired to the wall clock and no scroller.
func DefaultConfig() Config {
	return Config{
		Clock:       SystemClock,
		Scroller:    noopScroller{},
		Suggestions: DefaultSuggestions,
	}
}

// Session is the state container for one chat view.
// All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	clock       Clock
	scroller    Scroller
	suggestions []string

	draft         string
	conv          *model.Conversation
	pending       bool
	selectedVerse string

	// current is the request that owns the Pending flag, if any.
	current string
	// outstanding holds issued tickets that have not settled yet.
	outstanding map[string]struct{}
	// settled remembers the most recent settledLimit tickets so a repeat
	// settle reports ErrAlreadySettled. settledOrder is oldest first.
	settled      map[string]struct{}
	settledOrder []string
}

// settledLimit bounds the settled-ticket record. A repeat settle of an
// older ticket is still rejected, as ErrUnknownRequest.
const settledLimit = 32

// New creates an empty session.
func New(cfg Config) *Session {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock
	}
	if cfg.Scroller == nil {
		cfg.Scroller = noopScroller{}
	}
	if cfg.Suggestions == nil {
		cfg.Suggestions = DefaultSuggestions
	}
	return &Session{
		clock:       cfg.Clock,
		scroller:    cfg.Scroller,
		suggestions: append([]string(nil), cfg.Suggestions...),
		conv:        model.NewConversation(),
		outstanding: make(map[string]struct{}),
		settled:     make(map[string]struct{}),
	}
}

// SetScroller replaces the scroll port. A nil scroller disables scrolling.
func (s *Session) SetScroller(sc Scroller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc == nil {
		sc = noopScroller{}
	}
	s.scroller = sc
}

// =============================================================================
// READERS
// =============================================================================

// Draft returns the unsent input text.
func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Pending reports whether a request is in flight.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Messages returns the conversation in insertion order.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Messages()
}

// CountByKind returns how many messages of kind the conversation holds.
func (s *Session) CountByKind(kind model.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.CountByKind(kind)
}

// ConversationID identifies the conversation for exports.
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.ID
}

// SelectedVerse returns the pinned verse reference, if any.
func (s *Session) SelectedVerse() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedVerse
}

// Suggestions returns the welcome panel questions.
func (s *Session) Suggestions() []string {
	return append([]string(nil), s.suggestions...)
}

// Snapshot returns a copy of the full state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Draft:         s.draft,
		Messages:      s.conv.Messages(),
		Pending:       s.pending,
		SelectedVerse: s.selectedVerse,
		Suggestions:   append([]string(nil), s.suggestions...),
	}
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// SetDraft replaces the draft text.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

// SelectSuggestion copies the i-th suggestion into the draft. It never submits.
func (s *Session) SelectSuggestion(i int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.suggestions) {
		return "", fmt.Errorf("%w: %d", ErrNoSuggestion, i)
	}
	s.draft = s.suggestions[i]
	return s.draft, nil
}

// SelectVerse pins a verse reference. An empty ref unpins.
func (s *Session) SelectVerse(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedVerse = strings.TrimSpace(ref)
}

// Submit accepts the current draft. On success it appends the user message,
// clears the draft, sets Pending and returns the ticket to settle.
func (s *Session) Submit() (Request, error) {
	s.mu.Lock()
	if strings.TrimSpace(s.draft) == "" {
		s.mu.Unlock()
		return Request{}, ErrBlankDraft
	}
	if s.pending {
		s.mu.Unlock()
		return Request{}, ErrPending
	}

	now := s.clock.Now()
	req := Request{
		ID:          "req_" + uuid.NewString(),
		Question:    s.draft,
		SubmittedAt: now,
	}
	s.conv.Append(model.NewMessage(model.KindUser, s.draft, now))
	s.draft = ""
	s.pending = true
	s.current = req.ID
	s.outstanding[req.ID] = struct{}{}
	sc := s.scroller
	s.mu.Unlock()

	sc.ScrollToLatest()
	return req, nil
}

// ReceiveSuccess settles a request with the service's answer.
func (s *Session) ReceiveSuccess(id, answer string) (model.Message, error) {
	return s.settle(id, model.KindAssistant, answer)
}

// ReceiveFailure settles a request that failed. The cause is not shown;
// the appended message always carries FailureText.
func (s *Session) ReceiveFailure(id string, _ error) (model.Message, error) {
	return s.settle(id, model.KindError, FailureText)
}

func (s *Session) settle(id string, kind model.Kind, content string) (model.Message, error) {
	s.mu.Lock()
	if _, ok := s.outstanding[id]; !ok {
		s.mu.Unlock()
		if _, done := s.settled[id]; done {
			return model.Message{}, ErrAlreadySettled
		}
		return model.Message{}, fmt.Errorf("%w: %q", ErrUnknownRequest, id)
	}
	delete(s.outstanding, id)
	s.markSettled(id)

	msg := model.NewMessage(kind, content, s.clock.Now())
	s.conv.Append(msg)

	// A request orphaned by Clear no longer owns the flag.
	if s.current == id {
		s.pending = false
		s.current = ""
	}
	sc := s.scroller
	s.mu.Unlock()

	sc.ScrollToLatest()
	return msg, nil
}

func (s *Session) markSettled(id string) {
	s.settled[id] = struct{}{}
	s.settledOrder = append(s.settledOrder, id)
	if len(s.settledOrder) > settledLimit {
		delete(s.settled, s.settledOrder[0])
		n := copy(s.settledOrder, s.settledOrder[1:])
		s.settledOrder = s.settledOrder[:n]
	}
}

// Clear empties the conversation and the pinned verse and resets Pending.
// The draft is kept. In-flight requests are not cancelled; if one settles
// later its message is appended to the fresh conversation.
func (s *Session) Clear() {
	s.mu.Lock()
	s.conv.Clear()
	s.selectedVerse = ""
	s.pending = false
	s.current = ""
	sc := s.scroller
	s.mu.Unlock()

	sc.ScrollToLatest()
}
