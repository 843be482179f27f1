// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"
)

// =============================================================================
// KIND TYPE
// =============================================================================

// Kind identifies who (or what) produced a message.
type Kind string

const (
	KindUser      Kind = "user"
	KindAssistant Kind = "assistant"
	KindError     Kind = "error"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// DisplayName returns a human-readable label for the kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindUser:
		return "You"
	case KindAssistant:
		return "Madhava"
	case KindError:
		return "Error"
	default:
		return string(k)
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindUser, KindAssistant, KindError:
		return true
	}
	return false
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single entry in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with the given time.
func NewMessage(kind Kind, content string, at time.Time) Message {
	return Message{
		ID:        generateID(),
		Kind:      kind,
		Content:   content,
		Timestamp: at,
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Lines splits the content on newline boundaries. Terminal escape
// sequences and control characters other than tab are removed so text
// from the service can never drive the terminal.
func (m Message) Lines() []string {
	return strings.Split(CleanText(m.Content), "\n")
}

// CleanText strips ANSI escape sequences (CSI, OSC, DCS and friends) and
// drops C0/C1 control characters except newline and tab. CRLF collapses to LF.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		case r >= 0x80 && r <= 0x9f:
			return -1
		}
		return r
	}, s)
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Kind == KindUser
}

// IsError reports whether the message is an error placeholder.
func (m Message) IsError() bool {
	return m.Kind == KindError
}

// Clock formats the message timestamp for display. Supported formats are
// "24h" (15:04) and "12h" (03:04 PM); anything else falls back to 24h.
func (m Message) Clock(format string) string {
	if format == "12h" {
		return m.Timestamp.Format("03:04 PM")
	}
	return m.Timestamp.Format("15:04")
}

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}
