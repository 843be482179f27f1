// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"time"
)

// Clock supplies the time used to stamp new messages.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now returns f().
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Scroller is told to bring the newest message into view. It is called
// after every change to the conversation.
type Scroller interface {
	ScrollToLatest()
}

// ScrollFunc adapts a function to the Scroller interface.
type ScrollFunc func()

// ScrollToLatest calls f.
func (f ScrollFunc) ScrollToLatest() { f() }

type noopScroller struct{}

func (noopScroller) ScrollToLatest() {}

// Asker sends a question to the Q&A service and returns the answer.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// AskerFunc adapts a function to the Asker interface.
type AskerFunc func(ctx context.Context, question string) (string, error)

// Ask calls f.
func (f AskerFunc) Ask(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}
