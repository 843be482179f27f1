// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/jeranaias/madhava-tui/internal/config"
)

// =============================================================================
// REQUEST MESSAGES
// =============================================================================

// answerMsg delivers a successful answer for one request.
type answerMsg struct {
	RequestID string
	Answer    string
	Duration  time.Duration
}

// answerErrorMsg reports that a request failed.
type answerErrorMsg struct {
	RequestID string
	Err       error
	Duration  time.Duration
}

// =============================================================================
// BACKGROUND MESSAGES
// =============================================================================

// configReloadedMsg carries a config change seen by the watcher.
type configReloadedMsg struct {
	Update config.Update
}

// exportDoneMsg reports the outcome of /export.
type exportDoneMsg struct {
	Path string
	Err  error
}
