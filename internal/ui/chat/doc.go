// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the madhava TUI.
//
// The view is a Bubble Tea model wrapped around a session.Session. All
// conversation state lives in the session; this package only translates
// key presses into session transitions and renders snapshots.
//
// # Key Types
//
//   - Model: Bubble Tea model for the chat view
//   - Options: Title, theme and clear/toggle behavior
//   - KeyMap: Keyboard bindings with help text
//
// # Flow
//
// Enter submits the draft. The question is sent to the Asker from a tea.Cmd
// and the result comes back as an answerMsg or answerErrorMsg carrying the
// request ID, which settles the request in the session.
//
// # Usage
//
//	m := chat.New(client, chat.OptionsFromConfig(cfg))
//	p := tea.NewProgram(m, tea.WithAltScreen())
package chat
