// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the rendering pieces of the madhava chat view.

Each component is a small value with a View method built on Lip Gloss.
None of them hold conversation state; the chat model passes in what they
draw.

# Components

MessageBlock (message.go) - One conversation entry: label, HH:MM timestamp and
its content, one rendered row per source line.

TypingIndicator (spinner.go) - The loading block shown while a request is
pending.

Welcome (welcome.go) - Empty-state panel with example questions that can be
highlighted and picked.

Header (header.go) - Title bar with the pinned verse and clear/theme hints.
*/
package components
