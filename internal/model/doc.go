// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// A Conversation is an ordered, append-only list of Messages held in memory.
// Messages are never reordered or removed individually; a conversation is
// either appended to or cleared in full.
//
// # Key Types
//
//   - Kind: message kind enumeration (user, assistant, error)
//   - Message: single entry with kind, content and creation timestamp
//   - Conversation: ordered container of messages
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.Append(model.NewMessage(model.KindUser, "What is karma yoga?", time.Now()))
//	for _, line := range conv.Last().Lines() {
//	    fmt.Println(line)
//	}
package model
