// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the state of one chat view and its transitions.
//
// A Session owns the Draft, the Conversation and the Pending flag. Every
// change goes through one of a handful of transitions (Submit,
// ReceiveSuccess, ReceiveFailure, Clear) so the state machine
//
//	Idle -> Pending -> Idle
//
// can be tested without a terminal. Each Submit hands out a Request ticket
// and every ticket settles exactly once.
//
// Time and scrolling are side effects supplied by the caller through the
// Clock and Scroller ports.
//
// # Usage
//
//	s := session.New(session.DefaultConfig())
//	s.SetDraft("What is karma yoga?")
//	req, err := s.Submit()
//	if err != nil {
//	    return // blank draft or already pending
//	}
//	answer, err := client.Ask(ctx, req.Question)
//	if err != nil {
//	    s.ReceiveFailure(req.ID, err)
//	} else {
//	    s.ReceiveSuccess(req.ID, answer)
//	}
package session
