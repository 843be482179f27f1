// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat transcripts to disk.
//
// # Key Types
//
//   - Transcript: A read-only copy of one conversation
//   - Exporter: Format interface (Markdown, JSON)
//   - Options: Output directory, explicit path and clock
//
// # Usage
//
//	t := export.NewTranscript(sess.ConversationID(), "Madhava", sess.Messages())
//	path, err := export.ToFile(t, export.FormatMarkdown, export.DefaultOptions())
//
// Files are written atomically; a reader never sees a partial transcript.
package export
