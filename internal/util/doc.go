// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across packages.
//
//   - AtomicWriteFile: crash-safe file writes for config and exports
//   - TruncateWidth, WrapWidth: width-aware string shaping
package util
