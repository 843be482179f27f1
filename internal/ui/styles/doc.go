// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the madhava TUI.
//
// Every color is a lipgloss.AdaptiveColor with a light and a dark variant.
// Which variant is drawn depends on the background lipgloss believes the
// terminal has; Theme sets that explicitly so the user can toggle between
// dark and light at runtime.
//
// # Key Types
//
//   - Mode: auto, dark or light
//   - Theme: the styled components used by the chat view
//
// # Usage
//
//	theme := styles.NewTheme(styles.ModeAuto)
//	fmt.Println(theme.HeaderTitle.Render("Madhava"))
//	theme.Toggle() // switch dark <-> light
package styles
