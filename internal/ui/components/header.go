// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/madhava-tui/internal/ui/styles"
	"github.com/jeranaias/madhava-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar of the chat view.
type Header struct {
	Title string
	Verse string
	Width int

	// ShowClear adds the clear hint on the right.
	ShowClear bool
	// ShowTheme adds the theme toggle hint on the right.
	ShowTheme bool
	// Dark reports the current theme for the toggle hint.
	Dark bool

	theme *styles.Theme
}

// NewHeader creates a header.
func NewHeader(title string, theme *styles.Theme) Header {
	return Header{Title: title, Width: 80, theme: theme}
}

// View renders the header.
func (h Header) View() string {
	left := h.theme.HeaderTitle.Render(h.Title)
	if h.Verse != "" {
		left += "  " + h.theme.HeaderVerse.Render("["+h.Verse+"]")
	}

	var right string
	if h.ShowTheme {
		label := "light"
		if !h.Dark {
			label = "dark"
		}
		right += h.theme.ShortcutKey.Render("ctrl+t") + " " + h.theme.ShortcutDesc.Render(label)
	}
	if h.ShowClear {
		if right != "" {
			right += "  "
		}
		right += h.theme.ShortcutKey.Render("ctrl+l") + " " + h.theme.ShortcutDesc.Render("clear")
	}

	inner := h.Width - h.theme.Header.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Too narrow for both; the title wins.
		left = util.TruncateWidth(h.Title, maxInt(inner, 1))
		left = h.theme.HeaderTitle.Render(left)
		return h.theme.Header.Width(maxInt(inner, 1)).Render(left)
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().Width(gap).Render(""), right)
	return h.theme.Header.Render(row)
}
