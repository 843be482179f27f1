// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/madhava-tui/internal/ui/styles"
	"github.com/jeranaias/madhava-tui/internal/util"
)

// Welcome panel text.
const (
	WelcomeTitle   = "Welcome to Madhava"
	WelcomeTagline = "Lost in life's chaos? Let Lord Shree Krishna guide your path."
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome is the empty-state panel. One suggestion may be highlighted;
// picking it is up to the caller.
type Welcome struct {
	suggestions []string
	selected    int

	width  int
	height int

	theme *styles.Theme
}

// NewWelcome creates a welcome panel with nothing highlighted.
func NewWelcome(suggestions []string, theme *styles.Theme) Welcome {
	return Welcome{
		suggestions: append([]string(nil), suggestions...),
		selected:    -1,
		theme:       theme,
	}
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// Next highlights the next suggestion, wrapping around.
func (w *Welcome) Next() {
	if len(w.suggestions) == 0 {
		return
	}
	w.selected = (w.selected + 1) % len(w.suggestions)
}

// Prev highlights the previous suggestion, wrapping around.
func (w *Welcome) Prev() {
	if len(w.suggestions) == 0 {
		return
	}
	if w.selected <= 0 {
		w.selected = len(w.suggestions) - 1
		return
	}
	w.selected--
}

// Reset removes the highlight.
func (w *Welcome) Reset() {
	w.selected = -1
}

// Selected returns the highlighted index, or -1.
func (w Welcome) Selected() int {
	return w.selected
}

// View renders the panel centered in the available space.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 20
	}

	boxWidth := clampWidth(width-8, 30, 70)
	textWidth := boxWidth - w.theme.WelcomeBox.GetHorizontalFrameSize()

	lines := []string{
		w.theme.WelcomeTitle.Render(WelcomeTitle),
		"",
	}
	for _, row := range util.WrapWidth(WelcomeTagline, textWidth) {
		lines = append(lines, w.theme.WelcomeTagline.Render(row))
	}
	lines = append(lines, "", w.theme.WelcomeHint.Render("Try asking:"), "")

	for i, s := range w.suggestions {
		label := util.TruncateWidth(fmt.Sprintf("%d. %s", i+1, s), textWidth-2)
		if i == w.selected {
			lines = append(lines, w.theme.SuggestionActive.Render(label))
		} else {
			lines = append(lines, w.theme.Suggestion.Render(label))
		}
	}
	lines = append(lines, "", w.theme.WelcomeHint.Render("Tab to browse, Enter to use a suggestion"))

	box := w.theme.WelcomeBox.Width(boxWidth).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
