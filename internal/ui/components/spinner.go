// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/madhava-tui/internal/ui/styles"
)

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// TypingIndicator is the loading block drawn after the last message while a
// request is pending.
type TypingIndicator struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	isActive  bool
	theme     *styles.Theme
}

// NewTypingIndicator creates an inactive indicator with ASCII frames.
func NewTypingIndicator(theme *styles.Theme) TypingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
		FPS:    time.Second / 6,
	}
	return TypingIndicator{
		spinner:   s,
		message:   "Madhava is reflecting",
		theme:     theme,
	}
}

// Start activates the indicator and returns the first tick.
func (t *TypingIndicator) Start() tea.Cmd {
	t.isActive = true
	t.startTime = time.Now()
	return t.spinner.Tick
}

// Stop deactivates the indicator. Pending ticks are ignored afterwards.
func (t *TypingIndicator) Stop() {
	t.isActive = false
}

// IsActive returns whether the indicator is running.
func (t TypingIndicator) IsActive() bool {
	return t.isActive
}

// Elapsed returns the time since Start.
func (t TypingIndicator) Elapsed() time.Duration {
	if t.startTime.IsZero() {
		return 0
	}
	return time.Since(t.startTime)
}

// Update advances the animation on its own tick messages.
func (t TypingIndicator) Update(msg tea.Msg) (TypingIndicator, tea.Cmd) {
	if !t.isActive {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the indicator, or nothing when inactive.
func (t TypingIndicator) View() string {
	if !t.isActive {
		return ""
	}
	out := t.theme.ThinkingText.Render(t.message) + t.theme.Spinner.Render(t.spinner.View()) +
		t.theme.Timestamp.Render(" ("+formatElapsed(t.Elapsed())+")")
	return t.theme.AssistantBlock.Render(out)
}

// formatElapsed formats a duration as "4s" or "1m05s".
func formatElapsed(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
}
