// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat view: header, body, input and footer.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderBody(),
		m.renderInput(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	h := m.header
	h.Verse = m.session.SelectedVerse()
	h.ShowClear = m.keys.Clear.Enabled()
	h.ShowTheme = m.opts.ThemeToggle
	h.Dark = m.theme.IsDark
	return h.View()
}

// renderBody shows the welcome panel until the first question is asked.
func (m Model) renderBody() string {
	if len(m.session.Messages()) == 0 && !m.session.Pending() {
		return m.welcome.View()
	}
	return m.viewport.View()
}

func (m Model) renderInput() string {
	pending := m.session.Pending()

	style := m.theme.InputContainer
	hint := m.theme.SubmitHint.Render(submitHint(pending))
	if pending {
		style = m.theme.InputDisabled
		hint = m.theme.SubmitBusy.Render(submitHint(pending))
	}

	inner := m.width - style.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}
	row := lipgloss.PlaceHorizontal(inner, lipgloss.Right, hint)
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, m.input.View(), row))
}

func (m Model) renderFooter() string {
	if m.notice != "" {
		return m.theme.StatusBar.Render(m.theme.Notice.Render(m.notice))
	}
	if m.showHelp {
		lines := []string{
			m.help.FullHelpView(m.keys.FullHelp()),
			m.theme.ShortcutDesc.Render("commands: " + CommandSummary),
		}
		if m.opts.BaseURL != "" {
			lines = append(lines, m.theme.ShortcutDesc.Render("service: "+m.opts.BaseURL))
		}
		return m.theme.StatusBar.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}
	return m.theme.StatusBar.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// submitHint is the label next to the input.
func submitHint(pending bool) string {
	if pending {
		return "Thinking..."
	}
	return "Ask"
}
