// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/madhava-tui/internal/askapi"
	"github.com/jeranaias/madhava-tui/internal/config"
	"github.com/jeranaias/madhava-tui/internal/session"
	"github.com/jeranaias/madhava-tui/internal/ui/styles"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles every message and re-lays out the view afterwards.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.layout()
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case answerMsg:
		return m.handleAnswer(msg)

	case answerErrorMsg:
		return m.handleAnswerError(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		return m, cmd

	case configReloadedMsg:
		return m.handleConfigReload(msg)

	case exportDoneMsg:
		if msg.Err != nil {
			m.logger.Warn("export failed", zap.Error(msg.Err))
			m.notice = styles.RenderError("Export failed: " + msg.Err.Error())
		} else {
			m.logger.Info("conversation exported", zap.String("path", msg.Path))
			m.notice = styles.RenderSuccess("Exported to " + msg.Path)
		}
		return m, nil
	}

	// Cursor blink and anything else the textarea understands.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.notice = ""

	// Global keys work even while a request is pending.
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		return m, m.clear()
	case key.Matches(msg, m.keys.ToggleTheme):
		m.toggleTheme()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	// The input is disabled while waiting for an answer.
	if m.session.Pending() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextSuggestion):
		m.welcome.Next()
		return m, nil
	case key.Matches(msg, m.keys.PrevSuggestion):
		m.welcome.Prev()
		return m, nil
	case key.Matches(msg, m.keys.SuggestionDown) && m.browsingSuggestions():
		m.welcome.Next()
		return m, nil
	case key.Matches(msg, m.keys.SuggestionUp) && m.browsingSuggestions():
		m.welcome.Prev()
		return m, nil
	case key.Matches(msg, m.keys.Newline):
		m.input.InsertString("\n")
		m.session.SetDraft(m.input.Value())
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetDraft(m.input.Value())
	if m.input.Value() != "" {
		m.welcome.Reset()
	}
	return m, cmd
}

// browsingSuggestions reports whether Up/Down move the suggestion highlight.
func (m Model) browsingSuggestions() bool {
	return len(m.session.Messages()) == 0 && strings.TrimSpace(m.input.Value()) == ""
}

// =============================================================================
// SUBMISSION
// =============================================================================

// submit sends the draft, runs a slash command, or picks the highlighted
// suggestion when the draft is empty.
func (m Model) submit() (Model, tea.Cmd) {
	value := m.input.Value()
	trimmed := strings.TrimSpace(value)

	if trimmed == "" && m.welcome.Selected() >= 0 && len(m.session.Messages()) == 0 {
		text, err := m.session.SelectSuggestion(m.welcome.Selected())
		if err != nil {
			return m, nil
		}
		m.input.SetValue(text)
		m.input.CursorEnd()
		m.welcome.Reset()
		return m, nil
	}

	if strings.HasPrefix(trimmed, "/") {
		if !strings.HasPrefix(trimmed, "//") {
			return m.handleCommand(trimmed)
		}
		// A doubled slash sends the text with one slash.
		value = strings.Replace(value, "//", "/", 1)
	}

	m.session.SetDraft(value)
	req, err := m.session.Submit()
	if err != nil {
		// Blank draft: nothing is sent and the input keeps its content.
		return m, nil
	}

	m.input.Reset()
	m.input.Blur()
	m.welcome.Reset()
	m.logger.Info("question submitted",
		zap.String("request_id", req.ID),
		zap.Int("length", len(req.Question)))

	return m, tea.Batch(m.typing.Start(), askCmd(m.asker, req))
}

// handleAnswer settles a request with its answer.
func (m Model) handleAnswer(msg answerMsg) (Model, tea.Cmd) {
	if _, err := m.session.ReceiveSuccess(msg.RequestID, msg.Answer); err != nil {
		m.logger.Warn("answer dropped",
			zap.String("request_id", msg.RequestID),
			zap.Error(err))
		return m, nil
	}
	m.logger.Info("answer received",
		zap.String("request_id", msg.RequestID),
		zap.Duration("duration", msg.Duration),
		zap.Int("length", len(msg.Answer)))
	return m, m.afterSettle()
}

// handleAnswerError settles a request as failed. The user only ever sees
// the fixed failure text; the detail goes to the log.
func (m Model) handleAnswerError(msg answerErrorMsg) (Model, tea.Cmd) {
	if _, err := m.session.ReceiveFailure(msg.RequestID, msg.Err); err != nil {
		m.logger.Warn("failure dropped",
			zap.String("request_id", msg.RequestID),
			zap.Error(err))
		return m, nil
	}

	fields := []zap.Field{
		zap.String("request_id", msg.RequestID),
		zap.Duration("duration", msg.Duration),
		zap.Error(msg.Err),
	}
	var ce *askapi.ClientError
	if errors.As(msg.Err, &ce) {
		fields = append(fields,
			zap.String("error_type", ce.Type.String()),
			zap.Int("status", ce.StatusCode))
	}
	m.logger.Warn("request failed", fields...)
	return m, m.afterSettle()
}

// afterSettle re-enables the input once nothing is pending. A late answer
// for a request that was cleared leaves a newer pending request alone.
func (m *Model) afterSettle() tea.Cmd {
	if m.session.Pending() {
		return nil
	}
	m.typing.Stop()
	return m.input.Focus()
}

// =============================================================================
// ACTIONS
// =============================================================================

// clear empties the conversation. An in-flight request is not cancelled.
func (m *Model) clear() tea.Cmd {
	if m.opts.ClearOnlyWhenNonEmpty && len(m.session.Messages()) == 0 {
		return nil
	}
	inFlight := m.session.Pending()
	m.session.Clear()
	m.typing.Stop()
	m.welcome.Reset()
	m.logger.Info("conversation cleared", zap.Bool("request_in_flight", inFlight))
	return m.input.Focus()
}

// toggleTheme flips between dark and light when the toggle is enabled.
func (m *Model) toggleTheme() bool {
	if !m.opts.ThemeToggle {
		return false
	}
	mode := m.theme.Toggle()
	m.applyInputStyles()
	m.logger.Debug("theme toggled", zap.String("mode", string(mode)))
	return true
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func (m Model) handleConfigReload(msg configReloadedMsg) (Model, tea.Cmd) {
	next := waitForConfig(m.watcher)
	if msg.Update.Err != nil {
		m.logger.Warn("config reload failed", zap.Error(msg.Update.Err))
		m.notice = styles.RenderError("Config reload failed: " + msg.Update.Err.Error())
		return m, next
	}
	m.applyConfig(msg.Update.Config)
	m.logger.Info("config reloaded")
	m.notice = styles.RenderInfo("Config reloaded")
	return m, next
}

// applyConfig applies a reloaded config to the running view.
func (m *Model) applyConfig(cfg *config.Config) {
	opts := OptionsFromConfig(cfg)

	// Auto keeps whatever is drawn now.
	if opts.Theme != m.opts.Theme {
		switch opts.Theme {
		case styles.ModeDark:
			m.theme.SetDark(true)
		case styles.ModeLight:
			m.theme.SetDark(false)
		}
		m.applyInputStyles()
	}

	if m.newClient != nil && (opts.BaseURL != m.opts.BaseURL || opts.Timeout != m.opts.Timeout) {
		m.asker = m.newClient(opts.BaseURL, opts.Timeout)
		m.logger.Info("service changed", zap.String("base_url", opts.BaseURL))
	}

	m.opts = opts
	m.header.Title = opts.Title
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// askCmd sends one question. The answer always comes back as exactly one
// answerMsg or answerErrorMsg, even if the asker panics.
func askCmd(asker session.Asker, req session.Request) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		answer, err := session.SafeAsk(context.Background(), asker, req.Question)
		elapsed := time.Since(start)
		if err != nil {
			return answerErrorMsg{RequestID: req.ID, Err: err, Duration: elapsed}
		}
		return answerMsg{RequestID: req.ID, Answer: answer, Duration: elapsed}
	}
}

// waitForConfig blocks until the watcher delivers the next update.
func waitForConfig(w *config.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-w.Updates()
		if !ok {
			return nil
		}
		return configReloadedMsg{Update: u}
	}
}
