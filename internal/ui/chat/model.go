// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/madhava-tui/internal/askapi"
	"github.com/jeranaias/madhava-tui/internal/config"
	"github.com/jeranaias/madhava-tui/internal/logging"
	"github.com/jeranaias/madhava-tui/internal/session"
	"github.com/jeranaias/madhava-tui/internal/ui/components"
	"github.com/jeranaias/madhava-tui/internal/ui/styles"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures the chat view.
type Options struct {
	// BaseURL of the Q&A service, shown in the help view
	BaseURL string

	// Timeout per request (0 = none)
	Timeout time.Duration

	// ThemeToggle enables the dark/light toggle
	ThemeToggle bool

	// ClearOnlyWhenNonEmpty hides the clear action while nothing has been asked
	ClearOnlyWhenNonEmpty bool

	// ClockFormat is "24h" or "12h"
	ClockFormat string

	// Title shown in the header
	Title string

	// Theme is the starting color mode
	Theme styles.Mode

	// ExportDir is where /export writes when no path is given
	ExportDir string
}

// DefaultOptions returns the options used when no config is available.
func DefaultOptions() Options {
	return Options{
		BaseURL:               askapi.DefaultBaseURL,
		ThemeToggle:           true,
		ClearOnlyWhenNonEmpty: true,
		ClockFormat:           config.DefaultClockFormat,
		Title:                 config.DefaultTitle,
		Theme:                 styles.ModeAuto,
	}
}

// OptionsFromConfig maps the config file onto view options. Unknown theme
// names fall back to auto detection.
func OptionsFromConfig(cfg *config.Config) Options {
	mode, err := styles.ParseMode(cfg.UI.Theme)
	if err != nil {
		mode = styles.ModeAuto
	}
	return Options{
		BaseURL:               cfg.API.BaseURL,
		Timeout:               cfg.API.Timeout(),
		ThemeToggle:           cfg.UI.ThemeToggle,
		ClearOnlyWhenNonEmpty: cfg.UI.ClearOnlyWhenNonEmpty,
		ClockFormat:           cfg.UI.ClockFormat,
		Title:                 cfg.UI.Title,
		Theme:                 mode,
		ExportDir:             cfg.UI.ExportDir,
	}
}

// ClientFactory builds a new asker when the service location changes.
type ClientFactory func(baseURL string, timeout time.Duration) session.Asker

// =============================================================================
// MODEL
// =============================================================================

// scrollState is shared by every copy of the model. The session's scroll
// port marks it and the next viewport sync jumps to the bottom.
type scrollState struct {
	toLatest bool
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	opts Options

	// Conversation state
	session *session.Session
	asker   session.Asker
	scroll  *scrollState

	// Components
	input    textarea.Model
	viewport viewport.Model
	typing   components.TypingIndicator
	welcome  components.Welcome
	header   components.Header
	help     help.Model
	keys     KeyMap
	theme    *styles.Theme

	// Background
	watcher   *config.Watcher
	newClient ClientFactory
	logger    *logging.Logger

	// Layout
	width    int
	height   int
	showHelp bool

	// notice is a one-line status shown in the footer until the next key press.
	notice string
}

// New creates a chat view that sends questions to asker.
func New(asker session.Asker, opts Options) Model {
	if opts.Title == "" {
		opts.Title = config.DefaultTitle
	}
	if opts.ClockFormat == "" {
		opts.ClockFormat = config.DefaultClockFormat
	}

	theme := styles.NewTheme(opts.Theme)
	scroll := &scrollState{}

	cfg := session.DefaultConfig()
	cfg.Scroller = session.ScrollFunc(func() { scroll.toLatest = true })
	sess := session.New(cfg)

	ta := textarea.New()
	ta.Placeholder = "Ask Madhava anything..."
	ta.ShowLineNumbers = false
	ta.Prompt = "> "
	ta.CharLimit = 0
	ta.SetHeight(3)
	// Enter submits; newlines go through KeyMap.Newline.
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	m := Model{
		opts:     opts,
		session:  sess,
		asker:    asker,
		scroll:   scroll,
		input:    ta,
		viewport: viewport.New(80, 10),
		typing:   components.NewTypingIndicator(theme),
		welcome:  components.NewWelcome(sess.Suggestions(), theme),
		header:   components.NewHeader(opts.Title, theme),
		help:     help.New(),
		keys:     DefaultKeyMap(),
		theme:    theme,
		logger:   conversationLogger(logging.Global().Named("chat"), sess),
		width:    80,
		height:   24,
	}
	m.applyInputStyles()
	m.layout()
	return m
}

// WithWatcher attaches a config watcher. Reloaded configs are applied live.
func (m Model) WithWatcher(w *config.Watcher) Model {
	m.watcher = w
	return m
}

// WithClientFactory sets how a new asker is built after the base URL or
// timeout changes on reload.
func (m Model) WithClientFactory(f ClientFactory) Model {
	m.newClient = f
	return m
}

// WithDraft pre-fills the input, e.g. from command-line words.
func (m Model) WithDraft(text string) Model {
	m.input.SetValue(text)
	m.session.SetDraft(text)
	return m
}

// WithLogger replaces the logger. Entries carry the conversation ID.
func (m Model) WithLogger(l *logging.Logger) Model {
	if l == nil {
		l = logging.Nop()
	}
	m.logger = conversationLogger(l, m.session)
	return m
}

func conversationLogger(l *logging.Logger, sess *session.Session) *logging.Logger {
	return l.With(zap.String("conversation_id", sess.ConversationID()))
}

// Session returns the underlying state container.
func (m Model) Session() *session.Session {
	return m.session
}

// Theme returns the active theme.
func (m Model) Theme() *styles.Theme {
	return m.theme
}

// Options returns the active options.
func (m Model) Options() Options {
	return m.opts
}

// Init starts the cursor blink and the config watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.watcher != nil {
		cmds = append(cmds, waitForConfig(m.watcher))
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// LAYOUT
// =============================================================================

// layout sizes every component from the window dimensions.
func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)
	m.header.Width = m.width
	m.help.Width = m.width

	inputWidth := m.width - m.theme.InputContainer.GetHorizontalFrameSize()
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.SetWidth(inputWidth)

	bodyHeight := m.height - m.chromeHeight()
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = bodyHeight
	m.welcome.SetSize(m.width, bodyHeight)

	m.syncViewport()
}

// chromeHeight is everything except the body.
func (m Model) chromeHeight() int {
	return lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderInput()) + lipgloss.Height(m.renderFooter())
}

// syncViewport re-renders the history and applies a pending scroll request.
func (m *Model) syncViewport() {
	snap := m.session.Snapshot()
	content := components.RenderHistory(snap.Messages, m.width, m.opts.ClockFormat, m.theme)
	if snap.Pending {
		if content != "" {
			content += "\n\n"
		}
		content += m.typing.View()
	}
	m.viewport.SetContent(content)

	if m.scroll.toLatest {
		m.viewport.GotoBottom()
		m.scroll.toLatest = false
	}
	m.syncKeys(snap)
}

// syncKeys enables only the bindings that currently do something, which
// also hides the rest from the help view.
func (m *Model) syncKeys(snap session.Snapshot) {
	empty := len(snap.Messages) == 0
	m.keys.Clear.SetEnabled(!m.opts.ClearOnlyWhenNonEmpty || !empty)
	m.keys.ToggleTheme.SetEnabled(m.opts.ThemeToggle)
	m.keys.NextSuggestion.SetEnabled(empty && len(snap.Suggestions) > 0)
	m.keys.PrevSuggestion.SetEnabled(empty && len(snap.Suggestions) > 0)
	m.keys.Submit.SetHelp("enter", submitHint(snap.Pending))
}

// applyInputStyles copies theme colors into the textarea.
func (m *Model) applyInputStyles() {
	m.input.FocusedStyle.Prompt = m.theme.InputPrompt
	m.input.FocusedStyle.Placeholder = m.theme.InputPlaceholder
	m.input.BlurredStyle.Prompt = m.theme.InputPlaceholder
	m.input.BlurredStyle.Placeholder = m.theme.InputPlaceholder
}
