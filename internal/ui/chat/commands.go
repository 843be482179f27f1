// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/madhava-tui/internal/export"
	"github.com/jeranaias/madhava-tui/internal/ui/styles"
)

// =============================================================================
// COMMAND HANDLER REGISTRY
// =============================================================================

// CommandHandler handles one slash command. It receives the model and the
// command arguments.
type CommandHandler func(m Model, args []string) (Model, tea.Cmd)

// commandHandlers maps command names to their handler functions.
var commandHandlers = map[string]CommandHandler{
	"help":   handleHelpCommand,
	"h":      handleHelpCommand,
	"?":      handleHelpCommand,
	"clear":  handleClearCommand,
	"c":      handleClearCommand,
	"theme":  handleThemeCommand,
	"export": handleExportCommand,
	"e":      handleExportCommand,
	"verse":  handleVerseCommand,
	"v":      handleVerseCommand,
	"quit":   handleQuitCommand,
	"q":      handleQuitCommand,
	"exit":   handleQuitCommand,
}

// CommandSummary is shown in the expanded help view.
const CommandSummary = "/clear  /theme  /export [md|json] [path]  /verse <ref>  /help  /quit"

// handleCommand dispatches a slash command. Unknown commands leave the
// input untouched so it can be corrected.
func (m Model) handleCommand(content string) (Model, tea.Cmd) {
	parts := strings.Fields(content)
	if len(parts) == 0 {
		return m, nil
	}

	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	handler, ok := commandHandlers[name]
	if !ok {
		m.notice = styles.RenderError(fmt.Sprintf("Unknown command: /%s (try /help)", name))
		return m, nil
	}

	m.input.Reset()
	m.session.SetDraft("")
	return handler(m, parts[1:])
}

// =============================================================================
// HANDLERS
// =============================================================================

func handleHelpCommand(m Model, _ []string) (Model, tea.Cmd) {
	m.showHelp = true
	return m, nil
}

func handleClearCommand(m Model, _ []string) (Model, tea.Cmd) {
	return m, m.clear()
}

func handleThemeCommand(m Model, _ []string) (Model, tea.Cmd) {
	if !m.toggleTheme() {
		m.notice = styles.RenderInfo("Theme toggle is disabled")
		return m, nil
	}
	m.notice = styles.RenderInfo("Theme: " + string(m.theme.Mode()))
	return m, nil
}

func handleQuitCommand(m Model, _ []string) (Model, tea.Cmd) {
	return m, tea.Quit
}

// handleVerseCommand pins a verse reference in the header. Without an
// argument it unpins.
func handleVerseCommand(m Model, args []string) (Model, tea.Cmd) {
	ref := strings.Join(args, " ")
	m.session.SelectVerse(ref)
	if ref == "" {
		m.notice = styles.RenderInfo("Verse cleared")
	} else {
		m.notice = styles.RenderInfo("Verse: " + ref)
	}
	return m, nil
}

// handleExportCommand writes the conversation in the background.
func handleExportCommand(m Model, args []string) (Model, tea.Cmd) {
	format, path, err := export.ParseArgs(args)
	if err != nil {
		m.notice = styles.RenderError(err.Error())
		return m, nil
	}

	msgs := m.session.Messages()
	if len(msgs) == 0 {
		m.notice = styles.RenderInfo("Nothing to export yet")
		return m, nil
	}

	t := export.NewTranscript(m.session.ConversationID(), m.opts.Title, msgs)
	t.Verse = m.session.SelectedVerse()

	opts := export.DefaultOptions()
	opts.ClockFormat = m.opts.ClockFormat
	if m.opts.ExportDir != "" {
		opts.OutputDir = m.opts.ExportDir
	}
	opts.Path = path

	m.notice = styles.RenderInfo(fmt.Sprintf("Exporting conversation as %s...", format))
	return m, exportCmd(t, format, opts)
}

// exportCmd writes a transcript off the render loop.
func exportCmd(t *export.Transcript, format export.Format, opts *export.Options) tea.Cmd {
	return func() tea.Msg {
		path, err := export.ToFile(t, format, opts)
		return exportDoneMsg{Path: path, Err: err}
	}
}
