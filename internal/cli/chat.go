// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode chat command handler.
//
// Command: chat
// Short:   Chat in the terminal without the full-screen interface
//
// Examples:
//   madhava chat
//   madhava chat --markdown
//   madhava chat --url http://qa.local:5000
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /clear, /c          Start over
//   /export [md|json]   Save the conversation
//   /verse <ref>        Pin a verse reference
//   /history            Show the conversation
//   /quit, /q, /exit    Exit chat
//   Ctrl+C              Abandon the current question
//   Ctrl+D              Exit chat

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/jeranaias/madhava-tui/internal/config"
	"github.com/jeranaias/madhava-tui/internal/export"
	"github.com/jeranaias/madhava-tui/internal/logging"
	"github.com/jeranaias/madhava-tui/internal/model"
	"github.com/jeranaias/madhava-tui/internal/session"
	"github.com/jeranaias/madhava-tui/internal/ui/components"
	"github.com/jeranaias/madhava-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Saffron).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Saffron).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Tulsi)

	mutedStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader reads one line of user input.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// Prompt reads a line of input. Non-blank lines are added to the history.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history to file, readable by the owner only.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() error {
	c.SaveHistory()
	return c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// ReplOptions configures a line-mode chat.
type ReplOptions struct {
	Title       string
	ClockFormat string
	ExportDir   string
	BaseURL     string
	Markdown    bool
	Quiet       bool
	Width       int
	Theme       *styles.Theme
}

// Repl is a line-mode chat over a session.
type Repl struct {
	session *session.Session
	asker   session.Asker
	in      LineReader
	out     io.Writer
	opts    ReplOptions
	log     *logging.Logger
}

// NewRepl creates a line-mode chat reading from in and writing to out.
func NewRepl(asker session.Asker, in LineReader, out io.Writer, opts ReplOptions) *Repl {
	if opts.Title == "" {
		opts.Title = config.DefaultTitle
	}
	if opts.ClockFormat == "" {
		opts.ClockFormat = config.DefaultClockFormat
	}
	if opts.Width <= 0 {
		opts.Width = DefaultTerminalWidth
	}
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme(styles.ModeAuto)
	}

	sess := session.New(session.DefaultConfig())
	return &Repl{
		session: sess,
		asker:   asker,
		in:      in,
		out:     out,
		opts:    opts,
		log: logging.Global().Named("chat-cli").
			With(zap.String("conversation_id", sess.ConversationID())),
	}
}

// Session returns the underlying session.
func (r *Repl) Session() *session.Session {
	return r.session
}

// Run reads lines until /quit or end of input.
func (r *Repl) Run(ctx context.Context) error {
	if !r.opts.Quiet {
		r.printWelcome()
	}

	for {
		input, err := r.in.Prompt(promptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				// Ctrl+C at the prompt discards the line.
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				r.printGoodbye()
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		if !r.handleLine(ctx, input) {
			r.printGoodbye()
			return nil
		}
	}
}

// handleLine processes one line. It returns false when the chat should end.
func (r *Repl) handleLine(ctx context.Context, input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return true
	}

	if strings.HasPrefix(trimmed, "//") {
		trimmed = trimmed[1:]
	} else if strings.HasPrefix(trimmed, "/") {
		keepGoing, err := r.handleSlashCommand(trimmed)
		if err != nil {
			fmt.Fprintln(r.out, styles.RenderError(err.Error()))
		}
		return keepGoing
	}

	r.ask(ctx, trimmed)
	return true
}

// ask submits question and prints whatever the session settles with.
func (r *Repl) ask(ctx context.Context, question string) {
	r.session.SetDraft(question)

	// Ctrl+C while waiting abandons this question only.
	askCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if !r.opts.Quiet {
		fmt.Fprintln(r.out, mutedStyle.Render("Thinking..."))
	}

	start := time.Now()
	msg, err := r.session.Ask(askCtx, r.asker)
	r.log.Info("question settled",
		zap.Int("length", len(question)),
		zap.String("kind", msg.Kind.String()),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err))

	if msg.ID == "" {
		// Submit refused the draft; nothing was appended.
		fmt.Fprintln(r.out, styles.RenderError(err.Error()))
		return
	}
	r.printMessage(msg)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand processes slash commands.
// Returns (shouldContinue, error) where shouldContinue=false means exit.
func (r *Repl) handleSlashCommand(cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true, nil
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "/help", "/h", "/?", "/":
		r.printHelp()
		return true, nil

	case "/clear", "/c":
		r.session.Clear()
		fmt.Fprintln(r.out, commandStyle.Render("[Conversation cleared]"))
		return true, nil

	case "/export", "/e":
		return true, r.export(args)

	case "/verse", "/v":
		ref := strings.Join(args, " ")
		r.session.SelectVerse(ref)
		if ref == "" {
			fmt.Fprintln(r.out, styles.RenderInfo("Verse cleared"))
		} else {
			fmt.Fprintln(r.out, styles.RenderInfo("Verse: "+ref))
		}
		return true, nil

	case "/history":
		r.printHistory()
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

// export writes the conversation to disk.
func (r *Repl) export(args []string) error {
	format, path, err := export.ParseArgs(args)
	if err != nil {
		return err
	}

	msgs := r.session.Messages()
	if len(msgs) == 0 {
		fmt.Fprintln(r.out, styles.RenderInfo("Nothing to export yet"))
		return nil
	}

	t := export.NewTranscript(r.session.ConversationID(), r.opts.Title, msgs)
	t.Verse = r.session.SelectedVerse()

	opts := export.DefaultOptions()
	opts.ClockFormat = r.opts.ClockFormat
	if r.opts.ExportDir != "" {
		opts.OutputDir = r.opts.ExportDir
	}
	opts.Path = path

	written, err := export.ToFile(t, format, opts)
	if err != nil {
		return err
	}
	r.log.Info("conversation exported", zap.String("path", written))
	fmt.Fprintln(r.out, styles.RenderSuccess("Exported to "+written))
	return nil
}

// =============================================================================
// DISPLAY
// =============================================================================

func (r *Repl) printMessage(msg model.Message) {
	if r.opts.Markdown && msg.Kind == model.KindAssistant {
		tty := r.out == io.Writer(os.Stdout) && IsStdoutTTY()
		fmt.Fprintf(r.out, "%s %s\n", welcomeStyle.Render(msg.Kind.DisplayName()),
			mutedStyle.Render(msg.Clock(r.opts.ClockFormat)))
		fmt.Fprint(r.out, renderMarkdown(model.CleanText(msg.Content), r.opts.Width, tty))
		return
	}

	block := components.NewMessageBlock(msg, r.opts.Theme)
	block.Width = r.opts.Width
	block.ClockFormat = r.opts.ClockFormat
	fmt.Fprintln(r.out, block.View())
}

func (r *Repl) printWelcome() {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, welcomeStyle.Render(r.opts.Title))
	fmt.Fprintln(r.out, infoStyle.Render(strings.Repeat("─", 30)))
	fmt.Fprintln(r.out, infoStyle.Render("Lost in life's chaos? Let Lord Shree Krishna guide your path."))
	if r.opts.BaseURL != "" {
		fmt.Fprintf(r.out, "%s %s\n", infoStyle.Render("Service:"), commandStyle.Render(r.opts.BaseURL))
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, infoStyle.Render("Try asking:"))
	for _, s := range r.session.Suggestions() {
		fmt.Fprintf(r.out, "  %s\n", commandStyle.Render(s))
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, infoStyle.Render("Type your question and press Enter. Commands: /help, /quit"))
	fmt.Fprintln(r.out)
}

func (r *Repl) printHelp() {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, welcomeStyle.Render("Available Commands"))
	fmt.Fprintln(r.out, infoStyle.Render(strings.Repeat("─", 20)))

	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/clear, /c", "Start over"},
		{"/export [md|json] [path]", "Save the conversation"},
		{"/verse <ref>", "Pin a verse reference"},
		{"/history", "Show the conversation"},
		{"/quit, /q", "Exit chat"},
	}
	for _, c := range commands {
		fmt.Fprintf(r.out, "  %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%-26s", c.cmd)),
			infoStyle.Render(c.desc))
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, infoStyle.Render("Start a line with // to send a question that begins with /"))
	fmt.Fprintln(r.out)
}

func (r *Repl) printHistory() {
	msgs := r.session.Messages()
	if len(msgs) == 0 {
		fmt.Fprintln(r.out, infoStyle.Render("[No messages yet]"))
		return
	}
	fmt.Fprintln(r.out, components.RenderHistory(msgs, r.opts.Width, r.opts.ClockFormat, r.opts.Theme))
}

func (r *Repl) printGoodbye() {
	if r.opts.Quiet {
		return
	}
	if n := r.session.CountByKind(model.KindUser); n > 0 {
		noun := "questions"
		if n == 1 {
			noun = "question"
		}
		fmt.Fprintln(r.out, mutedStyle.Render(fmt.Sprintf("%d %s asked this session. Nothing was saved unless exported.", n, noun)))
	}
	fmt.Fprintln(r.out, infoStyle.Render("Goodbye!"))
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand handles the "chat" command.
func HandleChatCommand(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	cfg, err := LoadConfig(args, os.Stderr)
	if err != nil {
		return err
	}

	mode, err := styles.ParseMode(cfg.UI.Theme)
	if err != nil {
		mode = styles.ModeAuto
	}

	input := NewChatCLI()
	defer input.Close()

	repl := NewRepl(NewAsker(cfg), input, os.Stdout, ReplOptions{
		Title:       cfg.UI.Title,
		ClockFormat: cfg.UI.ClockFormat,
		ExportDir:   cfg.UI.ExportDir,
		BaseURL:     cfg.API.BaseURL,
		Markdown:    args.Markdown,
		Quiet:       args.Quiet,
		Width:       GetTerminalWidth(),
		Theme:       styles.NewTheme(mode),
	})
	return repl.Run(context.Background())
}
