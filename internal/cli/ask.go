// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command handler.
//
// Command: ask [question]
// Short:   Ask a single question
//
// Examples:
//   madhava ask "Why is life full of struggles?"
//   madhava ask --markdown "What is karma yoga?"
//   echo "How can I find peace within?" | madhava ask
//   madhava ask --json --url http://qa.local:5000 "What is dharma?"
//
// Flags:
//   --markdown, --md    Render the answer as Markdown
//   --json              Output response as JSON
//   --url URL           Q&A service base URL
//   -q, --quiet         Minimal output

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/jeranaias/madhava-tui/internal/askapi"
	"github.com/jeranaias/madhava-tui/internal/config"
	"github.com/jeranaias/madhava-tui/internal/logging"
	"github.com/jeranaias/madhava-tui/internal/model"
	"github.com/jeranaias/madhava-tui/internal/session"
)

// maxStdinQuestion caps how much piped input becomes a question (64KB).
const maxStdinQuestion = 64 * 1024

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails.
func renderMarkdown(content string, width int, tty bool) string {
	style := glamour.WithStandardStyle("notty")
	if tty {
		style = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// LoadConfig loads the effective configuration and applies the --url flag.
// Problems that still leave a usable config are reported on warn.
func LoadConfig(args Args, warn io.Writer) (*config.Config, error) {
	cfg, err := config.Load()
	if cfg == nil {
		return nil, err
	}
	if err != nil && !args.Quiet && warn != nil {
		fmt.Fprintf(warn, "Warning: %v (using defaults)\n", err)
	}

	if args.URL != "" {
		cfg.API.BaseURL = args.URL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// NewAsker builds the Q&A service client for cfg.
func NewAsker(cfg *config.Config) *askapi.Client {
	return askapi.NewClientWithConfig(&askapi.ClientConfig{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout(),
		UserAgent: "madhava/" + Version,
	})
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAskCommand handles the "ask" command.
func HandleAskCommand(args Args) error {
	cfg, err := LoadConfig(args, os.Stderr)
	if err != nil {
		return err
	}

	// Ctrl+C abandons the request instead of killing the process mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var in io.Reader
	if !IsTTY() {
		in = os.Stdin
	}

	return RunAsk(ctx, args, NewAsker(cfg), cfg.API.BaseURL, in, os.Stdout)
}

// RunAsk asks one question and writes the answer to out. When args.Query is
// empty the question is read from in, which is nil for an interactive stdin.
func RunAsk(ctx context.Context, args Args, asker session.Asker, baseURL string, in io.Reader, out io.Writer) error {
	question := strings.TrimSpace(args.Query)
	if question == "" && in != nil {
		data, err := io.ReadAll(io.LimitReader(in, maxStdinQuestion))
		if err != nil {
			return NewCommandError("ask", "read", "could not read question from stdin", err)
		}
		question = strings.TrimSpace(string(data))
	}
	if question == "" {
		return ErrMissingArgument("question", `madhava ask "Why is life full of struggles?"`)
	}

	log := logging.Global().Named("ask")

	sess := session.New(session.DefaultConfig())
	sess.SetDraft(question)

	start := time.Now()
	msg, askErr := sess.Ask(ctx, asker)
	elapsed := time.Since(start)
	log.Info("question settled",
		zap.Int("length", len(question)),
		zap.String("kind", msg.Kind.String()),
		zap.Duration("duration", elapsed),
		zap.Error(askErr),
	)

	if args.JSON {
		data := AskData{
			Question:   question,
			Answer:     msg.Content,
			Kind:       msg.Kind.String(),
			DurationMs: elapsed.Milliseconds(),
			BaseURL:    baseURL,
		}
		if askErr != nil {
			if err := NewJSONErrorResponse("ask", askErr, data).Fprint(out); err != nil {
				return err
			}
			return askErr
		}
		return NewJSONResponse("ask", data).Fprint(out)
	}

	if askErr != nil {
		return askErr
	}

	if args.Markdown {
		tty := out == io.Writer(os.Stdout) && IsStdoutTTY()
		fmt.Fprint(out, renderMarkdown(model.CleanText(msg.Content), GetTerminalWidth(), tty))
		return nil
	}

	fmt.Fprintln(out, model.CleanText(msg.Content))
	return nil
}
