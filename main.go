// madhava - Ask Shree Krishna from your terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/madhava-tui/internal/askapi"
	"github.com/jeranaias/madhava-tui/internal/cli"
	"github.com/jeranaias/madhava-tui/internal/config"
	"github.com/jeranaias/madhava-tui/internal/logging"
	"github.com/jeranaias/madhava-tui/internal/session"
	"github.com/jeranaias/madhava-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	logger := setupLogging()
	defer func() { _ = logger.Sync() }()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdAsk:
		err = cli.HandleAskCommand(args)
	case cli.CmdChat:
		err = cli.HandleChatCommand(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args, os.Stdout)
	case cli.CmdVersion:
		err = cli.HandleVersion(args, os.Stdout)
	case cli.CmdHelp:
		cli.HandleHelp(os.Stdout)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", cmd.String()), zap.Error(err))
		cli.DisplayError(os.Stderr, err, false)
		_ = logger.Sync()
		os.Exit(cli.GetExitCode(err))
	}
}

// setupLogging points the global logger at the configured log file. The
// terminal belongs to the UI, so nothing is logged to stdout or stderr.
func setupLogging() *logging.Logger {
	cfg, _ := config.Load()
	if cfg == nil {
		cfg = config.Default()
	}

	path := cfg.Logging.File
	if path == "" {
		p, err := config.DefaultLogPath()
		if err != nil {
			return logging.Global()
		}
		path = p
	}

	logger, err := logging.New(cfg.Logging.Level, path)
	if err != nil {
		return logging.Global()
	}
	logging.SetGlobal(logger)
	return logger
}

// runTUI starts the full-screen chat.
func runTUI(args cli.Args) error {
	cfg, err := cli.LoadConfig(args, os.Stderr)
	if err != nil {
		return err
	}
	logger := logging.Global().Named("main")

	newClient := func(baseURL string, timeout time.Duration) session.Asker {
		return askapi.NewClientWithConfig(&askapi.ClientConfig{
			BaseURL:   baseURL,
			Timeout:   timeout,
			UserAgent: "madhava/" + Version,
		})
	}

	m := chat.New(newClient(cfg.API.BaseURL, cfg.API.Timeout()), chat.OptionsFromConfig(cfg)).
		WithClientFactory(newClient).
		WithDraft(strings.Join(args.Raw, " "))

	// A --url flag pins the service; reloads would otherwise replace it.
	if args.URL == "" {
		if path, err := config.ActivePath(); err == nil {
			if w, err := config.NewWatcher(path, 0); err == nil {
				if err := w.Watch(); err != nil {
					logger.Warn("config hot reload disabled", zap.String("path", path), zap.Error(err))
					_ = w.Close()
				} else {
					defer w.Close()
					m = m.WithWatcher(w)
				}
			}
		}
	}

	logger.Info("starting chat", zap.String("base_url", cfg.API.BaseURL), zap.String("version", Version))

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI failed: %w", err)
	}
	return nil
}
