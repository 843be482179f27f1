// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI front ends for
// madhava.
//
// # Key Types
//
//   - Command: Enumeration of the CLI commands
//   - Args: Parsed command-line arguments
//   - ArgParser: Flag and positional parsing shared by commands
//   - Repl: Line-mode chat loop used by "madhava chat"
//   - JSONResponse: Machine-readable output for --json
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//	    err = cli.HandleAskCommand(args)
//	case cli.CmdChat:
//	    err = cli.HandleChatCommand(args)
//	}
//
// # Commands Overview
//
//   - (none): Start the TUI
//   - ask: One question, answer on stdout
//   - chat: Line-mode chat with history
//   - config: Show, locate, create or edit the config file
//   - version, help
package cli
