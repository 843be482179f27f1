// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	}
	return "unknown"
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON  bool   // Output in JSON format
	Quiet bool   // Suppress banners and progress lines
	URL   string // Overrides api.base_url

	// Command-specific
	Query      string
	Markdown   bool // Render answers as Markdown (ask, chat)
	Force      bool // Overwrite existing files (config init)
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `madhava - Ask Shree Krishna from your terminal

Usage:
  madhava [words...]                 Start the chat TUI (words pre-fill the input)
  madhava ask "question"             Ask a single question
  madhava chat                       Line-mode chat with history
  madhava config [subcommand]        Configuration
  madhava version                    Show version
  madhava help                       Show this help

Ask Flags:
  --markdown, --md                   Render the answer as Markdown
  (the question is read from stdin when no words are given)

Config Commands:
  madhava config show                Show the effective configuration
  madhava config path                Show the config file location
  madhava config init [--force]      Write a default config.toml
  madhava config get <key>           Show one value
  madhava config set <key> <value>   Change one value
  madhava config keys                List settable keys

Chat Commands (TUI and line mode):
  /clear                             Start over
  /export [md|json] [path]           Save the conversation
  /verse <ref>                       Pin a verse reference
  /help                              Show help
  /quit                              Exit

Global Flags:
  --url URL                          Q&A service base URL
  --json                             Output in JSON format
  -q, --quiet                        Minimal output

Environment:
  MADHAVA_API_URL                    Service base URL (also read from .env)
  MADHAVA_TIMEOUT                    Request timeout in seconds (0 = none)
  MADHAVA_THEME                      auto, dark or light
  MADHAVA_LOG_LEVEL                  debug, info, warn or error
  MADHAVA_HOME                       Config directory (default ~/.madhava)

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "madhava version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// Parse parses os.Args and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses command-line arguments (without the program name).
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs, literal := parseGlobalFlags(argv)

	// If no remaining args, default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	// "--" before any command: every following word is draft text.
	if literal {
		parsedArgs.Raw = remaining
		return CmdTUI, parsedArgs
	}

	word := remaining[0]
	cmd := strings.ToLower(word)
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		parseChatArgs(&parsedArgs, remaining)
		return CmdChat, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Not a command: the words become the TUI's first draft.
		parsedArgs.Raw = append([]string{word}, remaining...)
		return CmdTUI, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
// Everything after "--" is left alone. A "--" ahead of any command word is
// consumed and literal reports that the rest is plain text; after a command
// it is kept for that command's own parser.
func parseGlobalFlags(args []string) (remaining []string, parsedArgs Args, literal bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--":
			if len(remaining) == 0 {
				return append(remaining, args[i+1:]...), parsedArgs, true
			}
			remaining = append(remaining, args[i:]...)
			return remaining, parsedArgs, false
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "--json":
			parsedArgs.JSON = true
		case "--url":
			if i+1 < len(args) {
				i++
				parsedArgs.URL = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--url=") {
				parsedArgs.URL = strings.TrimPrefix(arg, "--url=")
			} else {
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs, false
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining, "markdown", "md")
	args.Markdown = p.BoolFlag("markdown") || p.BoolFlag("md")
	args.Query = JoinPositionalArgs(p, 0)
}

// parseChatArgs parses chat command specific arguments.
func parseChatArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining, "markdown", "md")
	args.Markdown = p.BoolFlag("markdown") || p.BoolFlag("md")
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining, "force", "f")
	args.Subcommand = strings.ToLower(p.Subcommand())
	args.ConfigKey = p.Positional(1)
	args.ConfigVal = JoinPositionalArgs(p, 2)
	args.Force = p.BoolFlag("force") || p.BoolFlag("f")
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// VersionData is the --json payload of the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// HandleVersion prints version information, as JSON with --json.
func HandleVersion(args Args, w io.Writer) error {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		return NewJSONResponse("version", data).Fprint(w)
	}
	PrintVersion(w)
	return nil
}

// HandleHelp handles the "help" command.
func HandleHelp(w io.Writer) {
	PrintUsage(w)
}
