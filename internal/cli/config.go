// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display the effective configuration
//   path                Show configuration file path
//   init [--force]      Write a default config.toml
//   get <key>           Show one effective value
//   set <key> <value>   Set a value in the config file
//   keys                List settable keys
//
// Examples:
//   madhava config
//   madhava config show --json
//   madhava config set api.base_url http://qa.local:5000
//   madhava config set ui.theme light
//   madhava config get api.timeout_seconds

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/madhava-tui/internal/config"
	"github.com/jeranaias/madhava-tui/internal/ui/styles"
)

// =============================================================================
// CONFIG STYLES
// =============================================================================

var (
	configTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(styles.Saffron).
				MarginBottom(1)

	configSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(styles.TextPrimary)

	configKeyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(28)

	configValueStyle = lipgloss.NewStyle().
				Foreground(styles.Tulsi)

	configPathStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)
)

// =============================================================================
// HANDLE CONFIG
// =============================================================================

// HandleConfig handles the "config" command.
func HandleConfig(args Args, out io.Writer) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args, out)
	case "path":
		return handleConfigPath(args, out)
	case "init":
		return handleConfigInit(args, out)
	case "get":
		return handleConfigGet(args, out)
	case "set":
		return handleConfigSet(args, out)
	case "keys":
		for _, key := range config.Keys() {
			fmt.Fprintln(out, key)
		}
		return nil
	default:
		return NewValidationError("config subcommand", args.Subcommand, "must be show, path, init, get, set or keys")
	}
}

// handleConfigShow displays the effective configuration, grouped by section.
func handleConfigShow(args Args, out io.Writer) error {
	cfg, err := LoadConfig(args, os.Stderr)
	if err != nil {
		return err
	}
	path, _ := config.ActivePath()

	if args.JSON {
		return NewJSONResponse("config show", ConfigData{
			Path:   path,
			Exists: fileExists(path),
			Config: cfg,
		}).Fprint(out)
	}

	fmt.Fprintln(out, configTitleStyle.Render("madhava Configuration"))

	section := ""
	for _, key := range config.Keys() {
		name, field, _ := strings.Cut(key, ".")
		if name != section {
			if section != "" {
				fmt.Fprintln(out)
			}
			section = name
			fmt.Fprintln(out, configSectionStyle.Render("["+name+"]"))
		}
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %s%s\n",
			configKeyStyle.Render(field+":"),
			configValueStyle.Render(fmt.Sprint(value)))
	}

	fmt.Fprintln(out)
	if fileExists(path) {
		fmt.Fprintln(out, configPathStyle.Render("Loaded from "+path))
	} else {
		fmt.Fprintln(out, configPathStyle.Render("No config file; defaults and environment in use"))
	}
	return nil
}

// handleConfigPath prints where the config file lives.
func handleConfigPath(args Args, out io.Writer) error {
	path, err := config.ActivePath()
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("config path", ConfigData{Path: path, Exists: fileExists(path)}).Fprint(out)
	}
	fmt.Fprintln(out, path)
	return nil
}

// handleConfigInit writes the default configuration.
func handleConfigInit(args Args, out io.Writer) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	if fileExists(path) && !args.Force {
		return NewCommandError("config", "init", path+" already exists (use --force to overwrite)", nil)
	}
	if err := config.Save(config.Default()); err != nil {
		return NewCommandError("config", "init", "could not write config", err)
	}
	fmt.Fprintln(out, styles.RenderSuccess("Wrote "+path))
	return nil
}

// handleConfigGet prints one effective value.
func handleConfigGet(args Args, out io.Writer) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "madhava config get ui.theme")
	}
	cfg, err := LoadConfig(args, os.Stderr)
	if err != nil {
		return err
	}
	value, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return NewValidationError("key", args.ConfigKey, err.Error())
	}
	if args.JSON {
		return NewJSONResponse("config get", map[string]interface{}{args.ConfigKey: value}).Fprint(out)
	}
	fmt.Fprintln(out, value)
	return nil
}

// handleConfigSet changes one value in the config file. Environment
// overrides are not applied first, so they never leak into the file.
func handleConfigSet(args Args, out io.Writer) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "madhava config set ui.theme dark")
	}

	path, err := config.ActivePath()
	if err != nil {
		return err
	}

	cfg := config.Default()
	if fileExists(path) {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = config.LoadYAML(cfg, path)
		default:
			err = config.LoadTOML(cfg, path)
		}
		if err != nil {
			return err
		}
	}
	cfg.SetDefaults()

	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewValidationError("key", args.ConfigKey, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return NewCommandError("config", "set", "could not write config", err)
	}

	fmt.Fprintln(out, styles.RenderSuccess(fmt.Sprintf("%s = %s", args.ConfigKey, args.ConfigVal)))
	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
