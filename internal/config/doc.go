// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for madhava.
//
// Supports TOML and YAML configuration files, a .env file in the working
// directory, environment variable overrides, validation, and live reload.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - APIConfig: Q&A service location and request timeout
//   - UIConfig: Theme and chat view options
//   - LoggingConfig: Log level and file
//   - Watcher: fsnotify-based reload of the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (MADHAVA_*), including those set by .env
//   - ~/.madhava/config.toml
//   - ~/.madhava/config.yaml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := askapi.NewClientWithConfig(&askapi.ClientConfig{
//	    BaseURL: cfg.API.BaseURL,
//	    Timeout: cfg.API.Timeout(),
//	})
package config
