// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for madhava.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/madhava-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete madhava configuration.
type Config struct {
	// Q&A service configuration
	API APIConfig `toml:"api" yaml:"api" json:"api"`

	// Chat view configuration
	UI UIConfig `toml:"ui" yaml:"ui" json:"ui"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging" yaml:"logging" json:"logging"`
}

// APIConfig locates the Q&A service.
type APIConfig struct {
	// BaseURL of the service; the ask endpoint is {BaseURL}/api/ask
	BaseURL string `toml:"base_url" yaml:"base_url" json:"base_url"`
	// TimeoutSeconds per request; 0 leaves hangs to the transport
	TimeoutSeconds int `toml:"timeout_seconds" yaml:"timeout_seconds" json:"timeout_seconds"`
}

// Timeout returns TimeoutSeconds as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// UIConfig contains chat view options.
type UIConfig struct {
	// Theme is "auto", "dark" or "light"
	Theme string `toml:"theme" yaml:"theme" json:"theme"`
	// ThemeToggle enables the dark/light toggle key
	ThemeToggle bool `toml:"theme_toggle" yaml:"theme_toggle" json:"theme_toggle"`
	// ClearOnlyWhenNonEmpty hides the clear action while the conversation is empty
	ClearOnlyWhenNonEmpty bool `toml:"clear_only_when_non_empty" yaml:"clear_only_when_non_empty" json:"clear_only_when_non_empty"`
	// ClockFormat is "24h" or "12h"
	ClockFormat string `toml:"clock_format" yaml:"clock_format" json:"clock_format"`
	// Title shown in the header
	Title string `toml:"title" yaml:"title" json:"title"`
	// ExportDir is where /export writes transcripts (empty = working directory)
	ExportDir string `toml:"export_dir" yaml:"export_dir" json:"export_dir"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	// Level is debug, info, warn or error
	Level string `toml:"level" yaml:"level" json:"level"`
	// File is the log path (empty = ~/.madhava/madhava.log)
	File string `toml:"file" yaml:"file" json:"file"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	DefaultBaseURL     = "http://localhost:5000"
	DefaultTitle       = "Madhava - Ask Shree Krishna"
	DefaultTheme       = "auto"
	DefaultClockFormat = "24h"
	DefaultLogLevel    = "info"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		UI: UIConfig{
			Theme:                 DefaultTheme,
			ThemeToggle:           true,
			ClearOnlyWhenNonEmpty: true,
			ClockFormat:           DefaultClockFormat,
			Title:                 DefaultTitle,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the madhava configuration directory.
// MADHAVA_HOME overrides the default of ~/.madhava.
func ConfigDir() (string, error) {
	if dir := os.Getenv("MADHAVA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".madhava"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathYAML returns the path to the YAML config file.
func ConfigPathYAML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ActivePath returns the config file Load would read, or the TOML path
// when neither file exists.
func ActivePath() (string, error) {
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	yamlPath, err := ConfigPathYAML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath, nil
	}
	return tomlPath, nil
}

// DefaultLogPath returns ~/.madhava/madhava.log.
func DefaultLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "madhava.log"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads .env from the working directory into the process
// environment. Variables already set win. A missing file is not an error.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load loads configuration from the config file, then applies .env and
// environment overrides, fills defaults and validates.
// A broken config file is reported alongside the defaults it fell back to.
func Load() (*Config, error) {
	var loadErr error
	if err := LoadDotEnv(); err != nil {
		loadErr = err
	}

	path, err := ActivePath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			cfg, err := LoadFrom(path)
			if err == nil {
				return cfg, loadErr
			}
			loadErr = err
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// LoadFrom loads configuration from a specific file with full validation.
// Files ending in .yaml or .yml are read as YAML, everything else as TOML.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := LoadYAML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load YAML config from %s: %w", path, err)
		}
	default:
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadYAML decodes a YAML file over cfg.
func LoadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML file: %w", err)
	}
	return nil
}

// SetDefaults fills in values left empty by a partial config file.
func (c *Config) SetDefaults() {
	defaults := Default()

	c.API.BaseURL = strings.TrimSpace(c.API.BaseURL)
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")

	c.UI.Theme = strings.ToLower(strings.TrimSpace(c.UI.Theme))
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.ClockFormat == "" {
		c.UI.ClockFormat = defaults.UI.ClockFormat
	}
	if c.UI.Title == "" {
		c.UI.Title = defaults.UI.Title
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to a TOML file atomically.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# madhava configuration file\n")
	buf.WriteString("# MADHAVA_API_URL in the environment or .env overrides api.base_url\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Host == "" {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: fmt.Sprintf("must be an absolute URL, got %q", c.API.BaseURL)})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: fmt.Sprintf("scheme must be http or https, got %q", u.Scheme)})
	}

	if c.API.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{Field: "api.timeout_seconds", Message: "must be zero or positive"})
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{Field: "ui.theme", Message: fmt.Sprintf("must be auto, dark or light, got %q", c.UI.Theme)})
	}

	switch c.UI.ClockFormat {
	case "24h", "12h":
	default:
		errs = append(errs, ValidationError{Field: "ui.clock_format", Message: fmt.Sprintf("must be 24h or 12h, got %q", c.UI.ClockFormat)})
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - MADHAVA_API_URL: overrides api.base_url
//   - MADHAVA_TIMEOUT: overrides api.timeout_seconds
//   - MADHAVA_THEME: overrides ui.theme
//   - MADHAVA_LOG_LEVEL: overrides logging.level
//   - MADHAVA_LOG_FILE: overrides logging.file
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("MADHAVA_API_URL"); u != "" {
		c.API.BaseURL = u
	}

	if timeout := os.Getenv("MADHAVA_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			c.API.TimeoutSeconds = secs
		}
	}

	if theme := os.Getenv("MADHAVA_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	if level := os.Getenv("MADHAVA_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if file := os.Getenv("MADHAVA_LOG_FILE"); file != "" {
		c.Logging.File = file
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Keys lists every settable key in dot notation.
func Keys() []string {
	return []string{
		"api.base_url",
		"api.timeout_seconds",
		"ui.theme",
		"ui.theme_toggle",
		"ui.clear_only_when_non_empty",
		"ui.clock_format",
		"ui.title",
		"ui.export_dir",
		"logging.level",
		"logging.file",
	}
}

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("%s is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(part[:1]))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int:
			intVal, err := strconv.Atoi(strVal)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(int64(intVal))
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strVal)
			if err != nil {
				switch strings.ToLower(strVal) {
				case "yes", "on":
					boolVal = true
				case "no", "off":
					boolVal = false
				default:
					return fmt.Errorf("invalid boolean value: %q", strVal)
				}
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}
