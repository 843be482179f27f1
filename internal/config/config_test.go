// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config directory at a temp dir, runs from another
// temp dir (so no stray .env is picked up) and clears MADHAVA_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("MADHAVA_HOME", home)
	for _, key := range []string{"MADHAVA_API_URL", "MADHAVA_TIMEOUT", "MADHAVA_THEME", "MADHAVA_LOG_LEVEL", "MADHAVA_LOG_FILE"} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
	return home
}

// =============================================================================
// DEFAULT TESTS
// =============================================================================

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Zero(t, cfg.API.Timeout())
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.True(t, cfg.UI.ThemeToggle)
	assert.True(t, cfg.UI.ClearOnlyWhenNonEmpty)
	assert.Equal(t, "24h", cfg.UI.ClockFormat)
	assert.Equal(t, "Madhava - Ask Shree Krishna", cfg.UI.Title)
	assert.NoError(t, cfg.Validate())
}

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
}

func TestLoad_TOML(t *testing.T) {
	home := isolate(t)
	content := `
[api]
base_url = "https://madhava.example.org/"
timeout_seconds = 30

[ui]
theme = "Light"
theme_toggle = false
`
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"), []byte(content), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://madhava.example.org", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout())
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.False(t, cfg.UI.ThemeToggle)
	assert.True(t, cfg.UI.ClearOnlyWhenNonEmpty, "unset keys keep defaults")
	assert.Equal(t, DefaultTitle, cfg.UI.Title)
}

func TestLoad_YAMLFallback(t *testing.T) {
	home := isolate(t)
	content := "api:\n  base_url: http://10.0.0.5:8080\nui:\n  clock_format: 12h\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(content), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8080", cfg.API.BaseURL)
	assert.Equal(t, "12h", cfg.UI.ClockFormat)

	path, err := ActivePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.yaml"), path)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"), []byte("[api]\nbase_url = \"http://file:1\"\n"), 0600))
	t.Setenv("MADHAVA_API_URL", "http://env:2")
	t.Setenv("MADHAVA_THEME", "dark")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", cfg.API.BaseURL)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.Unsetenv("MADHAVA_API_URL"))
	t.Cleanup(func() { os.Unsetenv("MADHAVA_API_URL") })
	require.NoError(t, os.WriteFile(".env", []byte("MADHAVA_API_URL=http://dotenv.local:5000\n"), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv.local:5000", cfg.API.BaseURL)
}

func TestLoad_BrokenFileFallsBackWithError(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"), []byte("[api\nbase_url ="), 0600))

	cfg, err := Load()
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	home := isolate(t)
	cfg := Default()
	cfg.API.BaseURL = "https://saved.example"
	cfg.UI.ClockFormat = "12h"

	require.NoError(t, Save(cfg))

	loaded, err := LoadFrom(filepath.Join(home, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"relative url", func(c *Config) { c.API.BaseURL = "localhost:5000" }, "api.base_url"},
		{"ftp scheme", func(c *Config) { c.API.BaseURL = "ftp://host" }, "api.base_url"},
		{"negative timeout", func(c *Config) { c.API.TimeoutSeconds = -1 }, "api.timeout_seconds"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }, "ui.theme"},
		{"unknown clock", func(c *Config) { c.UI.ClockFormat = "36h" }, "ui.clock_format"},
		{"unknown level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)

			var verrs ValidateErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}
}

// =============================================================================
// GET/SET TESTS
// =============================================================================

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("ui.theme", "dark"))
	require.NoError(t, cfg.Set("api.timeout_seconds", "15"))
	require.NoError(t, cfg.Set("ui.theme_toggle", "no"))
	require.NoError(t, cfg.Set("api.base_url", "http://x:1"))

	v, err := cfg.Get("ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)
	assert.Equal(t, 15, cfg.API.TimeoutSeconds)
	assert.False(t, cfg.UI.ThemeToggle)
	assert.Equal(t, "http://x:1", cfg.API.BaseURL)

	_, err = cfg.Get("ui.nope")
	assert.Error(t, err)
	_, err = cfg.Get("ui")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("api.timeout_seconds", "soon"))
}

func TestKeys_AllResolvable(t *testing.T) {
	cfg := Default()
	for _, key := range Keys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

// =============================================================================
// WATCHER TESTS
// =============================================================================

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"dark\"\n"), 0600))

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	t.Cleanup(func() { w.Close() })

	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"light\"\n"), 0600))

	select {
	case u := <-w.Updates():
		require.NoError(t, u.Err)
		assert.Equal(t, "light", u.Config.UI.Theme)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatcher_ReportsInvalidConfig(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0600))

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	t.Cleanup(func() { w.Close() })

	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600))

	select {
	case u := <-w.Updates():
		assert.Error(t, u.Err)
		assert.Nil(t, u.Config)
	case <-time.After(5 * time.Second):
		t.Fatal("no update after write")
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	home := isolate(t)
	w, err := NewWatcher(filepath.Join(home, "config.toml"), 0)
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestWatcher_CloseClosesUpdates(t *testing.T) {
	home := isolate(t)
	w, err := NewWatcher(filepath.Join(home, "config.toml"), 0)
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Updates():
		assert.False(t, ok, "Updates must be closed after Close")
	case <-time.After(time.Second):
		t.Fatal("Updates still open after Close")
	}
}
