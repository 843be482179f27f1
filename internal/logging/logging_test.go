// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("whatever"))
}

func TestNewWriter_JSONLinesRespectLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter("warn", &buf).Named("chat").With(zap.String("request_id", "req_1"))

	log.Info("dropped")
	log.Warn("request settled", zap.String("outcome", "failure"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "chat", entry["logger"])
	assert.Equal(t, "request settled", entry["msg"])
	assert.Equal(t, "req_1", entry["request_id"])
	assert.Equal(t, "failure", entry["outcome"])
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "madhava.log")
	log, err := New("info", path)
	require.NoError(t, err)

	log.Info("hello")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)

	_, err = New("info", "")
	assert.Error(t, err)
}

func TestGlobal_DefaultsToNop(t *testing.T) {
	t.Cleanup(func() { SetGlobal(nil) })

	require.NotNil(t, Global())
	Global().Info("goes nowhere")

	var buf bytes.Buffer
	SetGlobal(NewWriter("info", &buf))
	Global().Info("captured")
	assert.Contains(t, buf.String(), "captured")

	SetGlobal(nil)
	assert.NotNil(t, Global())
}
