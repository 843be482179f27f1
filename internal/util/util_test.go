// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0600))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateWidth(t *testing.T) {
	assert.Equal(t, "hello", TruncateWidth("hello", 5))
	assert.Equal(t, "he...", TruncateWidth("hello world", 5))
	assert.Equal(t, "日本...", TruncateWidth("日本語テキスト", 7))
	assert.Equal(t, "", TruncateWidth("x", 0))
}

func TestWrapWidth(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		width int
		want  []string
	}{
		{"fits", "short line", 20, []string{"short line"}},
		{"empty", "", 10, []string{""}},
		{"word wrap", "the quick brown fox", 10, []string{"the quick", "brown fox"}},
		{"hard break", "abcdefghijkl", 5, []string{"abcde", "fghij", "kl"}},
		{"no width", "anything goes", 0, []string{"anything goes"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WrapWidth(tc.line, tc.width))
		})
	}
}

func TestWrapWidth_RowsNeverExceedWidth(t *testing.T) {
	line := "Lost in life's chaos? Let Lord Shree Krishna guide your path. 日本語のテキストも混ざる"
	for width := 4; width < 30; width++ {
		for _, row := range WrapWidth(line, width) {
			assert.LessOrEqual(t, StringWidth(row), width, "width %d row %q", width, row)
		}
	}
}
