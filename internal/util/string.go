// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// StringWidth returns the display width of s in terminal cells.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateWidth truncates s to at most maxWidth cells, ending with "..."
// when something was cut.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// WrapWidth breaks a single line into rows no wider than width cells.
// It prefers to break at spaces and falls back to hard breaks for long
// words. Leading indentation on the first row is kept. An empty line
// yields one empty row.
func WrapWidth(line string, width int) []string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var rows []string
	var cur strings.Builder
	curWidth := 0

	flush := func() {
		rows = append(rows, strings.TrimRight(cur.String(), " "))
		cur.Reset()
		curWidth = 0
	}

	for _, word := range splitKeepSpaces(line) {
		w := runewidth.StringWidth(word)
		if curWidth+w <= width {
			cur.WriteString(word)
			curWidth += w
			continue
		}
		if strings.TrimSpace(word) == "" {
			// Spaces at a break point are dropped.
			flush()
			continue
		}
		if curWidth > 0 {
			flush()
		}
		for runewidth.StringWidth(word) > width {
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				// A single rune wider than the row; emit it alone.
				r := []rune(word)
				head = string(r[:1])
			}
			rows = append(rows, head)
			word = word[len(head):]
		}
		cur.WriteString(word)
		curWidth = runewidth.StringWidth(word)
	}
	if cur.Len() > 0 || len(rows) == 0 {
		flush()
	}
	return rows
}

// splitKeepSpaces splits s into alternating runs of spaces and non-spaces.
func splitKeepSpaces(s string) []string {
	var parts []string
	start := 0
	inSpace := false
	for i, r := range s {
		isSpace := r == ' '
		if i == 0 {
			inSpace = isSpace
			continue
		}
		if isSpace != inSpace {
			parts = append(parts, s[start:i])
			start = i
			inSpace = isSpace
		}
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}
