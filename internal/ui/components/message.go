// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/madhava-tui/internal/model"
	"github.com/jeranaias/madhava-tui/internal/ui/styles"
	"github.com/jeranaias/madhava-tui/internal/util"
)

// =============================================================================
// MESSAGE BLOCK COMPONENT
// =============================================================================

// MessageBlock renders one conversation entry.
//
// Content is split on newlines and every line is drawn as its own row.
// Nothing in the text is interpreted as markup.
type MessageBlock struct {
	Message     model.Message
	Width       int
	ClockFormat string
	theme       *styles.Theme
}

// NewMessageBlock creates a block for msg.
func NewMessageBlock(msg model.Message, theme *styles.Theme) MessageBlock {
	return MessageBlock{
		Message:     msg,
		Width:       80,
		ClockFormat: "24h",
		theme:       theme,
	}
}

// View renders the block.
func (b MessageBlock) View() string {
	style := b.blockStyle()

	inner := maxInt(b.Width-style.GetHorizontalFrameSize(), 10)

	rows := make([]string, 0, 4)
	rows = append(rows, b.renderHeader())
	for _, line := range b.Message.Lines() {
		rows = append(rows, util.WrapWidth(line, inner)...)
	}

	return style.Render(strings.Join(rows, "\n"))
}

func (b MessageBlock) blockStyle() lipgloss.Style {
	switch b.Message.Kind {
	case model.KindUser:
		return b.theme.UserBlock
	case model.KindError:
		return b.theme.ErrorBlock
	default:
		return b.theme.AssistantBlock
	}
}

func (b MessageBlock) renderHeader() string {
	label := b.Message.Kind.DisplayName()
	if b.Message.IsError() {
		label = styles.StatusIndicators.Error + " " + label
	}
	return b.theme.MessageLabel.Render(label) + "  " +
		b.theme.Timestamp.Render(b.Message.Clock(b.ClockFormat))
}

// RenderHistory renders every message in order, separated by a blank line.
func RenderHistory(msgs []model.Message, width int, clockFormat string, theme *styles.Theme) string {
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		block := NewMessageBlock(msg, theme)
		block.Width = width
		block.ClockFormat = clockFormat
		parts = append(parts, block.View())
	}
	return strings.Join(parts, "\n\n")
}
