// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the madhava TUI.
package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects how the theme picks dark or light colors.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// ParseMode converts a config string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeDark:
		return ModeDark, nil
	case ModeLight:
		return ModeLight, nil
	}
	return ModeAuto, fmt.Errorf("unknown theme %q", s)
}

// detectDark is replaced in tests.
var detectDark = termenv.HasDarkBackground

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderVerse    lipgloss.Style

	// ==========================================================================
	// MESSAGE BLOCK STYLES
	// ==========================================================================

	UserBlock      lipgloss.Style
	AssistantBlock lipgloss.Style
	ErrorBlock     lipgloss.Style
	MessageLabel   lipgloss.Style
	Timestamp      lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputDisabled    lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	SubmitHint       lipgloss.Style
	SubmitBusy       lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Notice       lipgloss.Style

	// ==========================================================================
	// LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// ==========================================================================
	// WELCOME SCREEN STYLES
	// ==========================================================================

	WelcomeBox       lipgloss.Style
	WelcomeTitle     lipgloss.Style
	WelcomeTagline   lipgloss.Style
	WelcomeHint      lipgloss.Style
	Suggestion       lipgloss.Style
	SuggestionActive lipgloss.Style
}

// NewTheme creates a theme in the given mode. ModeAuto asks the terminal
// for its background color.
func NewTheme(mode Mode) *Theme {
	isDark := true
	switch mode {
	case ModeLight:
		isDark = false
	case ModeDark:
		isDark = true
	default:
		isDark = detectDark()
	}

	t := &Theme{ColorProfile: termenv.ColorProfile()}
	t.SetDark(isDark)
	return t
}

// SetDark switches between the dark and light variants of every color.
func (t *Theme) SetDark(dark bool) {
	t.IsDark = dark
	lipgloss.SetHasDarkBackground(dark)
	t.initStyles()
}

// Toggle flips between dark and light and returns the new mode.
func (t *Theme) Toggle() Mode {
	t.SetDark(!t.IsDark)
	return t.Mode()
}

// Mode returns the explicit mode currently drawn.
func (t *Theme) Mode() Mode {
	if t.IsDark {
		return ModeDark
	}
	return ModeLight
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Saffron)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderVerse = lipgloss.NewStyle().
		Foreground(Marigold)

	// Message blocks
	t.UserBlock = lipgloss.NewStyle().
		Foreground(UserBlockFg).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(UserBlockBorder).
		PaddingLeft(1).
		MarginLeft(4)

	t.AssistantBlock = lipgloss.NewStyle().
		Foreground(AssistantBlockFg).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(AssistantBlockBorder).
		PaddingLeft(1).
		MarginRight(4)

	t.ErrorBlock = lipgloss.NewStyle().
		Foreground(ErrorBlockFg).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(ErrorBlockBorder).
		PaddingLeft(1).
		MarginRight(4)

	t.MessageLabel = lipgloss.NewStyle().
		Bold(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Peacock).
		Padding(0, 1)

	t.InputDisabled = t.InputContainer.
		BorderForeground(Overlay)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Saffron).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.SubmitHint = lipgloss.NewStyle().
		Foreground(Saffron).
		Bold(true)

	t.SubmitBusy = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Saffron).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Notice = lipgloss.NewStyle().
		Foreground(Marigold)

	// Loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Saffron)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Welcome
	t.WelcomeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Saffron).
		Padding(1, 3).
		Align(lipgloss.Center)

	t.WelcomeTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Saffron)

	t.WelcomeTagline = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.WelcomeHint = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Suggestion = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.SuggestionActive = lipgloss.NewStyle().
		Foreground(Saffron).
		Background(SelectionBg).
		Bold(true).
		Padding(0, 1)
}
