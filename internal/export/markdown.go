// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/madhava-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown with a YAML front matter
// block.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

type frontMatter struct {
	Title        string `yaml:"title"`
	Conversation string `yaml:"conversation"`
	Verse        string `yaml:"verse,omitempty"`
	Messages     int    `yaml:"messages"`
	Exported     string `yaml:"exported"`
	Generator    string `yaml:"generator"`
}

// Export converts a transcript to Markdown.
func (e *MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	exportedAt := e.options.now()

	// yaml.v3 quotes anything that would otherwise break out of the block.
	meta, err := yaml.Marshal(frontMatter{
		Title:        t.Title,
		Conversation: t.ConversationID,
		Verse:        t.Verse,
		Messages:     len(t.Messages),
		Exported:     exportedAt.Format(time.RFC3339),
		Generator:    "madhava-tui",
	})
	if err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(meta)
	sb.WriteString("---\n\n")

	title := t.Title
	if title == "" {
		title = "Conversation"
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(title)))
	if t.Verse != "" {
		sb.WriteString(fmt.Sprintf("Verse: %s\n\n", escapeMarkdown(t.Verse)))
	}

	for i, msg := range t.Messages {
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n",
				formatRoleLabel(msg.Kind),
				msg.Clock(e.options.ClockFormat)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", formatRoleLabel(msg.Kind)))
		}

		sb.WriteString(strings.Join(msg.Lines(), "\n"))
		sb.WriteString("\n\n")

		if i < len(t.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from madhava on %s*\n",
		exportedAt.Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatRoleLabel returns a formatted label for the message kind.
func formatRoleLabel(kind model.Kind) string {
	if !kind.Valid() {
		return "[Unknown]"
	}
	return "[" + kind.DisplayName() + "]"
}

// escapeMarkdown escapes characters that would break a heading.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}
