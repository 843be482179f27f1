// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/madhava-tui/internal/model"
	"github.com/jeranaias/madhava-tui/internal/util"
)

// ErrEmptyTranscript is returned when there is nothing to export.
var ErrEmptyTranscript = errors.New("conversation has no messages")

// =============================================================================
// FORMATS
// =============================================================================

// Format names an export format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

// ParseFormat accepts "md", "markdown" or "json". Empty means Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q (use md or json)", s)
}

// ParseArgs reads command arguments of the form "[md|json] [path]". A lone
// path picks the format from its extension.
func ParseArgs(args []string) (Format, string, error) {
	format := FormatMarkdown
	formatSet := false
	path := ""

	for _, arg := range args {
		if !formatSet && path == "" {
			if f, err := ParseFormat(arg); err == nil {
				format = f
				formatSet = true
				continue
			}
		}
		if path != "" {
			return "", "", fmt.Errorf("usage: /export [md|json] [path]")
		}
		path = arg
	}

	if path != "" && !formatSet && strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}
	return format, path, nil
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for transcript exporters.
type Exporter interface {
	// Export converts a transcript to the target format and returns the content.
	Export(t *Transcript) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// NewExporter returns the exporter for a format.
func NewExporter(format Format, opts *Options) (Exporter, error) {
	switch format {
	case FormatMarkdown:
		return NewMarkdownExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(opts), nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is a snapshot of one conversation prepared for export.
type Transcript struct {
	ConversationID string          `json:"conversation_id"`
	Title          string          `json:"title"`
	Verse          string          `json:"verse,omitempty"`
	Messages       []model.Message `json:"messages"`
}

// NewTranscript copies msgs into a new transcript.
func NewTranscript(conversationID, title string, msgs []model.Message) *Transcript {
	return &Transcript{
		ConversationID: conversationID,
		Title:          title,
		Messages:       append([]model.Message(nil), msgs...),
	}
}

// Validate reports whether the transcript can be exported.
func (t *Transcript) Validate() error {
	if t == nil {
		return fmt.Errorf("transcript is nil")
	}
	if len(t.Messages) == 0 {
		return ErrEmptyTranscript
	}
	return nil
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is where generated filenames are placed.
	// Default: current working directory
	OutputDir string

	// Path overrides the generated filename. The format's extension is
	// appended when the path has none.
	Path string

	// IncludeTimestamps includes per-message timestamps.
	IncludeTimestamps bool

	// ClockFormat is "24h" or "12h".
	ClockFormat string

	// Now stamps the export (default: time.Now).
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeTimestamps: true,
		ClockFormat:       "24h",
		Now:               time.Now,
	}
}

func (o *Options) now() time.Time {
	if o == nil || o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ToFile exports a transcript in the given format and returns the path written.
func ToFile(t *Transcript, format Format, opts *Options) (string, error) {
	exporter, err := NewExporter(format, opts)
	if err != nil {
		return "", err
	}
	return WriteFile(t, exporter, opts)
}

// WriteFile exports a transcript with exporter and writes it atomically.
func WriteFile(t *Transcript, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := t.Validate(); err != nil {
		return "", err
	}

	content, err := exporter.Export(t)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	outputPath := OutputPath(t, exporter.FileExtension(), opts)
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// OutputPath resolves where a transcript will be written.
func OutputPath(t *Transcript, ext string, opts *Options) string {
	if opts.Path != "" {
		if filepath.Ext(opts.Path) == "" {
			return opts.Path + ext
		}
		return opts.Path
	}

	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	filename := fmt.Sprintf("madhava_%s_%s%s",
		sanitizeFilename(t.Title),
		opts.now().Format("20060102_150405"),
		ext,
	)
	return filepath.Join(dir, filename)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	maxLen := 50
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	// Windows and Unix
	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := make([]rune, 0, len(runes))
	for _, r := range runes {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "conversation"
	}
	return string(result)
}
