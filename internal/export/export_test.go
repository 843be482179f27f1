// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/madhava-tui/internal/model"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

func testOptions(dir string) *Options {
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

func testTranscript() *Transcript {
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return NewTranscript("conv_1", "Madhava - Ask Shree Krishna", []model.Message{
		model.NewMessage(model.KindUser, "How can I find peace within?", at),
		model.NewMessage(model.KindAssistant, "Line one\n**Line two**", at.Add(time.Minute)),
		model.NewMessage(model.KindError, "Something went wrong. Please try again.", at.Add(2*time.Minute)),
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"Markdown", FormatMarkdown, false},
		{" json ", FormatJSON, false},
		{"html", "", true},
	}
	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantFormat Format
		wantPath   string
		wantErr    bool
	}{
		{"none", nil, FormatMarkdown, "", false},
		{"format only", []string{"json"}, FormatJSON, "", false},
		{"format and path", []string{"md", "out.txt"}, FormatMarkdown, "out.txt", false},
		{"path picks json", []string{"talk.json"}, FormatJSON, "talk.json", false},
		{"path picks markdown", []string{"talk.md"}, FormatMarkdown, "talk.md", false},
		{"too many", []string{"md", "a", "b"}, "", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			format, path, err := ParseArgs(tc.args)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantFormat, format)
			assert.Equal(t, tc.wantPath, path)
		})
	}
}

func TestMarkdownExporter_Export(t *testing.T) {
	tr := testTranscript()
	tr.Verse = "BG 2.47"

	out, err := NewMarkdownExporter(testOptions(t.TempDir())).Export(tr)
	require.NoError(t, err)
	doc := string(out)

	assert.True(t, strings.HasPrefix(doc, "---\n"))
	assert.Contains(t, doc, "### [You] <sub>09:30</sub>")
	assert.Contains(t, doc, "### [Madhava] <sub>09:31</sub>")
	assert.Contains(t, doc, "### [Error] <sub>09:32</sub>")
	assert.Contains(t, doc, "Line one\n**Line two**")
	assert.Contains(t, doc, "Verse: BG 2.47")

	// Messages stay in conversation order.
	assert.Less(t, strings.Index(doc, "[You]"), strings.Index(doc, "[Madhava]"))
	assert.Less(t, strings.Index(doc, "[Madhava]"), strings.Index(doc, "[Error]"))
}

func TestMarkdownExporter_StripsTerminalControls(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	tr := NewTranscript("conv_1", "x", []model.Message{
		model.NewMessage(model.KindAssistant, "hi\x1b]52;c;ZXZpbA==\x07\x1b[2Jthere", at),
	})

	out, err := NewMarkdownExporter(testOptions(t.TempDir())).Export(tr)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "\x1b")
	assert.Contains(t, string(out), "hithere")
}

func TestMarkdownExporter_FrontMatterIsValidYAML(t *testing.T) {
	tr := testTranscript()
	tr.Title = "Tricky: title\ninjected: true"

	out, err := NewMarkdownExporter(testOptions(t.TempDir())).Export(tr)
	require.NoError(t, err)

	parts := strings.SplitN(string(out), "---\n", 3)
	require.Len(t, parts, 3)

	var fm map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "Tricky: title\ninjected: true", fm["title"])
	assert.NotContains(t, fm, "injected")
	assert.Equal(t, 3, fm["messages"])
}

func TestJSONExporter_Export(t *testing.T) {
	out, err := NewJSONExporter(testOptions(t.TempDir())).Export(testTranscript())
	require.NoError(t, err)

	var doc struct {
		ConversationID string          `json:"conversation_id"`
		Title          string          `json:"title"`
		Messages       []model.Message `json:"messages"`
		ExportedAt     time.Time       `json:"exported_at"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "conv_1", doc.ConversationID)
	require.Len(t, doc.Messages, 3)
	assert.Equal(t, model.KindAssistant, doc.Messages[1].Kind)
	assert.Equal(t, "Line one\n**Line two**", doc.Messages[1].Content)
	assert.True(t, fixedNow.Equal(doc.ExportedAt))
}

func TestExport_EmptyTranscript(t *testing.T) {
	empty := NewTranscript("conv_1", "x", nil)

	_, err := NewMarkdownExporter(nil).Export(empty)
	assert.ErrorIs(t, err, ErrEmptyTranscript)

	_, err = ToFile(empty, FormatJSON, testOptions(t.TempDir()))
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestToFile_GeneratedName(t *testing.T) {
	dir := t.TempDir()

	path, err := ToFile(testTranscript(), FormatMarkdown, testOptions(dir))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "madhava_Madhava_-_Ask_Shree_Krishna_20250314_150926.md"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "How can I find peace within?")
}

func TestToFile_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)

	opts.Path = filepath.Join(dir, "nested", "talk")
	path, err := ToFile(testTranscript(), FormatJSON, opts)
	require.NoError(t, err)
	assert.Equal(t, opts.Path+".json", path)
	assert.FileExists(t, path)

	opts.Path = filepath.Join(dir, "talk.txt")
	path, err = ToFile(testTranscript(), FormatMarkdown, opts)
	require.NoError(t, err)
	assert.Equal(t, opts.Path, path)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"simple", "simple"},
		{"with space", "with_space"},
		{"a/b\\c:d", "a-b-c-d"},
		{"", "conversation"},
		{"   ", "conversation"},
		{"bell\x07", "bell-"},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, sanitizeFilename(tc.in), "input %q", tc.in)
	}
}
