package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paragraph = "Photosynthesis converts light energy into chemical energy inside plant chloroplasts."

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestKind(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	writeFile(t, file, paragraph)

	testCases := []struct {
		name     string
		source   string
		expected SourceKind
	}{
		{name: "https url", source: "https://github.com/user/notes.git", expected: KindGit},
		{name: "ssh url", source: "git@github.com:user/notes.git", expected: KindGit},
		{name: "directory", source: dir, expected: KindDir},
		{name: "file", source: file, expected: KindFile},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			kind, err := Kind(tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, kind)
		})
	}

	_, err := Kind(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	writeFile(t, path, paragraph)

	text, err := (&Loader{}).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, paragraph, text)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "First page of notes.")
	writeFile(t, filepath.Join(dir, "sub", "b.txt"), "Second page of notes that follows.")
	writeFile(t, filepath.Join(dir, "image.png"), "not text")
	writeFile(t, filepath.Join(dir, ".git", "c.md"), "ignored git internals")

	text, err := (&Loader{}).Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "First page of notes. Second page of notes that follows.", text)
}

func TestLoadInsufficientText(t *testing.T) {
	dir := t.TempDir()
	short := filepath.Join(dir, "short.txt")
	writeFile(t, short, "  too short  ")

	_, err := (&Loader{}).Load(context.Background(), short)
	assert.True(t, errors.Is(err, ErrInsufficientText))

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))
	_, err = (&Loader{}).Load(context.Background(), empty)
	assert.True(t, errors.Is(err, ErrInsufficientText))
}

func TestGitURLToLocalPath(t *testing.T) {
	testCases := []struct {
		url      string
		expected string
		wantErr  bool
	}{
		{url: "https://github.com/user/notes.git", expected: filepath.Join("repos", "github.com", "user", "notes")},
		{url: "http://example.com/team/bio", expected: filepath.Join("repos", "example.com", "team", "bio")},
		{url: "git@github.com:user/notes.git", expected: filepath.Join("repos", "github.com", "user", "notes")},
		{url: "not a url", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			got, err := gitURLToLocalPath("repos", tc.url)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
			assert.False(t, strings.HasSuffix(got, ".git"))
		})
	}
}

func TestCheckText(t *testing.T) {
	assert.NoError(t, CheckText(paragraph))
	assert.ErrorIs(t, CheckText(strings.Repeat(" ", 80)+"short"), ErrInsufficientText)
	assert.ErrorIs(t, CheckText(strings.Repeat("a", MinTextLength-1)), ErrInsufficientText)
	assert.NoError(t, CheckText(strings.Repeat("a", MinTextLength)))
}

func TestPlainText(t *testing.T) {
	testCases := []struct {
		name     string
		markdown string
		expected string
	}{
		{
			name:     "heading and emphasis",
			markdown: "# Cells\n\nThe *nucleus* holds **DNA**.",
			expected: "Cells\nThe nucleus holds DNA.",
		},
		{
			name:     "soft line breaks join",
			markdown: "Question: What produces energy?\nAnswer: Mitochondria",
			expected: "Question: What produces energy? Answer: Mitochondria",
		},
		{
			name:     "code blocks dropped",
			markdown: "Before.\n\n```go\nfmt.Println(\"x\")\n```\n\nAfter.",
			expected: "Before.\nAfter.",
		},
		{
			name:     "links keep their text",
			markdown: "See [the cell](https://example.com) and `ATP`.",
			expected: "See the cell and ATP.",
		},
		{
			name:     "list items",
			markdown: "- Ribosomes build proteins.\n- Lysosomes digest waste.",
			expected: "Ribosomes build proteins.\nLysosomes digest waste.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, PlainText([]byte(tc.markdown)))
		})
	}
}

func TestLoadMarkdownFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	writeFile(t, path, "## Photosynthesis\n\n"+paragraph)

	text, err := (&Loader{}).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis\n"+paragraph, text)
}
