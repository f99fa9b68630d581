package extractor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func extractString(t *testing.T, filename, content string) (string, error) {
	t.Helper()
	r := bytes.NewReader([]byte(content))
	return Extract(filename, r, int64(len(content)))
}

func TestExtract_PlainText(t *testing.T) {
	got, err := extractString(t, "notes.txt", "hello world\nsecond line")
	require.NoError(t, err)
	require.Equal(t, "hello world\nsecond line", got)
}

func TestExtract_MarkdownStripsFormatting(t *testing.T) {
	src := "# Title\n\nSome **bold** and *italic* text.\n\n- item one\n- item two\n"
	got, err := extractString(t, "readme.md", src)
	require.NoError(t, err)
	require.Contains(t, got, "Title")
	require.Contains(t, got, "Some bold and italic text.")
	require.Contains(t, got, "item one")
	require.NotContains(t, got, "#")
	require.NotContains(t, got, "**")
}

func TestExtract_MarkdownAltExtension(t *testing.T) {
	got, err := extractString(t, "doc.markdown", "plain paragraph")
	require.NoError(t, err)
	require.Contains(t, got, "plain paragraph")
}

func TestExtract_CaseInsensitiveExtension(t *testing.T) {
	got, err := extractString(t, "NOTES.TXT", "upper case name")
	require.NoError(t, err)
	require.Equal(t, "upper case name", got)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	_, err := extractString(t, "image.png", "not really an image")
	require.ErrorIs(t, err, ErrUnsupported)

	_, err = extractString(t, "noextension", "data")
	require.ErrorIs(t, err, ErrUnsupported)
}
