package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestOpenUTF8(t *testing.T) {
	s := NewService(nil)
	path := writeFile(t, t.TempDir(), "notes.txt", []byte("hello\nworld\n"))

	doc, err := s.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", doc.Content)
	assert.Equal(t, "UTF-8", doc.Charset)
	assert.False(t, doc.CRLF)
}

func TestOpenStripsBOM(t *testing.T) {
	s := NewService(nil)
	path := writeFile(t, t.TempDir(), "bom.txt", []byte("\xEF\xBB\xBFhello\n"))

	doc, err := s.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", doc.Content)
}

func TestOpenNormalizesCRLF(t *testing.T) {
	s := NewService(nil)
	path := writeFile(t, t.TempDir(), "dos.txt", []byte("line one\r\nline two\r\n"))

	doc, err := s.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", doc.Content)
	assert.True(t, doc.CRLF)
}

func TestSaveRestoresCRLF(t *testing.T) {
	s := NewService(nil)
	path := writeFile(t, t.TempDir(), "dos.txt", []byte("a\r\nb\r\n"))

	doc, err := s.Open(path)
	require.NoError(t, err)

	doc.Content = "a\nb\nc\n"
	require.NoError(t, s.Save(doc))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\r\nb\r\nc\r\n", string(raw))
}

func TestSaveRoundTrip(t *testing.T) {
	s := NewService(nil)
	path := writeFile(t, t.TempDir(), "plain.txt", []byte("before\n"))

	doc, err := s.Open(path)
	require.NoError(t, err)
	doc.Content = "after\n"
	require.NoError(t, s.Save(doc))

	reopened, err := s.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "after\n", reopened.Content)
}

func TestOpenRejectsBinary(t *testing.T) {
	s := NewService(nil)
	// A PNG header is unambiguously binary.
	path := writeFile(t, t.TempDir(), "image.png",
		[]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0, 0, 0, 0})

	_, err := s.Open(path)
	assert.ErrorIs(t, err, ErrNotText)
}

func TestOpenRejectsOversized(t *testing.T) {
	s := NewService(nil)
	path := writeFile(t, t.TempDir(), "huge.txt", make([]byte, MaxFileSize+1))

	_, err := s.Open(path)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestOpenEmptyFile(t *testing.T) {
	s := NewService(nil)
	path := writeFile(t, t.TempDir(), "empty.txt", nil)

	doc, err := s.Open(path)
	require.NoError(t, err)
	assert.Empty(t, doc.Content)
	assert.Equal(t, "UTF-8", doc.Charset)
}

func TestIsText(t *testing.T) {
	s := NewService(nil)
	dir := t.TempDir()

	text := writeFile(t, dir, "a.txt", []byte("plain text content\n"))
	ok, mime, err := s.IsText(text)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, mime, "text/plain")

	bin := writeFile(t, dir, "a.zip", []byte{'P', 'K', 0x03, 0x04, 0, 0, 0, 0})
	ok, _, err = s.IsText(bin)
	require.NoError(t, err)
	assert.False(t, ok)
}
