package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs", "drafts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	write := func(rel, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644))
	}
	write("docs/report.md", "quarterly report\nrevenue up\n")
	write("docs/drafts/report-old.md", "old report\n")
	write("docs/notes.txt", "meeting notes\n")
	write("src/main.go", "package main\n")
	write("src/report.go", "package main // report generator\n")
	return root
}

func names(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Name
	}
	return out
}

func TestFindByName(t *testing.T) {
	root := fixtureTree(t)
	s := NewService(nil)

	results, err := s.Find(context.Background(), root, Options{Query: "report"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"report.md", "report-old.md", "report.go"}, names(results))
}

func TestFindCaseInsensitive(t *testing.T) {
	root := fixtureTree(t)
	s := NewService(nil)

	results, err := s.Find(context.Background(), root, Options{Query: "REPORT"})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestFindWithExtensionFilter(t *testing.T) {
	root := fixtureTree(t)
	s := NewService(nil)

	results, err := s.Find(context.Background(), root, Options{
		Query:      "report",
		Extensions: []string{"md"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"report.md", "report-old.md"}, names(results))
}

func TestFindSizeFilter(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "big-file.bin"), make([]byte, 1000), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "small-file.bin"), make([]byte, 10), 0o644))

	s := NewService(nil)
	results, err := s.Find(context.Background(), root, Options{Query: "file", MinSize: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"big-file.bin"}, names(results))
}

func TestFindRequiresQuery(t *testing.T) {
	s := NewService(nil)
	_, err := s.Find(context.Background(), t.TempDir(), Options{})
	assert.Error(t, err)
}

func TestFindRespectsLimit(t *testing.T) {
	root := t.TempDir()
	for _, n := range []string{"hit1.txt", "hit2.txt", "hit3.txt", "hit4.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, n), []byte("x"), 0o644))
	}

	s := NewService(nil)
	results, err := s.Find(context.Background(), root, Options{Query: "hit", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestGlob(t *testing.T) {
	root := fixtureTree(t)
	s := NewService(nil)

	results, err := s.Glob(context.Background(), root, "**/*.md")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"report.md", "report-old.md"}, names(results))
}

func TestRecent(t *testing.T) {
	root := fixtureTree(t)
	old := filepath.Join(root, "docs", "notes.txt")
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	s := NewService(nil)
	results, err := s.Recent(context.Background(), root, 24*time.Hour, 100)
	require.NoError(t, err)
	assert.NotContains(t, names(results), "notes.txt")
	assert.Contains(t, names(results), "report.md")
}

func TestSearchContent(t *testing.T) {
	root := fixtureTree(t)
	s := NewService(nil)

	matches, err := s.SearchContent(context.Background(), root, "revenue", nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, filepath.Join(root, "docs", "report.md"), matches[0].Path)
	assert.Equal(t, 2, matches[0].Line)
	assert.Equal(t, "revenue up", matches[0].Text)
}

func TestSearchContentExtensionFilter(t *testing.T) {
	root := fixtureTree(t)
	s := NewService(nil)

	matches, err := s.SearchContent(context.Background(), root, "report", []string{".go"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, filepath.Join(root, "src", "report.go"), matches[0].Path)
}

func TestSearchContentSkipsBinary(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.bin"), []byte("match\x00me"), 0o644))

	s := NewService(nil)
	matches, err := s.SearchContent(context.Background(), root, "match", nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
