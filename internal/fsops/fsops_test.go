package fsops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(nil, nil)
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestMkdirAndCreate(t *testing.T) {
	root := t.TempDir()
	s := testService(t)
	ctx := context.Background()

	dir := filepath.Join(root, "a", "b")
	require.NoError(t, s.Mkdir(ctx, dir))
	assert.True(t, s.Exists(dir))

	file := filepath.Join(dir, "new.txt")
	require.NoError(t, s.CreateFile(ctx, file))
	assert.True(t, s.Exists(file))

	// Creating over an existing file fails.
	assert.Error(t, s.CreateFile(ctx, file))
}

func TestRename(t *testing.T) {
	root := t.TempDir()
	s := testService(t)
	ctx := context.Background()

	old := filepath.Join(root, "old.txt")
	write(t, old, "content")

	newPath, err := s.Rename(ctx, old, "new.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "new.txt"), newPath)
	assert.False(t, s.Exists(old))
	assert.True(t, s.Exists(newPath))
}

func TestRenameRejectsBadNames(t *testing.T) {
	root := t.TempDir()
	s := testService(t)
	ctx := context.Background()

	path := filepath.Join(root, "f.txt")
	write(t, path, "x")
	write(t, filepath.Join(root, "taken.txt"), "y")

	for _, name := range []string{"", ".", "..", "a/b"} {
		_, err := s.Rename(ctx, path, name)
		assert.Error(t, err, "name %q", name)
	}
	_, err := s.Rename(ctx, path, "taken.txt")
	assert.Error(t, err)
	assert.True(t, s.Exists(path))
}

func TestCopyFile(t *testing.T) {
	root := t.TempDir()
	s := testService(t)
	ctx := context.Background()

	src := filepath.Join(root, "src.txt")
	write(t, src, "payload")
	destDir := filepath.Join(root, "dest")
	require.NoError(t, s.Mkdir(ctx, destDir))

	dest, err := s.Copy(ctx, src, destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "src.txt"), dest)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
	assert.True(t, s.Exists(src))
}

func TestCopyTree(t *testing.T) {
	root := t.TempDir()
	s := testService(t)
	ctx := context.Background()

	src := filepath.Join(root, "tree")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	write(t, filepath.Join(src, "a.txt"), "a")
	write(t, filepath.Join(src, "nested", "b.txt"), "b")
	require.NoError(t, os.Symlink("a.txt", filepath.Join(src, "link")))

	destDir := filepath.Join(root, "out")
	require.NoError(t, s.Mkdir(ctx, destDir))

	dest, err := s.Copy(ctx, src, destDir)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dest, "nested", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))

	target, err := os.Readlink(filepath.Join(dest, "link"))
	require.NoError(t, err)
	assert.Equal(t, "a.txt", target)
}

func TestCopyConflictName(t *testing.T) {
	root := t.TempDir()
	s := testService(t)
	ctx := context.Background()

	src := filepath.Join(root, "doc.txt")
	write(t, src, "new")
	destDir := filepath.Join(root, "dest")
	require.NoError(t, s.Mkdir(ctx, destDir))
	write(t, filepath.Join(destDir, "doc.txt"), "old")

	dest, err := s.Copy(ctx, src, destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "doc (1).txt"), dest)

	dest2, err := s.Copy(ctx, src, destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "doc (2).txt"), dest2)
}

func TestCopyIntoItselfFails(t *testing.T) {
	root := t.TempDir()
	s := testService(t)

	src := filepath.Join(root, "tree")
	require.NoError(t, os.MkdirAll(src, 0o755))

	_, err := s.Copy(context.Background(), src, src)
	assert.Error(t, err)
}

func TestMove(t *testing.T) {
	root := t.TempDir()
	s := testService(t)
	ctx := context.Background()

	src := filepath.Join(root, "m.txt")
	write(t, src, "move me")
	destDir := filepath.Join(root, "dest")
	require.NoError(t, s.Mkdir(ctx, destDir))

	dest, err := s.Move(ctx, src, destDir)
	require.NoError(t, err)
	assert.False(t, s.Exists(src))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "move me", string(got))
}

func TestDelete(t *testing.T) {
	root := t.TempDir()
	s := testService(t)
	ctx := context.Background()

	dir := filepath.Join(root, "victim")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	write(t, filepath.Join(dir, "f.txt"), "x")

	require.NoError(t, s.Delete(ctx, dir))
	assert.False(t, s.Exists(dir))

	assert.Error(t, s.Delete(ctx, "/"))
	assert.Error(t, s.Delete(ctx, ""))
}

func TestDirSize(t *testing.T) {
	root := t.TempDir()
	s := testService(t)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.bin"), make([]byte, 100), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.bin"), make([]byte, 50), 0o644))

	size, files, err := s.DirSize(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, int64(150), size)
	assert.Equal(t, int64(2), files)
}
