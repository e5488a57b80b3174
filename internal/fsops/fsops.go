// Package fsops implements the mutating filesystem operations behind the
// file manager: copy, move, rename, delete, create. Browsing and listing
// live in nav; fsops only changes the world.
package fsops

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/filewright/filewright/backend/internal/monitoring"
	"go.uber.org/zap"
)

// Service performs filesystem mutations. All methods take absolute paths;
// relative paths are the caller's bug and fail on the underlying syscall.
type Service struct {
	log     *zap.Logger
	metrics *monitoring.Metrics
}

// NewService builds a Service. Logger and metrics may be nil.
func NewService(log *zap.Logger, metrics *monitoring.Metrics) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log, metrics: metrics}
}

func (s *Service) record(op string, err error) {
	if s.metrics != nil {
		s.metrics.RecordFileOp(op, err)
	}
}

// Exists reports whether a path exists, without following symlinks.
func (s *Service) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Stat returns file info for a path, following symlinks.
func (s *Service) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Mkdir creates a directory and any missing parents.
func (s *Service) Mkdir(ctx context.Context, path string) error {
	err := os.MkdirAll(path, 0o755)
	s.record("mkdir", err)
	if err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	s.log.Debug("directory created", zap.String("path", path))
	return nil
}

// CreateFile creates an empty file. It fails if the path already exists.
func (s *Service) CreateFile(ctx context.Context, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	s.record("create", err)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return f.Close()
}

// Rename renames an entry within its directory and returns the new path.
// The new name must be a bare name, not a path.
func (s *Service) Rename(ctx context.Context, path, newName string) (string, error) {
	if strings.ContainsRune(newName, os.PathSeparator) || newName == "" || newName == "." || newName == ".." {
		err := fmt.Errorf("invalid name %q", newName)
		s.record("rename", err)
		return "", err
	}
	newPath := filepath.Join(filepath.Dir(path), newName)
	if s.Exists(newPath) {
		err := fmt.Errorf("rename %s: %s already exists", path, newName)
		s.record("rename", err)
		return "", err
	}
	err := os.Rename(path, newPath)
	s.record("rename", err)
	if err != nil {
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	s.log.Info("renamed", zap.String("from", path), zap.String("to", newPath))
	return newPath, nil
}

// Copy copies a file or directory tree into destDir and returns the new
// path. Symlinks are copied as links, not followed.
func (s *Service) Copy(ctx context.Context, source, destDir string) (string, error) {
	dest := filepath.Join(destDir, filepath.Base(source))
	if strings.HasPrefix(dest+string(os.PathSeparator), source+string(os.PathSeparator)) {
		err := fmt.Errorf("cannot copy %s into itself", source)
		s.record("copy", err)
		return "", err
	}
	if s.Exists(dest) {
		dest = conflictName(dest)
	}

	info, err := os.Lstat(source)
	if err != nil {
		s.record("copy", err)
		return "", fmt.Errorf("copy %s: %w", source, err)
	}

	start := time.Now()
	if info.IsDir() {
		err = s.copyTree(ctx, source, dest)
	} else {
		err = copyEntry(source, dest, info)
	}
	s.record("copy", err)
	if err != nil {
		return "", fmt.Errorf("copy %s: %w", source, err)
	}
	s.log.Info("copied",
		zap.String("source", source),
		zap.String("dest", dest),
		zap.Duration("took", time.Since(start)))
	return dest, nil
}

// Move moves a file or directory into destDir and returns the new path.
// Rename is tried first; a cross-device move falls back to copy+delete.
func (s *Service) Move(ctx context.Context, source, destDir string) (string, error) {
	dest := filepath.Join(destDir, filepath.Base(source))
	if dest == source {
		return source, nil
	}
	if s.Exists(dest) {
		dest = conflictName(dest)
	}

	err := os.Rename(source, dest)
	if err != nil {
		// EXDEV or similar; copy then delete the original.
		if _, cerr := s.Copy(ctx, source, destDir); cerr != nil {
			s.record("move", cerr)
			return "", fmt.Errorf("move %s: %w", source, cerr)
		}
		err = os.RemoveAll(source)
	}
	s.record("move", err)
	if err != nil {
		return "", fmt.Errorf("move %s: %w", source, err)
	}
	s.log.Info("moved", zap.String("source", source), zap.String("dest", dest))
	return dest, nil
}

// Delete removes a file or directory tree permanently.
func (s *Service) Delete(ctx context.Context, path string) error {
	if path == "/" || path == "" {
		err := fmt.Errorf("refusing to delete %q", path)
		s.record("delete", err)
		return err
	}
	err := os.RemoveAll(path)
	s.record("delete", err)
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	s.log.Info("deleted", zap.String("path", path))
	return nil
}

// DirSize walks a directory tree and returns its total file size in bytes
// and the number of files counted.
func (s *Service) DirSize(ctx context.Context, path string) (int64, int64, error) {
	var size, files atomic.Int64
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.Type().IsRegular() {
			if info, ierr := d.Info(); ierr == nil {
				size.Add(info.Size())
				files.Add(1)
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("dir size %s: %w", path, err)
	}
	return size.Load(), files.Load(), nil
}

func (s *Service) copyTree(ctx context.Context, source, dest string) error {
	return filepath.WalkDir(source, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(source, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}
		return copyEntry(p, target, info)
	})
}

func copyEntry(source, dest string, info os.FileInfo) error {
	if info.Mode()&fs.ModeSymlink != 0 {
		target, err := os.Readlink(source)
		if err != nil {
			return err
		}
		return os.Symlink(target, dest)
	}

	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// conflictName finds the first free "name (N).ext" variant alongside an
// existing destination.
func conflictName(dest string) string {
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(dest, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		if _, err := os.Lstat(candidate); err != nil {
			return candidate
		}
	}
}
