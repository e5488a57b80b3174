package archive

import (
	"archive/tar"
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charlievieth/fastwalk"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// Compression selects the tar payload compression.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// CreateResult reports what a create operation wrote.
type CreateResult struct {
	Output    string `json:"output"`
	Files     int    `json:"files"`
	TotalSize int64  `json:"total_size"`
}

// CreateZip archives the contents of sourceDir into a new zip at output.
func (t *Tool) CreateZip(ctx context.Context, sourceDir, output string) (*CreateResult, error) {
	zipFile, err := os.Create(output)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)
	defer zw.Close()

	res := &CreateResult{Output: output}
	conf := fastwalk.Config{Follow: false}

	err = fastwalk.Walk(&conf, sourceDir, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil || path == sourceDir {
			return nil
		}

		rel, _ := filepath.Rel(sourceDir, path)
		if d.IsDir() {
			_, err := zw.Create(rel + "/")
			return err
		}

		w, err := zw.Create(rel)
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer file.Close()

		n, _ := io.Copy(w, file)
		res.TotalSize += n
		res.Files++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("zip creation: %w", err)
	}

	t.log.Info("archive created",
		zap.String("output", output),
		zap.Int("files", res.Files))
	return res, nil
}

// CreateTar archives sourceDir into a tar at output, optionally gzip or
// zstd compressed.
func (t *Tool) CreateTar(ctx context.Context, sourceDir, output string, compression Compression) (*CreateResult, error) {
	outFile, err := os.Create(output)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	defer outFile.Close()

	var tw *tar.Writer
	switch compression {
	case CompressionGzip:
		gz := gzip.NewWriter(outFile)
		defer gz.Close()
		tw = tar.NewWriter(gz)
	case CompressionZstd:
		zw, err := zstd.NewWriter(outFile)
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		defer zw.Close()
		tw = tar.NewWriter(zw)
	default:
		tw = tar.NewWriter(outFile)
	}
	defer tw.Close()

	res := &CreateResult{Output: output}
	conf := fastwalk.Config{Follow: false}

	err = fastwalk.Walk(&conf, sourceDir, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil || path == sourceDir {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return nil
		}
		rel, _ := filepath.Rel(sourceDir, path)
		header.Name = rel

		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer file.Close()

		n, _ := io.Copy(tw, file)
		res.TotalSize += n
		res.Files++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tar creation: %w", err)
	}

	t.log.Info("archive created",
		zap.String("output", output),
		zap.Int("files", res.Files),
		zap.String("compression", string(compression)))
	return res, nil
}
