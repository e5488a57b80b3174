package archive

import (
	"archive/tar"
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

// ExtractResult reports what an extract operation wrote.
type ExtractResult struct {
	Destination string `json:"destination"`
	Files       int    `json:"files"`
}

// Extract unpacks archiveFile into destination, detecting the format from
// the file name. Rar extraction shells out to unrar.
func (t *Tool) Extract(ctx context.Context, archiveFile, destination string) (*ExtractResult, error) {
	format, ok := DetectFormat(archiveFile)
	if !ok {
		return nil, fmt.Errorf("unsupported archive format: %s", filepath.Ext(archiveFile))
	}

	if err := os.MkdirAll(destination, 0o755); err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}

	var (
		res *ExtractResult
		err error
	)
	switch format {
	case FormatZip:
		res, err = t.extractZip(ctx, archiveFile, destination)
	case FormatTar, FormatTarGz:
		res, err = t.extractTar(ctx, archiveFile, destination, format == FormatTarGz)
	case FormatRar:
		res, err = t.extractRar(ctx, archiveFile, destination)
	}
	if err != nil {
		return nil, err
	}

	t.log.Info("archive extracted",
		zap.String("archive", archiveFile),
		zap.String("destination", destination),
		zap.Int("files", res.Files))
	return res, nil
}

func (t *Tool) extractZip(ctx context.Context, archiveFile, destination string) (*ExtractResult, error) {
	reader, err := zip.OpenReader(archiveFile)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close()

	res := &ExtractResult{Destination: destination}
	for _, file := range reader.File {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		destPath, ok := safeDestPath(destination, file.Name)
		if !ok {
			continue
		}

		if file.FileInfo().IsDir() {
			os.MkdirAll(destPath, 0o755)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			continue
		}

		src, err := file.Open()
		if err != nil {
			continue
		}
		dst, err := os.Create(destPath)
		if err != nil {
			src.Close()
			continue
		}
		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err == nil {
			res.Files++
		}
	}
	return res, nil
}

func (t *Tool) extractTar(ctx context.Context, archiveFile, destination string, gzipped bool) (*ExtractResult, error) {
	file, err := os.Open(archiveFile)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	var src io.Reader = file
	if gzipped {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	res := &ExtractResult{Destination: destination}
	tr := tar.NewReader(src)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}

		destPath, ok := safeDestPath(destination, header.Name)
		if !ok {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			os.MkdirAll(destPath, 0o755)
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
				continue
			}
			out, err := os.Create(destPath)
			if err != nil {
				continue
			}
			_, err = io.Copy(out, tr)
			out.Close()
			if err == nil {
				res.Files++
			}
		}
	}
	return res, nil
}

func (t *Tool) extractRar(ctx context.Context, archiveFile, destination string) (*ExtractResult, error) {
	if t.run == nil {
		return nil, fmt.Errorf("rar extraction requires the %s binary", t.unrar)
	}
	if _, err := t.run.Run(ctx, t.unrar, "x", "-o+", "--", archiveFile, destination); err != nil {
		return nil, fmt.Errorf("unrar: %w", err)
	}

	// unrar does not report a reliable count on stdout; count afterwards.
	members, err := t.listRar(ctx, archiveFile)
	if err != nil {
		members = nil
	}
	return &ExtractResult{Destination: destination, Files: len(members)}, nil
}

// safeDestPath joins a member path under destination, rejecting
// traversal outside it (zip-slip).
func safeDestPath(destination, member string) (string, bool) {
	destPath := filepath.Join(destination, member)
	if !strings.HasPrefix(destPath, filepath.Clean(destination)+string(os.PathSeparator)) {
		return "", false
	}
	return destPath, true
}
