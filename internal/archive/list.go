package archive

import (
	"archive/tar"
	"archive/zip"
	"context"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

func (t *Tool) listZip(archiveFile string) ([]string, error) {
	reader, err := zip.OpenReader(archiveFile)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	members := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		name := normalizeMember(f.Name)
		if name == "" {
			continue
		}
		if f.FileInfo().IsDir() {
			name += "/"
		}
		members = append(members, name)
	}
	return members, nil
}

func (t *Tool) listTar(ctx context.Context, archiveFile string, gzipped bool) ([]string, error) {
	file, err := os.Open(archiveFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var src io.Reader = file
	if gzipped {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		src = gz
	}

	var members []string
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
			return nil, err
		}

		name := normalizeMember(header.Name)
		if name == "" {
			continue
		}
		if header.Typeflag == tar.TypeDir && !strings.HasSuffix(name, "/") {
			name += "/"
		}
		members = append(members, name)
	}
	return members, nil
}

// normalizeMember strips the leading "./" some tar writers emit and
// rejects degenerate names so the index never sees empty segments.
func normalizeMember(name string) string {
	name = strings.TrimPrefix(name, "./")
	if name == "" || name == "." || name == "/" {
		return ""
	}
	return strings.TrimPrefix(name, "/")
}
