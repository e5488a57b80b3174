// Package archive implements the ArchiveTool collaborator: manifest
// listing for browsable archive formats, plus create and extract
// operations for the compress/extract commands of the UI.
//
// Zip and tar family archives are read natively; rar requires the
// external unrar binary, invoked through the shell runner.
package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/filewright/filewright/backend/internal/nav"
	"github.com/filewright/filewright/backend/internal/shell"
	"go.uber.org/zap"
)

// Format is a recognized archive kind.
type Format string

const (
	FormatZip   Format = "zip"
	FormatTar   Format = "tar"
	FormatTarGz Format = "tar.gz"
	FormatRar   Format = "rar"
)

// DetectFormat recognizes exactly the browsable extensions: .zip, .tar,
// .tar.gz, .tgz and .rar. Anything else is not an archive for browsing
// purposes.
func DetectFormat(name string) (Format, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FormatTarGz, true
	case strings.HasSuffix(lower, ".tar"):
		return FormatTar, true
	case strings.HasSuffix(lower, ".zip"):
		return FormatZip, true
	case strings.HasSuffix(lower, ".rar"):
		return FormatRar, true
	default:
		return "", false
	}
}

// IsArchivePath reports whether name has a browsable archive extension.
func IsArchivePath(name string) bool {
	_, ok := DetectFormat(name)
	return ok
}

// Tool reads archive manifests and performs create/extract operations.
// It satisfies nav.ArchiveTool.
type Tool struct {
	run   shell.Runner
	unrar string
	log   *zap.Logger
}

// NewTool builds a Tool. runner may be nil, which disables rar support;
// unrarBinary defaults to "unrar".
func NewTool(runner shell.Runner, unrarBinary string, log *zap.Logger) *Tool {
	if unrarBinary == "" {
		unrarBinary = "unrar"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Tool{run: runner, unrar: unrarBinary, log: log}
}

// ListMembers returns the ordered member-path manifest of archiveFile.
// Unrecognized extensions wrap nav.ErrUnsupportedArchive; read failures
// wrap nav.ErrUnreadableArchive, per the nav.ArchiveTool contract.
func (t *Tool) ListMembers(ctx context.Context, archiveFile string) ([]string, error) {
	format, ok := DetectFormat(archiveFile)
	if !ok {
		return nil, fmt.Errorf("%w: %s", nav.ErrUnsupportedArchive, archiveFile)
	}

	var (
		members []string
		err     error
	)
	switch format {
	case FormatZip:
		members, err = t.listZip(archiveFile)
	case FormatTar, FormatTarGz:
		members, err = t.listTar(ctx, archiveFile, format == FormatTarGz)
	case FormatRar:
		members, err = t.listRar(ctx, archiveFile)
	}
	if err != nil {
		t.log.Warn("archive manifest fetch failed",
			zap.String("archive", archiveFile),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", nav.ErrUnreadableArchive, archiveFile, err)
	}

	t.log.Debug("archive manifest fetched",
		zap.String("archive", archiveFile),
		zap.Int("members", len(members)))
	return members, nil
}

func (t *Tool) listRar(ctx context.Context, archiveFile string) ([]string, error) {
	if t.run == nil {
		return nil, fmt.Errorf("rar listing requires the %s binary", t.unrar)
	}
	// `unrar lb` prints bare member paths, one per line.
	out, err := t.run.Run(ctx, t.unrar, "lb", "--", archiveFile)
	if err != nil {
		return nil, err
	}

	var members []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			members = append(members, strings.ReplaceAll(line, "\\", "/"))
		}
	}
	return members, nil
}
