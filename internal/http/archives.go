package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/filewright/filewright/backend/internal/archive"
	"github.com/filewright/filewright/backend/internal/nav"
	"github.com/gin-gonic/gin"
)

// ArchiveMembers returns the flat manifest of an archive file.
func (h *Handlers) ArchiveMembers(c *gin.Context) {
	file := c.Query("file")
	if file == "" {
		badRequest(c, "file required")
		return
	}
	members, err := h.archives.ListMembers(c.Request.Context(), file)
	if err != nil {
		writeError(c, wrapArchiveErr(err, file))
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": file, "members": members, "count": len(members)})
}

type createArchiveRequest struct {
	SourceDir string `json:"source_dir"`
	Output    string `json:"output"`
	// Format is zip, tar, tar.gz or tar.zst.
	Format string `json:"format"`
}

// CreateArchive packs a directory into a new archive file.
func (h *Handlers) CreateArchive(c *gin.Context) {
	var req createArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SourceDir == "" || req.Output == "" {
		badRequest(c, "source_dir and output required")
		return
	}

	var result *archive.CreateResult
	var err error
	switch strings.ToLower(req.Format) {
	case "zip", "":
		result, err = h.archives.CreateZip(c.Request.Context(), req.SourceDir, req.Output)
	case "tar":
		result, err = h.archives.CreateTar(c.Request.Context(), req.SourceDir, req.Output, archive.CompressionNone)
	case "tar.gz", "tgz":
		result, err = h.archives.CreateTar(c.Request.Context(), req.SourceDir, req.Output, archive.CompressionGzip)
	case "tar.zst":
		result, err = h.archives.CreateTar(c.Request.Context(), req.SourceDir, req.Output, archive.CompressionZstd)
	default:
		badRequest(c, "unknown archive format")
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type extractRequest struct {
	File        string `json:"file"`
	Destination string `json:"destination"`
}

// ExtractArchive unpacks an archive into a destination directory.
func (h *Handlers) ExtractArchive(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.File == "" || req.Destination == "" {
		badRequest(c, "file and destination required")
		return
	}
	result, err := h.archives.Extract(c.Request.Context(), req.File, req.Destination)
	if err != nil {
		writeError(c, wrapArchiveErr(err, req.File))
		return
	}
	c.JSON(http.StatusOK, result)
}

// wrapArchiveErr lifts the tool's sentinel errors into the ListError
// taxonomy so writeError maps them to 415/422.
func wrapArchiveErr(err error, file string) error {
	switch {
	case errors.Is(err, nav.ErrUnsupportedArchive):
		return nav.NewListError(nav.ErrUnsupportedArchiveFormat, file, err)
	case errors.Is(err, nav.ErrUnreadableArchive):
		return nav.NewListError(nav.ErrArchiveUnreadable, file, err)
	default:
		return err
	}
}
