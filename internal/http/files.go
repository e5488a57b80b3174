package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type transferRequest struct {
	Source  string `json:"source"`
	DestDir string `json:"dest_dir"`
}

// CopyFile copies a file or tree into a destination directory.
func (h *Handlers) CopyFile(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Source == "" || req.DestDir == "" {
		badRequest(c, "source and dest_dir required")
		return
	}
	dest, err := h.files.Copy(c.Request.Context(), req.Source, req.DestDir)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": dest})
}

// MoveFile moves a file or tree into a destination directory.
func (h *Handlers) MoveFile(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Source == "" || req.DestDir == "" {
		badRequest(c, "source and dest_dir required")
		return
	}
	dest, err := h.files.Move(c.Request.Context(), req.Source, req.DestDir)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": dest})
}

type renameRequest struct {
	Path    string `json:"path"`
	NewName string `json:"new_name"`
}

// RenameFile renames an entry within its directory.
func (h *Handlers) RenameFile(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" || req.NewName == "" {
		badRequest(c, "path and new_name required")
		return
	}
	newPath, err := h.files.Rename(c.Request.Context(), req.Path, req.NewName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": newPath})
}

type pathRequest struct {
	Path string `json:"path"`
}

// DeleteFile removes a file or tree.
func (h *Handlers) DeleteFile(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		badRequest(c, "path required")
		return
	}
	if err := h.files.Delete(c.Request.Context(), req.Path); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// MakeDir creates a directory.
func (h *Handlers) MakeDir(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		badRequest(c, "path required")
		return
	}
	if err := h.files.Mkdir(c.Request.Context(), req.Path); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": req.Path})
}

// CreateFile creates an empty file.
func (h *Handlers) CreateFile(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		badRequest(c, "path required")
		return
	}
	if err := h.files.CreateFile(c.Request.Context(), req.Path); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": req.Path})
}

// DirSize walks a directory and reports its total size.
func (h *Handlers) DirSize(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		badRequest(c, "path required")
		return
	}
	size, files, err := h.files.DirSize(c.Request.Context(), path)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path, "size_bytes": size, "files": files})
}
