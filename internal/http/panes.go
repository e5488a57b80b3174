package http

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/filewright/filewright/backend/internal/workspace"
)

type navigateRequest struct {
	Address Address `json:"address"`
}

// Navigate moves a pane to a new address, recording history.
func (h *Handlers) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	addr, err := req.Address.ToNav()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	entries, err := h.workspace.Navigate(c.Request.Context(), c.Param("id"), addr)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": fromEntries(entries)})
}

// Back replays the previous history entry.
func (h *Handlers) Back(c *gin.Context) {
	entries, err := h.workspace.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": true, "entries": fromEntries(entries)})
}

// Forward replays the next history entry.
func (h *Handlers) Forward(c *gin.Context) {
	entries, err := h.workspace.Forward(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": true, "entries": fromEntries(entries)})
}

// Up navigates to the parent location; from an archive root it exits to
// the surrounding directory.
func (h *Handlers) Up(c *gin.Context) {
	entries, err := h.workspace.Up(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": fromEntries(entries)})
}

// Refresh re-lists the pane's current address.
func (h *Handlers) Refresh(c *gin.Context) {
	entries, err := h.workspace.Refresh(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": fromEntries(entries)})
}

// Listing returns the pane's current state and listing.
func (h *Handlers) Listing(c *gin.Context) {
	pane, _, err := h.workspace.Pane(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paneView(pane))
}

type openRequest struct {
	Path string `json:"path"`
}

// OpenEntry activates a filesystem path: directories and archives
// navigate, anything else reports no handler.
func (h *Handlers) OpenEntry(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		badRequest(c, "path required")
		return
	}

	entries, err := h.workspace.Open(c.Request.Context(), c.Param("id"), req.Path)
	if errors.Is(err, workspace.ErrNoHandler) {
		cmd, appErr := h.store.DefaultAppFor(strings.ToLower(filepath.Ext(req.Path)))
		if appErr == nil && cmd != "" {
			c.JSON(http.StatusOK, gin.H{"handler": cmd, "path": req.Path})
			return
		}
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": fromEntries(entries)})
}

type selectionRequest struct {
	Key  string `json:"key"`
	From string `json:"from"`
	To   string `json:"to"`
}

// ToggleSelection flips one entry in the pane's selection.
func (h *Handlers) ToggleSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" {
		badRequest(c, "key required")
		return
	}
	if err := h.workspace.Toggle(c.Param("id"), req.Key); err != nil {
		writeError(c, err)
		return
	}
	h.writeSelection(c)
}

// ReplaceSelection selects exactly one entry.
func (h *Handlers) ReplaceSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" {
		badRequest(c, "key required")
		return
	}
	if err := h.workspace.Replace(c.Param("id"), req.Key); err != nil {
		writeError(c, err)
		return
	}
	h.writeSelection(c)
}

// ExtendSelection selects the visible range between two entries.
func (h *Handlers) ExtendSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.To == "" {
		badRequest(c, "from and to required")
		return
	}
	if err := h.workspace.ExtendRange(c.Param("id"), req.From, req.To); err != nil {
		writeError(c, err)
		return
	}
	h.writeSelection(c)
}

// ClearSelection empties the pane's selection.
func (h *Handlers) ClearSelection(c *gin.Context) {
	if err := h.workspace.ClearSelection(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": []Entry{}})
}

// Selection returns the pane's selected entries.
func (h *Handlers) Selection(c *gin.Context) {
	h.writeSelection(c)
}

func (h *Handlers) writeSelection(c *gin.Context) {
	selected, err := h.workspace.Selection(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": fromEntries(selected)})
}

type editRequest struct {
	Path string `json:"path"`
}

// BeginEdit moves a pane into editing state.
func (h *Handlers) BeginEdit(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		badRequest(c, "path required")
		return
	}
	if err := h.workspace.BeginEdit(c.Param("id"), req.Path); err != nil {
		writeError(c, err)
		return
	}
	pane, _, err := h.workspace.Pane(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paneView(pane))
}

// EndEdit returns a pane to browsing.
func (h *Handlers) EndEdit(c *gin.Context) {
	if err := h.workspace.EndEdit(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	pane, _, err := h.workspace.Pane(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paneView(pane))
}
