package http

import (
	"net/http"
	"os"

	"github.com/filewright/filewright/backend/internal/nav"
	"github.com/filewright/filewright/backend/internal/workspace"
	"github.com/gin-gonic/gin"
)

type openTabRequest struct {
	Start *Address `json:"start"`
}

// OpenTab creates a tab with one pane at the requested start address,
// defaulting to the user's home directory.
func (h *Handlers) OpenTab(c *gin.Context) {
	var req openTabRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		badRequest(c, "malformed request body")
		return
	}

	var start nav.PathAddress
	if req.Start != nil {
		addr, err := req.Start.ToNav()
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		start = addr
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			writeError(c, err)
			return
		}
		start = nav.FileSystemAddress{Path: home}
	}

	tab, err := h.workspace.OpenTab(c.Request.Context(), start)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tabView(tab))
}

// ListTabs returns every open tab.
func (h *Handlers) ListTabs(c *gin.Context) {
	tabs := h.workspace.Tabs()
	views := make([]TabView, 0, len(tabs))
	for _, t := range tabs {
		views = append(views, tabView(t))
	}
	c.JSON(http.StatusOK, gin.H{"tabs": views, "count": len(views)})
}

// CloseTab destroys a tab and its panes.
func (h *Handlers) CloseTab(c *gin.Context) {
	if err := h.workspace.CloseTab(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": true})
}

type splitRequest struct {
	Start Address `json:"start"`
}

// SplitTab adds a secondary pane to a tab.
func (h *Handlers) SplitTab(c *gin.Context) {
	var req splitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	start, err := req.Start.ToNav()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	pane, err := h.workspace.Split(c.Request.Context(), c.Param("id"), start)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, paneView(pane))
}

// UnsplitTab removes a tab's secondary pane.
func (h *Handlers) UnsplitTab(c *gin.Context) {
	if err := h.workspace.Unsplit(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"split": false})
}

type sortRequest struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

// SetSort changes a tab's sort policy and re-orders its listings.
func (h *Handlers) SetSort(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	policy := nav.SortPolicy{
		Key:       nav.SortKey(req.Key),
		Direction: nav.SortDirection(req.Direction),
	}
	if !validSort(policy) {
		badRequest(c, "unknown sort key or direction")
		return
	}

	if err := h.workspace.SetSort(c.Param("id"), policy); err != nil {
		writeError(c, err)
		return
	}
	tab, err := h.workspace.Tab(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tabView(tab))
}

func validSort(p nav.SortPolicy) bool {
	switch p.Key {
	case nav.SortByName, nav.SortBySize, nav.SortByModified, nav.SortByCreated, nav.SortByType:
	default:
		return false
	}
	switch p.Direction {
	case nav.Ascending, nav.Descending:
	default:
		return false
	}
	return true
}

type viewRequest struct {
	View string `json:"view"`
}

// SetView switches a tab between list and grid presentation.
func (h *Handlers) SetView(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	mode := workspace.ViewMode(req.View)
	if mode != workspace.ViewList && mode != workspace.ViewGrid {
		badRequest(c, "unknown view mode")
		return
	}

	tab, err := h.workspace.Tab(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	tab.SetView(mode)
	c.JSON(http.StatusOK, tabView(tab))
}
