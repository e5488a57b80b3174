package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/filewright/filewright/backend/internal/editor"
	"github.com/filewright/filewright/backend/internal/search"
	"github.com/gin-gonic/gin"
)

// Search runs a name search under a root directory. Query parameters:
// root, q, ext (repeatable), limit, recent_hours (switches to a recency
// query), glob (switches to glob matching).
func (h *Handlers) Search(c *gin.Context) {
	root := c.Query("root")
	if root == "" {
		badRequest(c, "root required")
		return
	}

	if pattern := c.Query("glob"); pattern != "" {
		results, err := h.search.Glob(c.Request.Context(), root, pattern)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
		return
	}

	if hours := c.Query("recent_hours"); hours != "" {
		n, err := strconv.Atoi(hours)
		if err != nil || n <= 0 {
			badRequest(c, "recent_hours must be a positive integer")
			return
		}
		results, err := h.search.Recent(c.Request.Context(), root, time.Duration(n)*time.Hour, queryLimit(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
		return
	}

	query := c.Query("q")
	if query == "" {
		badRequest(c, "q required")
		return
	}
	results, err := h.search.Find(c.Request.Context(), root, search.Options{
		Query:      query,
		Extensions: c.QueryArray("ext"),
		Limit:      queryLimit(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// SearchContent scans file contents for a literal string.
func (h *Handlers) SearchContent(c *gin.Context) {
	root := c.Query("root")
	query := c.Query("q")
	if root == "" || query == "" {
		badRequest(c, "root and q required")
		return
	}
	matches, err := h.search.SearchContent(c.Request.Context(), root, query, c.QueryArray("ext"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches, "count": len(matches)})
}

func queryLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return n
}

// ListPlaces returns the sidebar locations.
func (h *Handlers) ListPlaces(c *gin.Context) {
	list, err := h.places.List()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": list})
}

type placeRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// AddPlace pins a custom place.
func (h *Handlers) AddPlace(c *gin.Context) {
	var req placeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		badRequest(c, "path required")
		return
	}
	if err := h.places.Add(req.Name, req.Path); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"added": true})
}

// RemovePlace unpins a custom place.
func (h *Handlers) RemovePlace(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		badRequest(c, "path required")
		return
	}
	if err := h.places.Remove(path); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// ListTags returns tags for a path, or the whole tag table.
func (h *Handlers) ListTags(c *gin.Context) {
	if path := c.Query("path"); path != "" {
		tags, err := h.store.TagsFor(path)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"path": path, "tags": tags})
		return
	}
	tags, err := h.store.Tags()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

type tagRequest struct {
	Tag  string `json:"tag"`
	Path string `json:"path"`
}

// AddTag tags a path.
func (h *Handlers) AddTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Tag == "" || req.Path == "" {
		badRequest(c, "tag and path required")
		return
	}
	if err := h.store.AddTag(req.Tag, req.Path); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tagged": true})
}

// RemoveTag untags a path.
func (h *Handlers) RemoveTag(c *gin.Context) {
	tag := c.Query("tag")
	path := c.Query("path")
	if tag == "" || path == "" {
		badRequest(c, "tag and path required")
		return
	}
	if err := h.store.RemoveTag(tag, path); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// ListApps returns the extension to command association table.
func (h *Handlers) ListApps(c *gin.Context) {
	apps, err := h.store.DefaultApps()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"apps": apps})
}

type appRequest struct {
	Extension string `json:"extension"`
	Command   string `json:"command"`
}

// SetApp associates a file extension with an opener command.
func (h *Handlers) SetApp(c *gin.Context) {
	var req appRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Extension == "" || req.Command == "" {
		badRequest(c, "extension and command required")
		return
	}
	ext := strings.ToLower(req.Extension)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if err := h.store.SetDefaultApp(ext, req.Command); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"extension": ext, "command": req.Command})
}

// ListDevices returns block devices with their partitions.
func (h *Handlers) ListDevices(c *gin.Context) {
	list, err := h.devices.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"devices": list})
}

// MountDevice mounts a partition and returns the mount point.
func (h *Handlers) MountDevice(c *gin.Context) {
	mountPoint, err := h.devices.Mount(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mount_point": mountPoint})
}

// UnmountDevice unmounts a partition.
func (h *Handlers) UnmountDevice(c *gin.Context) {
	if err := h.devices.Unmount(c.Request.Context(), c.Param("name")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unmounted": true})
}

// ReadDocument loads a text file for editing.
func (h *Handlers) ReadDocument(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		badRequest(c, "path required")
		return
	}
	doc, err := h.editor.Open(path)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// SaveDocument writes edited content back to disk.
func (h *Handlers) SaveDocument(c *gin.Context) {
	var doc editor.Document
	if err := c.ShouldBindJSON(&doc); err != nil || doc.Path == "" {
		badRequest(c, "path required")
		return
	}
	if err := h.editor.Save(&doc); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true, "path": doc.Path})
}
