package http

import (
	"net/http"

	"github.com/filewright/filewright/backend/internal/archive"
	"github.com/filewright/filewright/backend/internal/devices"
	"github.com/filewright/filewright/backend/internal/editor"
	"github.com/filewright/filewright/backend/internal/fsops"
	"github.com/filewright/filewright/backend/internal/places"
	"github.com/filewright/filewright/backend/internal/search"
	"github.com/filewright/filewright/backend/internal/store"
	"github.com/filewright/filewright/backend/internal/workspace"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers contains all HTTP handlers and their backing services.
type Handlers struct {
	workspace *workspace.Manager
	archives  *archive.Tool
	files     *fsops.Service
	search    *search.Service
	places    *places.Service
	store     *store.Store
	editor    *editor.Service
	devices   *devices.Service
	log       *zap.Logger
}

// Deps bundles the services the handlers route to.
type Deps struct {
	Workspace *workspace.Manager
	Archives  *archive.Tool
	Files     *fsops.Service
	Search    *search.Service
	Places    *places.Service
	Store     *store.Store
	Editor    *editor.Service
	Devices   *devices.Service
	Logger    *zap.Logger
}

// NewHandlers creates a new handler set.
func NewHandlers(deps Deps) *Handlers {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{
		workspace: deps.Workspace,
		archives:  deps.Archives,
		files:     deps.Files,
		search:    deps.Search,
		places:    deps.Places,
		store:     deps.Store,
		editor:    deps.Editor,
		devices:   deps.Devices,
		log:       log,
	}
}

// Root handles the service info endpoint.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Filewright Backend",
		"version": "0.3.0",
	})
}

// Health handles the health check.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"tabs":   len(h.workspace.Tabs()),
	})
}
