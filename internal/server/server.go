package server

import (
	"context"
	"fmt"
	"net"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/filewright/filewright/backend/internal/archive"
	"github.com/filewright/filewright/backend/internal/config"
	"github.com/filewright/filewright/backend/internal/devices"
	"github.com/filewright/filewright/backend/internal/editor"
	"github.com/filewright/filewright/backend/internal/fsops"
	"github.com/filewright/filewright/backend/internal/http"
	"github.com/filewright/filewright/backend/internal/middleware"
	"github.com/filewright/filewright/backend/internal/monitoring"
	"github.com/filewright/filewright/backend/internal/places"
	"github.com/filewright/filewright/backend/internal/search"
	"github.com/filewright/filewright/backend/internal/shell"
	"github.com/filewright/filewright/backend/internal/store"
	"github.com/filewright/filewright/backend/internal/watch"
	"github.com/filewright/filewright/backend/internal/workspace"
	"github.com/filewright/filewright/backend/internal/ws"
)

// Server wraps the HTTP server and its services.
type Server struct {
	router  *gin.Engine
	http    *nethttp.Server
	watcher *watch.Watcher
	log     *zap.Logger
}

// New builds the full service graph from configuration.
func New(cfg *config.Config, log *zap.Logger, home string) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	metrics := monitoring.NewMetrics()
	runner := shell.ExecRunner{}

	archives := archive.NewTool(runner, cfg.Archive.UnrarBinary, log.Named("archive"))

	st, err := store.Open(cfg.DataDir, log.Named("store"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	watcher, err := watch.New(log.Named("watch"), metrics)
	if err != nil {
		return nil, fmt.Errorf("start watcher: %w", err)
	}

	manager := workspace.NewManager(workspace.Config{
		Archives: archives,
		Logger:   log.Named("workspace"),
		Metrics:  metrics,
	})

	handlers := http.NewHandlers(http.Deps{
		Workspace: manager,
		Archives:  archives,
		Files:     fsops.NewService(log.Named("fsops"), metrics),
		Search:    search.NewService(log.Named("search")),
		Places:    places.NewService(home, st, log.Named("places")),
		Store:     st,
		Editor:    editor.NewService(log.Named("editor")),
		Devices:   devices.NewService(runner, log.Named("devices")),
		Logger:    log.Named("http"),
	})
	wsHandler := ws.NewHandler(watcher, metrics, log.Named("ws"))

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(nil))
	router.Use(middleware.RateLimit(cfg.RateLimit))
	router.Use(monitoring.Middleware(metrics))

	registerRoutes(router, handlers, wsHandler)

	srv := &nethttp.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // streaming endpoints manage their own deadlines
	}

	return &Server{router: router, http: srv, watcher: watcher, log: log}, nil
}

func registerRoutes(router *gin.Engine, h *http.Handlers, wsHandler *ws.Handler) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Tabs
	router.GET("/tabs", h.ListTabs)
	router.POST("/tabs", h.OpenTab)
	router.DELETE("/tabs/:id", h.CloseTab)
	router.POST("/tabs/:id/split", h.SplitTab)
	router.DELETE("/tabs/:id/split", h.UnsplitTab)
	router.POST("/tabs/:id/sort", h.SetSort)
	router.POST("/tabs/:id/view", h.SetView)

	// Panes
	router.GET("/panes/:id/listing", h.Listing)
	router.POST("/panes/:id/navigate", h.Navigate)
	router.POST("/panes/:id/back", h.Back)
	router.POST("/panes/:id/forward", h.Forward)
	router.POST("/panes/:id/up", h.Up)
	router.POST("/panes/:id/refresh", h.Refresh)
	router.POST("/panes/:id/open", h.OpenEntry)
	router.POST("/panes/:id/edit", h.BeginEdit)
	router.DELETE("/panes/:id/edit", h.EndEdit)

	// Selection
	router.GET("/panes/:id/selection", h.Selection)
	router.POST("/panes/:id/selection/toggle", h.ToggleSelection)
	router.POST("/panes/:id/selection/replace", h.ReplaceSelection)
	router.POST("/panes/:id/selection/range", h.ExtendSelection)
	router.POST("/panes/:id/selection/clear", h.ClearSelection)

	// File operations
	router.POST("/files/copy", h.CopyFile)
	router.POST("/files/move", h.MoveFile)
	router.POST("/files/rename", h.RenameFile)
	router.POST("/files/delete", h.DeleteFile)
	router.POST("/files/mkdir", h.MakeDir)
	router.POST("/files/create", h.CreateFile)
	router.GET("/files/dirsize", h.DirSize)

	// Archives
	router.GET("/archives/members", h.ArchiveMembers)
	router.POST("/archives/create", h.CreateArchive)
	router.POST("/archives/extract", h.ExtractArchive)

	// Search, places, tags, devices, editor
	router.GET("/search", h.Search)
	router.GET("/search/content", h.SearchContent)
	router.GET("/places", h.ListPlaces)
	router.POST("/places", h.AddPlace)
	router.DELETE("/places", h.RemovePlace)
	router.GET("/tags", h.ListTags)
	router.POST("/tags", h.AddTag)
	router.DELETE("/tags", h.RemoveTag)
	router.GET("/apps", h.ListApps)
	router.POST("/apps", h.SetApp)
	router.GET("/devices", h.ListDevices)
	router.POST("/devices/:name/mount", h.MountDevice)
	router.POST("/devices/:name/unmount", h.UnmountDevice)
	router.GET("/editor/file", h.ReadDocument)
	router.PUT("/editor/file", h.SaveDocument)

	// WebSocket
	router.GET("/stream", wsHandler.HandleConnection)
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	s.log.Info("server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains connections and stops the watcher.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if werr := s.watcher.Close(); werr != nil && err == nil {
		err = werr
	}
	return err
}
