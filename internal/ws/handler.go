package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/filewright/filewright/backend/internal/monitoring"
	"github.com/filewright/filewright/backend/internal/watch"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The server binds to loopback; cross-origin is handled by CORS
		// on the HTTP surface.
		return true
	},
}

// Handler streams directory change events to connected UI clients.
type Handler struct {
	watcher *watch.Watcher
	metrics *monitoring.Metrics
	log     *zap.Logger
}

// NewHandler creates a WebSocket handler over the shared watcher.
func NewHandler(watcher *watch.Watcher, metrics *monitoring.Metrics, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{watcher: watcher, metrics: metrics, log: log}
}

// inbound is a client request on the stream.
type inbound struct {
	Type string `json:"type"`
	Dir  string `json:"dir,omitempty"`
}

// conn wraps a websocket connection with a write lock and its active
// directory subscriptions.
type conn struct {
	ws *websocket.Conn

	writeMu sync.Mutex
	subsMu  sync.Mutex
	subs    map[string]*watch.Subscription
}

func (c *conn) send(data any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(data)
}

// HandleConnection upgrades the request and serves the watch protocol:
// the client sends watch/unwatch/ping messages, the server pushes
// filesystem events for watched directories.
func (h *Handler) HandleConnection(c *gin.Context) {
	wsConn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
		defer h.metrics.WSConnections.Dec()
	}

	cn := &conn{ws: wsConn, subs: make(map[string]*watch.Subscription)}
	defer h.teardown(cn)

	_ = cn.send(gin.H{"type": "system", "message": "Connected to Filewright"})

	for {
		var msg inbound
		if err := wsConn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "watch":
			h.handleWatch(cn, msg.Dir)
		case "unwatch":
			h.handleUnwatch(cn, msg.Dir)
		case "ping":
			_ = cn.send(gin.H{"type": "pong"})
		default:
			_ = cn.send(gin.H{"type": "error", "message": "unknown message type"})
		}
	}
}

func (h *Handler) handleWatch(cn *conn, dir string) {
	if dir == "" {
		_ = cn.send(gin.H{"type": "error", "message": "dir required"})
		return
	}

	cn.subsMu.Lock()
	if _, already := cn.subs[dir]; already {
		cn.subsMu.Unlock()
		return
	}
	cn.subsMu.Unlock()

	sub, err := h.watcher.Subscribe(dir)
	if err != nil {
		_ = cn.send(gin.H{"type": "error", "message": err.Error()})
		return
	}

	cn.subsMu.Lock()
	cn.subs[dir] = sub
	cn.subsMu.Unlock()

	_ = cn.send(gin.H{"type": "watching", "dir": dir})
	h.log.Debug("stream watching", zap.String("dir", dir))

	go func() {
		for ev := range sub.C {
			if err := cn.send(gin.H{
				"type":  "event",
				"path":  ev.Path,
				"op":    ev.Op,
				"at":    ev.At.Unix(),
				"dir":   dir,
				"stamp": time.Now().UnixMilli(),
			}); err != nil {
				return
			}
		}
	}()
}

func (h *Handler) handleUnwatch(cn *conn, dir string) {
	cn.subsMu.Lock()
	sub, ok := cn.subs[dir]
	if ok {
		delete(cn.subs, dir)
	}
	cn.subsMu.Unlock()

	if ok {
		sub.Close()
		_ = cn.send(gin.H{"type": "unwatched", "dir": dir})
	}
}

func (h *Handler) teardown(cn *conn) {
	cn.subsMu.Lock()
	for dir, sub := range cn.subs {
		delete(cn.subs, dir)
		sub.Close()
	}
	cn.subsMu.Unlock()
	_ = cn.ws.Close()
}
