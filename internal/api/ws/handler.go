package ws

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zebras-launcher/backend/internal/domain/events"
	"github.com/zebras-launcher/backend/internal/infrastructure/monitoring"
	"github.com/zebras-launcher/backend/internal/shared/types"
)

const writeWait = 10 * time.Second

// ClientMessage is a control message sent by the UI
type ClientMessage struct {
	Type      string `json:"type"`
	ProjectID string `json:"project_id,omitempty"`
}

// Handler streams hub events to WebSocket clients
type Handler struct {
	hub      *events.Hub
	upgrader websocket.Upgrader
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *events.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			// The UI is served from a local webview origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// WithMetrics attaches a metrics collector
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// conn serializes writes; gorilla allows one concurrent writer
type conn struct {
	ws      *websocket.Conn
	mu      sync.Mutex
	metrics *monitoring.Metrics
}

func (c *conn) send(msgType string, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteJSON(v); err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.RecordWSMessage("out", msgType)
	}
	return nil
}

// filter holds the project a client narrowed the stream to, if any
type filter struct {
	mu        sync.RWMutex
	projectID string
}

func (f *filter) set(projectID string) {
	f.mu.Lock()
	f.projectID = projectID
	f.mu.Unlock()
}

func (f *filter) match(event types.LogEvent) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.projectID == "" || f.projectID == event.ProjectID
}

// HandleConnection upgrades the request and forwards log events until
// either side goes away
func (h *Handler) HandleConnection(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	out := &conn{ws: ws, metrics: h.metrics}

	subID, stream, err := h.hub.Subscribe(events.DefaultBuffer)
	if err != nil {
		h.logger.Warn("WebSocket subscribe failed", zap.Error(err))
		_ = out.send("error", gin.H{"type": "error", "message": err.Error()})
		return
	}
	defer h.hub.Unsubscribe(subID)

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	log := h.logger.With(zap.String("subscriber_id", subID.String()))
	log.Debug("WebSocket client connected")

	scope := &filter{}
	scope.set(c.Query("project_id"))

	if err := out.send("system", gin.H{
		"type":          "system",
		"message":       "connected",
		"subscriber_id": subID,
	}); err != nil {
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		h.readLoop(out, scope, log)
	}()

	for {
		select {
		case event, ok := <-stream:
			if !ok {
				// Hub shut down
				_ = out.send("close", gin.H{"type": "close", "message": "server shutting down"})
				return
			}
			if !scope.match(event) {
				continue
			}
			if err := out.send(event.Event, event); err != nil {
				log.Debug("WebSocket write failed", zap.Error(err))
				return
			}
		case <-closed:
			log.Debug("WebSocket client disconnected")
			return
		}
	}
}

func (h *Handler) readLoop(out *conn, scope *filter, log *zap.Logger) {
	for {
		var msg ClientMessage
		if err := out.ws.ReadJSON(&msg); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				log.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		switch msg.Type {
		case "ping":
			_ = out.send("pong", gin.H{"type": "pong"})
		case "subscribe":
			scope.set(msg.ProjectID)
			_ = out.send("subscribed", gin.H{"type": "subscribed", "project_id": msg.ProjectID})
		default:
			_ = out.send("error", gin.H{"type": "error", "message": "unknown message type"})
		}
	}
}
