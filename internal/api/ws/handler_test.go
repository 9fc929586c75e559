package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zebras-launcher/backend/internal/domain/events"
	"github.com/zebras-launcher/backend/internal/infrastructure/monitoring"
	"github.com/zebras-launcher/backend/internal/shared/types"
)

func startServer(t *testing.T, hub *events.Hub, metrics *monitoring.Metrics) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/stream", NewHandler(hub, nil).WithMetrics(metrics).HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var hello map[string]any
	require.NoError(t, conn.ReadJSON(&hello))
	require.Equal(t, "system", hello["type"])
	return conn
}

func waitSubscribers(t *testing.T, hub *events.Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Count() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestStreamsEvents(t *testing.T) {
	hub := events.NewHub(nil)
	metrics := monitoring.NewMetrics()
	conn := dial(t, startServer(t, hub, metrics))
	waitSubscribers(t, hub, 1)

	hub.Publish(types.LogEvent{
		Event:     types.EventProcessLog,
		ProcessID: "proc_1",
		ProjectID: "p1",
		Message:   "ready",
		Stream:    types.StreamStdout,
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got types.LogEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "ready", got.Message)
	assert.Equal(t, "proc_1", got.ProcessID)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.WSConnections))
}

func TestProjectFilter(t *testing.T) {
	hub := events.NewHub(nil)
	conn := dial(t, startServer(t, hub, nil)+"?project_id=p2")
	waitSubscribers(t, hub, 1)

	hub.Publish(types.LogEvent{Event: types.EventTerminalLog, ProjectID: "p1", Message: "skip"})
	hub.Publish(types.LogEvent{Event: types.EventTerminalLog, ProjectID: "p2", Message: "keep"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got types.LogEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "keep", got.Message)
}

func TestPingAndUnknown(t *testing.T) {
	hub := events.NewHub(nil)
	conn := dial(t, startServer(t, hub, nil))
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "ping"}))
	var reply map[string]any
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "pong", reply["type"])

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "bogus"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "error", reply["type"])
}

func TestDisconnectUnsubscribes(t *testing.T) {
	hub := events.NewHub(nil)
	conn := dial(t, startServer(t, hub, nil))
	waitSubscribers(t, hub, 1)

	conn.Close()
	waitSubscribers(t, hub, 0)
}

func TestHubCloseEndsStream(t *testing.T) {
	hub := events.NewHub(nil)
	conn := dial(t, startServer(t, hub, nil))
	waitSubscribers(t, hub, 1)

	hub.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "close", msg["type"])
}
