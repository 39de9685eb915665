package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHubServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(1000, 1000) // generous limit: these tests aren't exercising throttling
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastsSnapshotToConnectedClient(t *testing.T) {
	hub, srv := newTestHubServer(t)
	conn := dial(t, srv)

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(Snapshot{Frame: 42, LiveEnemies: 3})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"frame":42`)
	assert.Contains(t, string(data), `"live_enemies":3`)
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub, srv := newTestHubServer(t)
	conn := dial(t, srv)

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubBroadcastsToMultipleClients(t *testing.T) {
	hub, srv := newTestHubServer(t)
	a := dial(t, srv)
	b := dial(t, srv)

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Publish(Snapshot{Frame: 7})

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(data), `"frame":7`)
	}
}
