package telemetry

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/taisei-project/core/internal/corelog"
)

// connection is one spectator's websocket session.
type connection struct {
	conn  *websocket.Conn
	stage string
	send  chan []byte
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // spectator feed is read-only and token-gated
}

// Hub fans out Snapshot broadcasts to every connected spectator,
// grounded on the retrieval pack's WebSocketHub
// (fight-club-go/internal/api/websocket.go): a register/unregister/
// broadcast channel triad served by one goroutine, so the map of live
// connections is only ever modified from that goroutine (ConnectionCount
// reads it from other goroutines under the read lock).
type Hub struct {
	register   chan *connection
	unregister chan *connection
	broadcast  chan []byte

	limiter *connLimiter

	mu    sync.RWMutex
	conns map[*connection]bool
}

// NewHub constructs a Hub. perSecond/burst configure the per-connection
// broadcast rate limit (§ domain-stack table: golang.org/x/time).
func NewHub(perSecond float64, burst int) *Hub {
	return &Hub{
		register:   make(chan *connection),
		unregister: make(chan *connection),
		broadcast:  make(chan []byte, 64),
		limiter:    newConnLimiter(perSecond, burst),
		conns:      make(map[*connection]bool),
	}
}

// Run drives the hub's event loop until ctx-less shutdown (the caller
// stops feeding Publish and lets Run's goroutine exit via closing
// nothing — Run never returns on its own, matching the teacher's
// WebSocketHub.Run which is meant to run for the server's lifetime).
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.conns[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if h.conns[c] {
				delete(h.conns, c)
				close(c.send)
			}
			h.mu.Unlock()
			h.limiter.forget(c)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.conns {
				if !h.limiter.allow(c) {
					continue
				}
				select {
				case c.send <- msg:
				default:
					// slow consumer: drop this frame rather than block the hub
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish encodes snap and queues it for every connected spectator.
// Called by whoever owns both a *sim.Sim and this Hub, on whatever
// cadence they choose — never from the simulation's own Step.
func (h *Hub) Publish(snap Snapshot) {
	data, err := snap.encode()
	if err != nil {
		corelog.Warnf("telemetry: failed to encode snapshot: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		// hub backlog full: drop this frame rather than block the publisher
	}
}

// ConnectionCount returns the number of currently registered spectators.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// ServeWS upgrades r to a websocket connection and registers it with
// the hub. Intended to sit behind Authenticator.RequireAuth so claims
// are already verified by the time this runs.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		corelog.Warnf("telemetry: websocket upgrade failed: %v", err)
		return
	}

	stage := ""
	if claims := ClaimsFromContext(r.Context()); claims != nil {
		stage = claims.Stage
	}

	c := &connection{conn: wsConn, stage: stage, send: make(chan []byte, 16)}
	h.register <- c

	go h.writePump(c)
	go h.readPump(c)
}

// writePump drains c.send to the socket until it's closed.
func (h *Hub) writePump(c *connection) {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump discards spectator input (the feed is one-way) and exists
// only to detect disconnects, matching the teacher hub's read loop.
func (h *Hub) readPump(c *connection) {
	defer func() { h.unregister <- c }()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
