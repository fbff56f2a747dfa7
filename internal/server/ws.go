package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/airdraw/internal/app"
	"github.com/gorilla/websocket"
)

const (
	// stateBuffer is the number of snapshots queued per client before
	// newer ones are dropped.
	stateBuffer = 16
	writeWait   = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StateHub is an app.Observer that broadcasts per-tick snapshots to
// WebSocket clients.
type StateHub struct {
	clients map[*stateClient]struct{}
	mu      sync.RWMutex
}

type stateClient struct {
	send chan []byte
}

var _ app.Observer = (*StateHub)(nil)

// NewStateHub creates a StateHub with no clients.
func NewStateHub() *StateHub {
	return &StateHub{clients: make(map[*stateClient]struct{})}
}

// Observe encodes s and queues it for every client. It never blocks.
func (h *StateHub) Observe(s app.Snapshot) {
	h.mu.RLock()
	n := len(h.clients)
	h.mu.RUnlock()
	if n == 0 {
		return
	}

	msg, err := json.Marshal(s)
	if err != nil {
		log.Printf("state encode error: %v", err)
		return
	}
	h.broadcast(msg)
}

func (h *StateHub) broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Clients returns the number of connected clients.
func (h *StateHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StateHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	c := &stateClient{send: make(chan []byte, stateBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range c.send {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()

	<-done
}
