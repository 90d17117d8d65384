package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Amogh-Hegde/speX/internal/fact"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// FactsHandler broadcasts every announced fact to connected WebSocket
// clients. It implements the coordinator's FactSink.
type FactsHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewFactsHandler creates a FactsHandler with no clients.
func NewFactsHandler() *FactsHandler {
	return &FactsHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *FactsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

type factJSON struct {
	Text string `json:"text"`
	Tier string `json:"tier"`
	At   int64  `json:"at"`
}

// Publish sends one fact to all connected clients. Dead connections are
// dropped on write failure.
func (h *FactsHandler) Publish(f fact.Fact) {
	msg := factJSON{
		Text: f.Text,
		Tier: f.Tier.String(),
		At:   f.At.UnixMilli(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
