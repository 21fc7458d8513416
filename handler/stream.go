package handler

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// StreamHandler fans fleet-monitor updates out to websocket subscribers.
// It implements service.Broadcaster.
type StreamHandler struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewStreamHandler creates a new fleet stream handler.
func NewStreamHandler() *StreamHandler {
	return &StreamHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in development
			},
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// Subscribe handles GET /hullzero/fleet/stream (WebSocket)
// The connection receives one JSON message per vessel per monitor sweep.
func (h *StreamHandler) Subscribe(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, []byte("Connected to fleet stream\n")); err != nil {
		log.Printf("Failed to write welcome message: %v", err)
		conn.Close()
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Block reading until the client goes away, then unregister.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Broadcast sends v as JSON to every subscriber. Dead connections are
// dropped.
func (h *StreamHandler) Broadcast(v interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(v); err != nil {
			log.Printf("Dropping fleet stream subscriber: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// SubscriberCount reports the number of connected subscribers.
func (h *StreamHandler) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
