package admin

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/sheabunge/functionality/internal/events"
	"github.com/sheabunge/functionality/internal/logging"
)

// Message is a websocket message sent to admin clients
type Message struct {
	Type    string       `json:"type"`
	Payload events.Event `json:"payload"`
}

// DefaultWriteWait bounds a single websocket write. Events are published
// while files are created, so a client that stops reading is dropped.
const DefaultWriteWait = 2 * time.Second

// Hub pushes lifecycle events to connected admin pages
type Hub struct {
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	mu        sync.RWMutex
	writeMu   sync.Mutex
	writeWait time.Duration
	logger    *slog.Logger
}

// NewHub creates a hub without clients
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		writeWait: DefaultWriteWait,
		logger:    logger,
	}
}

// HandleWS upgrades the request and keeps the connection until the client
// goes away
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debug("Websocket upgrade failed", logging.Error(err))
		return
	}
	defer func() {
		h.removeClient(conn)
		_ = conn.Close()
	}()

	h.addClient(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// OnEvent forwards a bus event to every client
func (h *Hub) OnEvent(_ context.Context, e events.Event) {
	h.broadcast(Message{Type: "event", Payload: e})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) addClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, client := range clients {
		err := client.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err == nil {
			err = client.WriteMessage(websocket.TextMessage, data)
		}
		if err != nil {
			h.logger.Debug("Dropping websocket client", logging.Error(err))
			h.removeClient(client)
			_ = client.Close()
		}
	}
}
