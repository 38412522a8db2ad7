package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/CedarQuran/internal/logging"
)

// ProgressMessage represents a job update sent via WebSocket.
type ProgressMessage struct {
	Type      string                 `json:"type"`      // "progress", "complete", "error"
	Operation string                 `json:"operation"` // "corpus-stats"
	JobID     string                 `json:"job_id"`
	Progress  int                    `json:"progress"` // 0-100
	Message   string                 `json:"message,omitempty"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Client represents a WebSocket client connection.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	inbound *tokenBucket // per-client message rate limit
	maxSize int64
}

// Hub maintains active WebSocket connections and broadcasts messages.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop to handle client registration and
// broadcasting. It blocks; run it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			logging.WebSocketEvent("client_connected", n)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			logging.WebSocketEvent("client_disconnected", n)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client channel full, disconnect
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a progress message to all connected clients.
func (h *Hub) Broadcast(msg ProgressMessage) {
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error("failed to marshal progress message", "error", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logging.Warn("broadcast channel full, dropping message")
	}
}

// BroadcastProgress sends a progress update to all connected clients.
func (h *Hub) BroadcastProgress(operation, jobID string, progress int) {
	h.Broadcast(ProgressMessage{
		Type:      "progress",
		Operation: operation,
		JobID:     jobID,
		Progress:  progress,
	})
}

// BroadcastComplete sends a completion message to all connected clients.
func (h *Hub) BroadcastComplete(operation, jobID string, data map[string]interface{}) {
	h.Broadcast(ProgressMessage{
		Type:      "complete",
		Operation: operation,
		JobID:     jobID,
		Progress:  100,
		Data:      data,
	})
}

// BroadcastError sends an error message to all connected clients.
func (h *Hub) BroadcastError(operation, jobID, message string) {
	h.Broadcast(ProgressMessage{
		Type:      "error",
		Operation: operation,
		JobID:     jobID,
		Message:   message,
	})
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// handleWebSocket checks the request origin, upgrades the connection,
// and registers the client.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.security.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.SecurityEvent("websocket_upgrade_rejected", "websocket",
			"origin", r.Header.Get("Origin"),
			"remote", getClientIP(r),
			"error", err)
		return
	}

	client := &Client{
		hub:     s.hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		inbound: s.security.newInboundLimiter(),
		maxSize: s.security.MaxMessageSize,
	}
	s.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains inbound frames so close/ping control messages are
// processed. Inbound payloads are ignored (the socket is
// broadcast-only) but still count against the client's message rate;
// a client exceeding it is disconnected.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(c.maxSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error("websocket unexpected close", "error", err)
			}
			return
		}
		if !c.inbound.allow() {
			logging.SecurityEvent("websocket_rate_limit_exceeded", "websocket")
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "message rate limit exceeded"))
			return
		}
	}
}

// writePump forwards hub messages to the connection and keeps it alive
// with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
