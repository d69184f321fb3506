// WebSocket server for real-time UI events on localhost.
package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dmoreira/rentdesk/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Desktop UI only; never accept cross-host connections.
		return strings.HasPrefix(r.Host, "localhost:") || r.Host == "localhost" ||
			strings.HasPrefix(r.Host, "127.0.0.1")
	},
}

// WSClient is one connected UI window.
type WSClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	hub  *WSHub
}

// WSHub tracks connected clients and fans events out to them.
type WSHub struct {
	clients    map[string]*WSClient
	broadcast  chan []byte
	register   chan *WSClient
	unregister chan *WSClient
	mu         sync.RWMutex
}

// WSEnvelope wraps every message sent to clients.
type WSEnvelope struct {
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	Timestamp int64                  `json:"timestamp"`
}

// Event types the UI subscribes to.
const (
	EventSyncStarted   = "sync.started"
	EventSyncCompleted = "sync.completed"
	EventSyncFailed    = "sync.failed"
	EventDataChanged   = "data.changed"
)

// NewWSHub creates a hub and starts its dispatch loop.
func NewWSHub() *WSHub {
	hub := &WSHub{
		clients:    make(map[string]*WSClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
	go hub.run()
	return hub
}

func (h *WSHub) run() {
	log := logging.WithComponent("ws")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.WithField("client", client.id).WithField("total", total).Debug("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.WithField("client", client.id).WithField("total", total).Debug("client disconnected")

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client, drop the connection.
					close(client.send)
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an event to every connected client.
func (h *WSHub) Broadcast(eventType string, data map[string]interface{}) {
	envelope := WSEnvelope{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	bytes, err := json.Marshal(envelope)
	if err != nil {
		logging.WithComponent("ws").WithError(err).Error("failed to marshal event")
		return
	}
	h.broadcast <- bytes
}

// BroadcastSyncStarted notifies clients that a sync cycle began.
func (h *WSHub) BroadcastSyncStarted() {
	h.Broadcast(EventSyncStarted, map[string]interface{}{
		"status": "started",
	})
}

// BroadcastSyncCompleted notifies clients of a finished cycle so lists can
// refresh.
func (h *WSHub) BroadcastSyncCompleted(pushed int, pulled map[string]int, elapsed time.Duration) {
	h.Broadcast(EventSyncCompleted, map[string]interface{}{
		"pushed":      pushed,
		"pulled":      pulled,
		"duration_ms": elapsed.Milliseconds(),
		"status":      "completed",
	})
}

// BroadcastSyncFailed notifies clients that a sync cycle failed.
func (h *WSHub) BroadcastSyncFailed(errMsg string) {
	h.Broadcast(EventSyncFailed, map[string]interface{}{
		"error":  errMsg,
		"status": "failed",
	})
}

// BroadcastDataChanged tells clients a table changed outside their own
// actions, e.g. rows applied during a pull.
func (h *WSHub) BroadcastDataChanged(table string) {
	h.Broadcast(EventDataChanged, map[string]interface{}{
		"table": table,
	})
}

func (c *WSClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.WithComponent("ws").WithError(err).Debug("read error")
			}
			break
		}

		var msg map[string]interface{}
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if action, ok := msg["action"].(string); ok && action == "ping" {
			c.sendPong()
		}
	}
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *WSClient) sendPong() {
	bytes, _ := json.Marshal(map[string]interface{}{
		"action":    "pong",
		"timestamp": time.Now().Unix(),
	})
	c.send <- bytes
}

// HandleWebSocket upgrades /ws connections and registers them with the hub.
func HandleWebSocket(hub *WSHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.WithComponent("ws").WithError(err).Warn("upgrade failed")
			return
		}

		client := &WSClient{
			id:   uuid.NewString(),
			conn: conn,
			send: make(chan []byte, 64),
			hub:  hub,
		}
		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}
