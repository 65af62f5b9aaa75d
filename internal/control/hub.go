package control

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/sofa-configurator/internal/configurator"
	"github.com/Faultbox/sofa-configurator/internal/logger"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 30 * time.Second
	clientBuffer = 32
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans configurator events out to websocket subscribers. New
// subscribers receive the most recent event first.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
	closed  bool
}

// NewHub creates a hub with no subscribers.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Notify broadcasts e. It never blocks: subscribers whose buffer is full
// are disconnected.
func (h *Hub) Notify(e configurator.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		logger.Error("encoding event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			logger.Warn("dropping slow event subscriber", zap.Stringer("remote", c.conn.RemoteAddr()))
			h.removeLocked(c)
		}
	}
}

// Serve registers conn as a subscriber and returns once the connection
// is closed by either side.
func (h *Hub) Serve(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	h.mu.Unlock()

	logger.Debug("event subscriber connected", zap.Stringer("remote", conn.RemoteAddr()))
	go h.readPump(c)
	h.writePump(c)
}

// readPump discards client messages and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer h.remove(c)
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.remove(c)
		c.conn.Close()
		logger.Debug("event subscriber disconnected", zap.Stringer("remote", c.conn.RemoteAddr()))
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("event write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}
