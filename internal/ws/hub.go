package ws

import (
	"encoding/json"
	"sync"
	"time"
)

// Client is a single dashboard WebSocket connection.
type Client struct {
	UserID uint
	Role   string
	Send   chan []byte
	Hub    *AlertHub
	mu     sync.Mutex
	closed bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.Hub != nil {
		c.Hub.unregister(c)
	}
}

// trySend queues data for the client unless it is closed or its buffer
// is full. Holding c.mu keeps the send from racing Close.
func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// Alert is the payload pushed to connected staff dashboards.
type Alert struct {
	Type      string      `json:"type"` // health | security | moderation
	Severity  string      `json:"severity"`
	Title     string      `json:"title"`
	Detail    interface{} `json:"detail,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// AlertHub fans operational alerts out to every connected staff client.
type AlertHub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewAlertHub() *AlertHub {
	return &AlertHub{clients: make(map[*Client]struct{})}
}

func (h *AlertHub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Hub = h
	h.clients[c] = struct{}{}
}

func (h *AlertHub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// Broadcast sends the alert to every connected client. Slow clients are
// skipped rather than blocking the caller.
func (h *AlertHub) Broadcast(a Alert) {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	data, _ := json.Marshal(a)
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.trySend(data)
	}
}

func (h *AlertHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
