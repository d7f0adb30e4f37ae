package ws

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *AlertHub, userID uint) *Client {
	c := &Client{UserID: userID, Role: "ADMIN", Send: make(chan []byte, 4)}
	hub.Register(c)
	return c
}

func TestBroadcastReachesRegisteredClients(t *testing.T) {
	hub := NewAlertHub()
	a := newTestClient(hub, 1)
	b := newTestClient(hub, 2)

	hub.Broadcast(Alert{Type: "health", Severity: "CRITICAL", Title: "redis is DOWN"})

	require.Len(t, a.Send, 1)
	require.Len(t, b.Send, 1)
	assert.Contains(t, string(<-a.Send), "redis is DOWN")
}

func TestBroadcastSkipsSlowClients(t *testing.T) {
	hub := NewAlertHub()
	c := &Client{UserID: 1, Send: make(chan []byte, 1)}
	hub.Register(c)

	hub.Broadcast(Alert{Type: "health", Title: "first"})
	// Buffer is full now; the second broadcast must not block.
	hub.Broadcast(Alert{Type: "health", Title: "second"})

	assert.Len(t, c.Send, 1)
}

func TestCloseUnregistersAndIsIdempotent(t *testing.T) {
	hub := NewAlertHub()
	c := newTestClient(hub, 1)
	require.Equal(t, 1, hub.ClientCount())

	c.Close()
	c.Close()
	assert.Equal(t, 0, hub.ClientCount())
}

func TestBroadcastDoesNotPanicOnConcurrentClose(t *testing.T) {
	hub := NewAlertHub()
	clients := make([]*Client, 0, 16)
	for i := 0; i < 16; i++ {
		clients = append(clients, newTestClient(hub, uint(i+1)))
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.Broadcast(Alert{Type: "health", Title: "tick"})
		}
	}()
	go func() {
		defer wg.Done()
		for _, c := range clients {
			c.Close()
		}
	}()
	wg.Wait()

	assert.Equal(t, 0, hub.ClientCount())
}
