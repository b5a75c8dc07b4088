package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const eventBufferSize = 64

// Client is one live transport connection. The connection identifier is
// assigned at upgrade time; room/user bindings are set once the client
// joins. Events is drained by a single writer goroutine, which keeps
// delivery to a given connection in send order.
type Client struct {
	ID       string
	Socket   *websocket.Conn
	Events   chan Event
	JoinedAt time.Time

	mu       sync.RWMutex
	roomID   string
	userID   string
	userName string
	closed   bool
}

func NewClient(socket *websocket.Conn) *Client {
	return &Client{
		ID:       uuid.New().String(),
		Socket:   socket,
		Events:   make(chan Event, eventBufferSize),
		JoinedAt: time.Now().UTC(),
	}
}

func (c *Client) Bind(roomID, userID, userName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
	c.userID = userID
	c.userName = userName
}

func (c *Client) Unbind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = ""
	c.userID = ""
	c.userName = ""
}

// Binding reports the room/user the connection is joined to, if any.
func (c *Client) Binding() (roomID, userID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID, c.userID
}

func (c *Client) UserName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userName
}

// EnqueueEvent queues an event for delivery, dropping it when the buffer
// is full or the client is already closed. Presence snapshots are full
// replacements, so a dropped one is recovered by the next.
func (c *Client) EnqueueEvent(event Event) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return false
	}

	select {
	case c.Events <- event:
		return true
	default:
		return false
	}
}

// Close marks the client terminal and closes the event channel so the
// writer goroutine drains and exits. Safe to call once per client;
// subsequent enqueues become no-ops.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.Events)
}
