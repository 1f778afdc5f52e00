package sync

import (
	stdsync "sync"

	"github.com/gorilla/websocket"

	"interviewhub/internal/models"
)

// Client is one connected participant: a websocket plus the controller
// guarding that participant's buffer.
type Client struct {
	Conn   *websocket.Conn
	UserID string
	Ctrl   *Controller

	mu   stdsync.Mutex
	hook func(models.WSFrame)
}

func NewClient(conn *websocket.Conn, userID string, ctrl *Controller) *Client {
	return &Client{Conn: conn, UserID: userID, Ctrl: ctrl}
}

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(models.WSFrame)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

func (c *Client) Send(frame models.WSFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(frame)
		return
	}
	if c.Conn == nil {
		return
	}
	_ = c.Conn.WriteJSON(frame)
}
