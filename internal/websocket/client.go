package websocket

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const sendBufferSize = 256

type Client struct {
	ID      string
	UserID  string
	Conn    *websocket.Conn
	Manager *Manager
	Send    chan []byte
}

func NewClient(id, userID string, conn *websocket.Conn, manager *Manager) *Client {
	return &Client{
		ID:      id,
		UserID:  userID,
		Conn:    conn,
		Manager: manager,
		Send:    make(chan []byte, sendBufferSize),
	}
}

func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Manager.Unregister <- c:
		case <-c.Manager.done:
		}
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(c.Manager.pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(c.Manager.pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read error", "client_id", c.ID, "error", err)
			}
			break
		}

		select {
		case c.Manager.HandleMessage <- &ClientMessage{Client: c, Message: message}:
		case <-c.Manager.done:
			return
		}
	}
}

// WritePump drains Send onto the connection, coalescing queued messages into one
// newline-separated frame, and pings on every pingPeriod.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.Manager.pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)

			n := len(c.Send)
			for i := 0; i < n; i++ {
				_, _ = w.Write([]byte{'\n'})
				_, _ = w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
