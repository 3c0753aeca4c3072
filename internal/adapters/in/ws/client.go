// Package ws streams order tracking events to WebSocket clients. Each
// connection subscribes to one order on the broadcaster; events pass through a
// small reorder buffer before being written out, so a client always observes
// monotonically increasing sequence numbers.
package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"dispatch/internal/broadcast"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

// Client is one WebSocket connection subscribed to one order's events.
// It implements broadcast.Subscriber.
type Client struct {
	id     string
	conn   *websocket.Conn
	send   chan broadcast.Event
	buffer *broadcast.ReorderBuffer
	logger *slog.Logger
	done   chan struct{}
}

func newClient(id string, conn *websocket.Conn, reorderLimit int, logger *slog.Logger) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		send:   make(chan broadcast.Event, sendBufferSize),
		buffer: broadcast.NewReorderBuffer(reorderLimit),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// ID returns the subscriber identifier.
func (c *Client) ID() string {
	return c.id
}

// Send hands an event to the connection's write pump. A full send buffer
// means the client cannot keep up; the error makes the broadcaster drop it.
func (c *Client) Send(event broadcast.Event) error {
	select {
	case c.send <- event:
		return nil
	case <-c.done:
		return websocket.ErrCloseSent
	default:
		return errSendBufferFull
	}
}

// writePump serializes all writes to the connection: buffered events in
// sequence order and periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			for _, deliverable := range c.buffer.Push(event) {
				if err := c.writeEvent(deliverable); err != nil {
					return
				}
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

func (c *Client) writeEvent(event broadcast.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		c.logger.Error("failed to encode event", "error", err)
		return err
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// readPump consumes control frames until the peer goes away. Clients never
// send data messages; the read loop exists for close and pong handling.
func (c *Client) readPump(onClose func()) {
	defer func() {
		close(c.done)
		_ = c.conn.Close()
		onClose()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
