package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const sendBuffer = 64

// Client wraps one websocket connection. Every write goes through the
// buffered send channel and the write pump, so pushes issued inside the
// hub's critical sections never block and per-room ordering is kept.
type Client struct {
	id      string
	rawConn *websocket.Conn
	send    chan []byte

	closeOnce sync.Once
}

func newClient(rawConn *websocket.Conn) *Client {
	return &Client{
		id:      uuid.NewString(),
		rawConn: rawConn,
		send:    make(chan []byte, sendBuffer),
	}
}

// ID implements chat.Conn.
func (c *Client) ID() string { return c.id }

// Push implements chat.Conn. A full buffer means the peer cannot keep
// up; the frame is dropped rather than stalling the room.
func (c *Client) Push(event string, body any) {
	buf, err := json.Marshal(outEnvelope{Event: event, Body: body})
	if err != nil {
		zap.L().Warn("ws.push_marshal", zap.Error(err))
		return
	}
	select {
	case c.send <- buf:
	default:
		zap.L().Warn("ws.push_drop",
			zap.String("conn", c.id),
			zap.String("event", event),
		)
	}
}

// close stops the write pump; safe to call more than once.
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// writePump owns the connection's write side: queued frames plus pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.rawConn.Close()
	}()

	for {
		select {
		case buf, ok := <-c.send:
			_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.rawConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.rawConn.WriteMessage(websocket.TextMessage, buf); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.rawConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
