package websocket

import (
	"time"

	"github.com/caterbazar/caterbazar-console/pkg/logger"
	"github.com/gorilla/websocket"
)

// Keepalive timing for event sockets.
const (
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
	pingInterval = idleTimeout * 9 / 10

	// Browsers only send control frames on this channel.
	inboundLimit = 512
)

// Conn wraps a gorilla connection.
type Conn struct {
	*websocket.Conn
}

// Serve runs the client until either side closes: events are forwarded from Send
// and inbound frames are drained so pings and close frames are handled.
func (c *Client) Serve() {
	go c.forward()
	c.drain()
}

func (c *Client) drain() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	extend := func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(idleTimeout))
	}
	c.Conn.SetReadLimit(inboundLimit)
	_ = extend("")
	c.Conn.SetPongHandler(extend)

	for {
		if _, _, err := c.Conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Event socket closed unexpectedly", map[string]interface{}{
					"console_id": c.ConsoleID,
					"error":      err.Error(),
				})
			}
			return
		}
	}
}

func (c *Client) forward() {
	keepalive := time.NewTicker(pingInterval)
	defer func() {
		keepalive.Stop()
		c.Conn.Close()
	}()

	write := func(messageType int, data []byte) error {
		_ = c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		return c.Conn.WriteMessage(messageType, data)
	}

	for {
		select {
		case msg, open := <-c.Send:
			if !open {
				// Console closed by the hub.
				_ = write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "console closed"))
				return
			}
			if err := write(websocket.TextMessage, msg); err != nil {
				logger.Warn("Failed to push console event", map[string]interface{}{
					"console_id": c.ConsoleID,
					"error":      err.Error(),
				})
				return
			}
		case <-keepalive.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
