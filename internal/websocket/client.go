package websocket

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cinefinder/cinefinder/internal/searchview"
)

// Client is one websocket connection and its search session.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	view *searchview.View

	logs       atomic.Bool
	lastSeenAt atomic.Int64
}

func (c *Client) touch() {
	c.lastSeenAt.Store(time.Now().UnixNano())
}

func (c *Client) lastSeen() time.Time {
	return time.Unix(0, c.lastSeenAt.Load())
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug().Err(err).Str("session", c.id).Msg("Unexpected websocket close")
			}
			return
		}
		c.touch()

		select {
		case c.hub.incoming <- incomingMessage{client: c, message: message}:
		case <-c.hub.ctx.Done():
			return
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

			// Send any queued messages as separate frames
			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// watch pushes the rendered state after every change until the view is
// closed.
func (c *Client) watch() {
	changes := c.view.Subscribe()
	c.push()
	for range changes {
		c.push()
	}
}

func (c *Client) push() {
	payload, err := c.hub.statePayload(c)
	if err != nil {
		c.hub.logger.Error().Err(err).Str("session", c.id).Msg("Failed to render search state")
		return
	}
	data, err := encode(MessageTypeSearchState, payload)
	if err != nil {
		return
	}
	c.hub.enqueue(c, data)
}
