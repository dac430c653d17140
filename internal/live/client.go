// internal/live/client.go
// One websocket connection subscribed to a single tournament's live feed.
// The feed is read-only from the client's perspective: inbound messages are
// read and discarded, and only the keepalive pong is acted on (it refreshes
// the read deadline).

package live

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client wraps one websocket connection.
type Client struct {
	hub          *Hub
	conn         *websocket.Conn
	send         chan []byte
	tournamentID string
}

// NewClient registers and returns a client; callers must invoke Run to
// start its pumps.
func NewClient(hub *Hub, conn *websocket.Conn, tournamentID string) *Client {
	c := &Client{hub: hub, conn: conn, send: make(chan []byte, 64), tournamentID: tournamentID}
	hub.register <- c
	return c
}

// Run starts the read and write pumps; it blocks until the connection closes.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

func (c *Client) close() {
	close(c.send)
}
