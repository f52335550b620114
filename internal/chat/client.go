package chat

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"go-matchchat/internal/auth"
)

const (
	writeWait      = 10 * time.Second    // Time allowed to write a message to the peer.
	pongWait       = 60 * time.Second    // Time allowed to read the next pong message from the peer.
	pingPeriod     = (pongWait * 9) / 10 // Send pings to peer with this period. Must be less than pongWait.
	maxMessageSize = 4096                // Maximum frame size allowed from peer.
)

// Client is the per-connection context: the websocket, the resolved
// identity, and at most one joined channel. It is the middleman between the
// connection and the hub.
type Client struct {
	ID   string
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte

	Identity auth.Identity
	Authed   bool

	service *Service

	// channel/joined are owned by the hub run loop.
	channel Channel
	joined  bool
}

// ReadPump pumps frames from the websocket into the hub and the chat
// service. One per connection; exits on read error, which triggers
// unregister and membership cleanup.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("connection %s: %v", c.ID, err)
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("connection %s: bad frame: %v", c.ID, err)
			continue
		}

		// Anonymous connections stay open but their requests are no-ops.
		if !c.Authed {
			continue
		}

		switch env.Type {
		case FrameJoin:
			channel, err := c.service.AuthorizeJoin(context.Background(), c.Identity.UserID, env.PeerID)
			if err != nil {
				log.Printf("connection %s: join rejected: %v", c.ID, err)
				continue
			}
			c.Hub.Join(c, channel)

		case FrameSend:
			// Failures are logged only; the live channel carries no error
			// signal back to the sender.
			if _, err := c.service.Send(context.Background(), c.Identity.UserID, env.ReceiverID, env.Content); err != nil {
				log.Printf("connection %s: send failed: %v", c.ID, err)
			}

		default:
			log.Printf("connection %s: unknown frame type %q", c.ID, env.Type)
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection, with
// ping keepalives and write coalescing.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush any queued messages in the same frame batch.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
