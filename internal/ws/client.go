package ws

import (
	"context"
	"encoding/json"
	"time"

	"jobboard/internal/domain/user"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Command is sent by clients to manage their subscriptions.
type Command struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

type reply struct {
	Type    string `json:"type"`
	Topic   string `json:"topic,omitempty"`
	Message string `json:"message,omitempty"`
}

// Authorizer decides whether an identity may follow a topic.
type Authorizer interface {
	CanSubscribe(ctx context.Context, id user.Identity, topic string) bool
}

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	identity user.Identity
	auth     Authorizer
}

func NewClient(hub *Hub, conn *websocket.Conn, id user.Identity, auth Authorizer) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		identity: id,
		auth:     auth,
	}
}

// ReadPump handles subscription commands until the connection drops.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			c.reply(reply{Type: "error", Message: "malformed command"})
			continue
		}
		c.handle(cmd)
	}
}

func (c *Client) handle(cmd Command) {
	switch cmd.Action {
	case "subscribe":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		allowed := c.auth != nil && c.auth.CanSubscribe(ctx, c.identity, cmd.Topic)
		cancel()
		if !allowed {
			c.reply(reply{Type: "error", Topic: cmd.Topic, Message: "subscription denied"})
			return
		}
		c.hub.Subscribe(c, cmd.Topic)
		c.reply(reply{Type: "subscribed", Topic: cmd.Topic})
	case "unsubscribe":
		c.hub.Unsubscribe(c, cmd.Topic)
		c.reply(reply{Type: "unsubscribed", Topic: cmd.Topic})
	default:
		c.reply(reply{Type: "error", Message: "unknown action"})
	}
}

func (c *Client) reply(r reply) {
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	c.hub.direct(c, b)
}

// WritePump forwards hub messages and keeps the connection alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
