package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"jobboard/internal/domain/user"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(h *Hub) *Client {
	return &Client{hub: h, send: make(chan []byte, 8)}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case b := <-c.send:
		var evt Event
		require.NoError(t, json.Unmarshal(b, &evt))
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
		return Event{}
	}
}

func TestHub_DeliversOnlyToSubscribers(t *testing.T) {
	logger, _ := test.NewNullLogger()
	h := NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	a := newTestClient(h)
	b := newTestClient(h)
	h.Register(a)
	h.Register(b)
	h.Subscribe(a, "listings")

	h.Publish("listings", nil)

	evt := receive(t, a)
	assert.Equal(t, EventInvalidate, evt.Type)
	assert.Equal(t, "listings", evt.Topic)
	assert.Nil(t, evt.Data)
	assert.Empty(t, b.send)
	assert.Equal(t, 2, h.ClientCount())
	assert.Equal(t, 1, h.SubscriberCount("listings"))
}

func TestHub_PayloadBecomesPush(t *testing.T) {
	logger, _ := test.NewNullLogger()
	h := NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := newTestClient(h)
	h.Register(c)
	h.Subscribe(c, "user:1:notifications")
	h.Publish("user:1:notifications", map[string]string{"title": "Application update"})

	evt := receive(t, c)
	assert.Equal(t, EventPush, evt.Type)
	assert.Equal(t, map[string]any{"title": "Application update"}, evt.Data)
}

func TestHub_UnsubscribeAndUnregister(t *testing.T) {
	logger, _ := test.NewNullLogger()
	h := NewHub(logger)

	c := newTestClient(h)
	h.Register(c)
	h.Subscribe(c, "listings")
	h.Unsubscribe(c, "listings")
	assert.Equal(t, 0, h.SubscriberCount("listings"))

	h.Subscribe(c, "listings")
	h.Unregister(c)
	h.Unregister(c)
	assert.Equal(t, 0, h.ClientCount())
	assert.Equal(t, 0, h.SubscriberCount("listings"))

	_, open := <-c.send
	assert.False(t, open)

	// unregistered clients cannot resubscribe
	h.Subscribe(c, "listings")
	assert.Equal(t, 0, h.SubscriberCount("listings"))
}

func TestHub_NilIsSafe(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() {
		h.Publish("listings", nil)
		h.Register(nil)
		assert.Equal(t, 0, h.ClientCount())
	})
}

type allowUsers struct{ id string }

func (a allowUsers) CanSubscribe(_ context.Context, id user.Identity, _ string) bool {
	return id.ExternalID == a.id
}

func TestClient_HandleCommands(t *testing.T) {
	logger, _ := test.NewNullLogger()
	h := NewHub(logger)

	c := &Client{hub: h, send: make(chan []byte, 8), identity: user.Identity{ExternalID: "u1"}, auth: allowUsers{id: "u1"}}
	h.Register(c)

	c.handle(Command{Action: "subscribe", Topic: "listings"})
	assert.Equal(t, 1, h.SubscriberCount("listings"))
	var r reply
	require.NoError(t, json.Unmarshal(<-c.send, &r))
	assert.Equal(t, "subscribed", r.Type)

	c.handle(Command{Action: "unsubscribe", Topic: "listings"})
	assert.Equal(t, 0, h.SubscriberCount("listings"))
	<-c.send

	denied := &Client{hub: h, send: make(chan []byte, 8), identity: user.Identity{ExternalID: "u2"}, auth: allowUsers{id: "u1"}}
	h.Register(denied)
	denied.handle(Command{Action: "subscribe", Topic: "listings"})
	assert.Equal(t, 0, h.SubscriberCount("listings"))
	require.NoError(t, json.Unmarshal(<-denied.send, &r))
	assert.Equal(t, "error", r.Type)

	denied.handle(Command{Action: "dance"})
	require.NoError(t, json.Unmarshal(<-denied.send, &r))
	assert.Equal(t, "unknown action", r.Message)
}
