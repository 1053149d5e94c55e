package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"jobboard/internal/metrics"

	"github.com/sirupsen/logrus"
)

// Event is what subscribers receive. Data is set only for pushes that carry
// a payload, such as a new notification.
type Event struct {
	Type      string `json:"type"`
	Topic     string `json:"topic"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

const (
	EventInvalidate = "invalidate"
	EventPush       = "push"
)

type message struct {
	topic string
	body  []byte
}

// Hub routes published topics to the clients subscribed to them. Membership
// changes happen under the mutex; fan-out runs on the Run goroutine.
type Hub struct {
	clients   map[*Client]map[string]struct{}
	topics    map[string]map[*Client]struct{}
	broadcast chan message
	mutex     sync.RWMutex
	logger    logrus.FieldLogger
}

func NewHub(logger logrus.FieldLogger) *Hub {
	return &Hub{
		clients:   make(map[*Client]map[string]struct{}),
		topics:    make(map[string]map[*Client]struct{}),
		broadcast: make(chan message, 1024),
		logger:    logger,
	}
}

// Run serves the hub until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				close(c.send)
			}
			h.clients = make(map[*Client]map[string]struct{})
			h.topics = make(map[string]map[*Client]struct{})
			h.mutex.Unlock()
			metrics.SetLiveClients(0)
			return

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) deliver(msg message) {
	var slow []*Client

	h.mutex.RLock()
	for client := range h.topics[msg.topic] {
		select {
		case client.send <- msg.body:
		default:
			slow = append(slow, client)
		}
	}
	h.mutex.RUnlock()

	for _, client := range slow {
		h.logf(logrus.Fields{"topic": msg.topic}, "dropping slow live client")
		h.Unregister(client)
	}
}

// direct queues b for one registered client.
func (h *Hub) direct(client *Client, b []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	select {
	case client.send <- b:
	default:
	}
}

// removeFromTopic requires h.mutex held for writing.
func (h *Hub) removeFromTopic(topic string, c *Client) {
	subs := h.topics[topic]
	delete(subs, c)
	if len(subs) == 0 {
		delete(h.topics, topic)
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	h.mutex.Lock()
	if _, ok := h.clients[client]; !ok {
		h.clients[client] = make(map[string]struct{})
	}
	total := len(h.clients)
	h.mutex.Unlock()

	metrics.SetLiveClients(total)
	h.logf(logrus.Fields{"total_clients": total}, "live client connected")
}

// Unregister drops the client and closes its send channel. Repeated calls
// are no-ops.
func (h *Hub) Unregister(client *Client) {
	if h == nil || client == nil {
		return
	}
	h.mutex.Lock()
	subs, ok := h.clients[client]
	if ok {
		for topic := range subs {
			h.removeFromTopic(topic, client)
		}
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mutex.Unlock()

	if ok {
		metrics.SetLiveClients(total)
		h.logf(logrus.Fields{"total_clients": total}, "live client disconnected")
	}
}

// Subscribe is ignored for clients that are not registered.
func (h *Hub) Subscribe(client *Client, topic string) {
	if h == nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	subs, ok := h.clients[client]
	if !ok {
		return
	}
	subs[topic] = struct{}{}
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]struct{})
	}
	h.topics[topic][client] = struct{}{}
}

func (h *Hub) Unsubscribe(client *Client, topic string) {
	if h == nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if subs, ok := h.clients[client]; ok {
		delete(subs, topic)
		h.removeFromTopic(topic, client)
	}
}

// Publish implements the usecase publisher. A nil payload is a plain
// invalidation; anything else is pushed as the event data.
func (h *Hub) Publish(topic string, payload any) {
	if h == nil {
		return
	}
	evt := Event{
		Type:      EventInvalidate,
		Topic:     topic,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if payload != nil {
		evt.Type = EventPush
		evt.Data = payload
	}
	b, err := json.Marshal(evt)
	if err != nil {
		h.logf(logrus.Fields{"topic": topic, "error": err}, "live event encode failed")
		return
	}

	select {
	case h.broadcast <- message{topic: topic, body: b}:
	default:
		h.logf(logrus.Fields{"topic": topic, "reason": "buffer_full"}, "live event dropped")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// SubscriberCount returns how many clients currently follow topic.
func (h *Hub) SubscriberCount(topic string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) logf(fields logrus.Fields, msg string) {
	if h.logger != nil {
		h.logger.WithFields(fields).Debug(msg)
	}
}
