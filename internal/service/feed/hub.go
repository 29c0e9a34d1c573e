package feed

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/postboard/backend/internal/model/post"
)

// Event types published by the post store.
const (
	EventCreated = "post.created"
	EventUpdated = "post.updated"
	EventDeleted = "post.deleted"
)

// Event describes a single store mutation. Deleted events carry the record's
// final state.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Post      post.Post `json:"post"`
	Timestamp int64     `json:"timestamp"`
}

// NewEvent stamps a mutation with an identifier and the current time.
func NewEvent(eventType string, p post.Post) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Post:      p,
		Timestamp: time.Now().Unix(),
	}
}

// subscriberBuffer bounds how many undelivered events a subscriber may hold
// before further events are dropped for it.
const subscriberBuffer = 16

// Hub fans store mutation events out to connected subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]chan Event
}

// NewHub bootstraps an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]chan Event)}
}

// Subscribe registers a new subscriber and returns its identifier along with
// the channel events arrive on.
func (h *Hub) Subscribe() (string, <-chan Event) {
	id := uuid.NewString()
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	return id, ch
}

// Unsubscribe drops the subscriber and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	close(ch)
}

// Publish delivers the event to every subscriber without blocking; a
// subscriber with a full buffer misses the event rather than stalling the
// mutation that produced it.
func (h *Hub) Publish(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribers reports how many subscribers are currently registered.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
