// Package events delivers pipeline results to the connected clients of a user.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one message pushed to a user's clients.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	UserID    string    `json:"userId"`
	Views     []string  `json:"views,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewEvent stamps a new event with a random id and the current time.
func NewEvent(userID, eventType string, payload any, views []string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Views:     append([]string(nil), views...),
		Timestamp: time.Now().UTC(),
		Data:      payload,
	}
}

// Deliverer pushes an event to every client of userID that shows one of views.
type Deliverer interface {
	Deliver(userID, eventType string, payload any, views []string) error
}

// DelivererFunc adapts a function to Deliverer.
type DelivererFunc func(userID, eventType string, payload any, views []string) error

func (f DelivererFunc) Deliver(userID, eventType string, payload any, views []string) error {
	return f(userID, eventType, payload, views)
}

const subscriberBuffer = 16

// Hub fans events out to the in-process subscribers of each user.
type Hub struct {
	subscribers map[string]map[string]chan Event
	mutex       sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[string]chan Event)}
}

// Subscribe registers a new subscriber for userID and returns its id and
// channel. The channel is closed by Unsubscribe.
func (h *Hub) Subscribe(userID string) (string, <-chan Event) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	id := uuid.NewString()
	ch := make(chan Event, subscriberBuffer)
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[string]chan Event)
	}
	h.subscribers[userID][id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(userID, id string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	subs := h.subscribers[userID]
	if ch, ok := subs[id]; ok {
		delete(subs, id)
		close(ch)
	}
	if len(subs) == 0 {
		delete(h.subscribers, userID)
	}
}

// Subscribers returns how many subscribers userID has.
func (h *Hub) Subscribers(userID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.subscribers[userID])
}

// Deliver implements Deliverer.
func (h *Hub) Deliver(userID, eventType string, payload any, views []string) error {
	h.Publish(NewEvent(userID, eventType, payload, views))
	return nil
}

// Publish sends ev to the subscribers of ev.UserID and returns how many
// received it. Slow subscribers whose buffer is full are skipped.
func (h *Hub) Publish(ev Event) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	delivered := 0
	for _, ch := range h.subscribers[ev.UserID] {
		select {
		case ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}
