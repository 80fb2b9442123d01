package session

import (
	"context"
	"sync"

	"forumfront/internal/model"
)

// Hub fans session events out to in-process subscribers.
type Hub struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(model.SessionEvent)
}

func NewHub() *Hub {
	return &Hub{listeners: make(map[int]func(model.SessionEvent))}
}

// Subscribe registers fn and returns a function that removes it.
// fn runs on the publishing goroutine and must not block.
func (h *Hub) Subscribe(fn func(model.SessionEvent)) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

// Dispatch delivers event to every current subscriber.
func (h *Hub) Dispatch(event model.SessionEvent) {
	h.mu.Lock()
	fns := make([]func(model.SessionEvent), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

// PublishSessionEvent lets the hub stand in for the stream publisher
// when forumfront runs without Redis.
func (h *Hub) PublishSessionEvent(ctx context.Context, event model.SessionEvent) error {
	h.Dispatch(event)
	return nil
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}
