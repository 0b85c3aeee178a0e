// Package events carries feed notifications between components through an
// explicitly injected Emitter, optionally forwarding them to Kafka.
package events

import (
	"context"
	"sync"
	"time"
)

// Type identifies an event kind
type Type string

const (
	// PostCreated is emitted after a post was appended to the Post Store
	PostCreated Type = "post.created"
	// CommentSubmitted is emitted after a comment was added to a local thread
	CommentSubmitted Type = "comment.submitted"
)

// Event is the envelope delivered to subscribers and published to Kafka
type Event struct {
	Type       Type      `json:"type"`
	PostID     int64     `json:"post_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// Handler reacts to an event. Handlers run synchronously on the emitting goroutine.
type Handler func(ctx context.Context, ev Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Emitter dispatches events to subscribers registered per event type
type Emitter struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Type][]subscription
}

// NewEmitter creates an emitter with no subscribers
func NewEmitter() *Emitter {
	return &Emitter{subs: make(map[Type][]subscription)}
}

// Subscribe registers h for events of type t and returns a function removing it
func (e *Emitter) Subscribe(t Type, h Handler) (unsubscribe func()) {
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.subs[t] = append(e.subs[t], subscription{id: id, handler: h})
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		list := e.subs[t]
		for i, s := range list {
			if s.id == id {
				e.subs[t] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers ev to every subscriber of ev.Type in subscription order
func (e *Emitter) Emit(ctx context.Context, ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	e.mu.RLock()
	handlers := make([]Handler, 0, len(e.subs[ev.Type]))
	for _, s := range e.subs[ev.Type] {
		handlers = append(handlers, s.handler)
	}
	e.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, ev)
	}
}
