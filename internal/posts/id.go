package posts

import (
	"sync"
	"time"
)

// IDGenerator hands out timestamp-derived ids (unix milliseconds).
// Ids are strictly increasing per generator, even within one millisecond.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
}

// NewIDGenerator creates a generator starting from the current clock
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the id for an entity created at t
func (g *IDGenerator) Next(t time.Time) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := t.UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// FormatTimestamp renders t the way posts and comments store it
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
