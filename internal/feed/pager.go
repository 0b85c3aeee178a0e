// Package feed drives page-by-page retrieval of posts and tracks whether more
// pages remain.
package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"moments/internal/posts"
)

// DefaultMaxPages is the page count after which the feed is exhausted
const DefaultMaxPages = 3

// Status is the pager state
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusExhausted Status = "exhausted"
	StatusErrored   Status = "errored"
)

var (
	// ErrLoadInProgress rejects a load while another fetch is in flight
	ErrLoadInProgress = errors.New("feed: page load already in progress")
	// ErrExhausted rejects a load after the last page was fetched
	ErrExhausted = errors.New("feed: no more pages")
	// ErrNotErrored rejects a retry when the last fetch did not fail
	ErrNotErrored = errors.New("feed: nothing to retry")
)

// Snapshot is a point-in-time copy of the pager state
type Snapshot struct {
	Status  Status       `json:"status"`
	Page    int          `json:"page"` // last successfully loaded page, 0 before the first load
	Posts   []posts.Post `json:"posts"`
	Reason  string       `json:"reason,omitempty"`
	HasMore bool         `json:"has_more"`
	Fresh   int          `json:"fresh"` // posts created since page 1 was fetched
}

// Recorder observes page fetches
type Recorder interface {
	PageFetched(page int, elapsed time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) PageFetched(int, time.Duration, error) {}

// Pager accumulates pages from a Source. At most one fetch is in flight at a time.
type Pager struct {
	source   Source
	maxPages int
	recorder Recorder
	logger   *slog.Logger

	mu         sync.Mutex
	status     Status
	page       int
	results    []posts.Post
	reason     string
	fresh      int
	generation uint64
}

// Option configures a Pager
type Option func(*Pager)

// WithMaxPages sets the exhaustion threshold
func WithMaxPages(n int) Option {
	return func(p *Pager) {
		if n > 0 {
			p.maxPages = n
		}
	}
}

// WithRecorder attaches a fetch observer
func WithRecorder(r Recorder) Option {
	return func(p *Pager) { p.recorder = r }
}

// WithLogger sets the pager logger
func WithLogger(l *slog.Logger) Option {
	return func(p *Pager) { p.logger = l }
}

// NewPager creates an idle pager over source
func NewPager(source Source, opts ...Option) *Pager {
	p := &Pager{
		source:   source,
		maxPages: DefaultMaxPages,
		recorder: nopRecorder{},
		logger:   slog.Default(),
		status:   StatusIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadNext fetches the page after the last loaded one. It is a no-op returning
// ErrLoadInProgress while a fetch is in flight and ErrExhausted after the last page.
// Fetch failures are not returned: they leave the pager Errored with a Reason.
func (p *Pager) LoadNext(ctx context.Context) (Snapshot, error) {
	p.mu.Lock()
	switch p.status {
	case StatusLoading:
		snap := p.snapshotLocked()
		p.mu.Unlock()
		return snap, ErrLoadInProgress
	case StatusExhausted:
		snap := p.snapshotLocked()
		p.mu.Unlock()
		return snap, ErrExhausted
	}
	return p.fetchAndUnlock(ctx), nil
}

// Retry re-issues the page whose fetch failed
func (p *Pager) Retry(ctx context.Context) (Snapshot, error) {
	p.mu.Lock()
	if p.status != StatusErrored {
		snap := p.snapshotLocked()
		p.mu.Unlock()
		if snap.Status == StatusLoading {
			return snap, ErrLoadInProgress
		}
		return snap, ErrNotErrored
	}
	return p.fetchAndUnlock(ctx), nil
}

// fetchAndUnlock must be called with p.mu held; the lock is released during the fetch
func (p *Pager) fetchAndUnlock(ctx context.Context) Snapshot {
	page := p.page + 1
	gen := p.generation
	p.status = StatusLoading
	p.reason = ""
	p.mu.Unlock()

	p.logger.Debug("Fetching feed page", "page", page)
	start := time.Now()
	batch, err := p.source.FetchPage(ctx, page)
	p.recorder.PageFetched(page, time.Since(start), err)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		p.logger.Debug("Discarding page fetched before reset", "page", page)
		return p.snapshotLocked()
	}

	if err != nil {
		p.status = StatusErrored
		p.reason = err.Error()
		p.logger.Warn("Feed page fetch failed", "page", page, "error", err)
		return p.snapshotLocked()
	}

	p.results = append(p.results, batch...)
	p.page = page
	if page == 1 {
		p.fresh = 0
	}
	if p.page >= p.maxPages {
		p.status = StatusExhausted
	} else {
		p.status = StatusIdle
	}
	p.logger.Info("Feed page loaded", "page", page, "count", len(batch), "status", p.status)
	return p.snapshotLocked()
}

// Reset returns the pager to its initial state. A fetch still in flight is discarded on completion.
func (p *Pager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.generation++
	p.status = StatusIdle
	p.page = 0
	p.results = nil
	p.reason = ""
	p.fresh = 0
}

// NotePostCreated counts a post created after page 1 was loaded
func (p *Pager) NotePostCreated() {
	p.mu.Lock()
	if p.page >= 1 {
		p.fresh++
	}
	p.mu.Unlock()
}

// Snapshot returns the current state
func (p *Pager) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Find returns the first accumulated post with the given id
func (p *Pager) Find(id int64) (posts.Post, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, post := range p.results {
		if post.ID == id {
			return post, true
		}
	}
	return posts.Post{}, false
}

func (p *Pager) snapshotLocked() Snapshot {
	results := make([]posts.Post, len(p.results))
	copy(results, p.results)

	return Snapshot{
		Status:  p.status,
		Page:    p.page,
		Posts:   results,
		Reason:  p.reason,
		HasMore: p.status != StatusExhausted,
		Fresh:   p.fresh,
	}
}
