package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"moments/internal/posts"
)

// DefaultLatency is the artificial delay of MockSource, standing in for network I/O
const DefaultLatency = time.Second

// Content of the synthetic post generated for every page after the first
const (
	NextPageContent = "新的一天，新的开始。"
	NextPageImage   = "https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=800"
)

// ErrInvalidPage is returned for page numbers below 1
var ErrInvalidPage = errors.New("feed: invalid page number")

// Source fetches one page of posts. Pages are numbered from 1.
type Source interface {
	FetchPage(ctx context.Context, page int) ([]posts.Post, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context, page int) ([]posts.Post, error)

// FetchPage calls f(ctx, page)
func (f SourceFunc) FetchPage(ctx context.Context, page int) ([]posts.Post, error) {
	return f(ctx, page)
}

// Lister is the read side of the Post Store
type Lister interface {
	GetAll() []posts.Post
}

// MockSource simulates a remote feed: page 1 is the Post Store's current list,
// later pages are a single freshly generated post with a random like count.
type MockSource struct {
	store   Lister
	ids     *posts.IDGenerator
	latency time.Duration
	fail    func(page int) error
	now     func() time.Time

	mu    sync.Mutex
	faker *gofakeit.Faker
}

// MockOption configures a MockSource
type MockOption func(*MockSource)

// WithLatency overrides DefaultLatency
func WithLatency(d time.Duration) MockOption {
	return func(s *MockSource) { s.latency = d }
}

// WithFailures makes FetchPage return fail(page) when it is non-nil
func WithFailures(fail func(page int) error) MockOption {
	return func(s *MockSource) { s.fail = fail }
}

// WithSeed makes the generated like counts reproducible
func WithSeed(seed int64) MockOption {
	return func(s *MockSource) { s.faker = gofakeit.New(seed) }
}

// NewMockSource creates a source backed by store
func NewMockSource(store Lister, ids *posts.IDGenerator, opts ...MockOption) *MockSource {
	s := &MockSource{
		store:   store,
		ids:     ids,
		latency: DefaultLatency,
		now:     time.Now,
		faker:   gofakeit.New(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchPage waits for the configured latency, then returns the page
func (s *MockSource) FetchPage(ctx context.Context, page int) ([]posts.Post, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}

	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if s.fail != nil {
		if err := s.fail(page); err != nil {
			return nil, err
		}
	}

	if page == 1 {
		return s.store.GetAll(), nil
	}
	return []posts.Post{s.nextPagePost()}, nil
}

func (s *MockSource) nextPagePost() posts.Post {
	s.mu.Lock()
	likes := s.faker.Number(0, 999)
	s.mu.Unlock()

	now := s.now()
	return posts.Post{
		ID:        s.ids.Next(now),
		Image:     NextPageImage,
		Content:   NextPageContent,
		Likes:     likes,
		Comments:  []posts.Comment{},
		Liked:     false,
		Timestamp: posts.FormatTimestamp(now),
	}
}
