package posts

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"moments/internal/kvstore"
)

// StorageKey is the key holding the serialized post array
const StorageKey = "posts"

// Store owns the canonical post list for the session, head = most recent.
// With a kvstore attached, the full list is written after every Append.
type Store struct {
	mu     sync.RWMutex
	posts  []Post
	kv     kvstore.Store
	logger *slog.Logger
}

// NewStore creates a store, hydrating from kv when it holds a well-formed list
// and falling back to SeedPosts otherwise. A nil kv yields a memory-only store.
func NewStore(ctx context.Context, kv kvstore.Store, logger *slog.Logger) *Store {
	s := &Store{kv: kv, logger: logger}
	s.posts = s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) []Post {
	if s.kv == nil {
		return SeedPosts()
	}

	raw, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.logger.Warn("Failed to read persisted posts, using seed list", "error", err)
		}
		return SeedPosts()
	}

	var list []Post
	if err := json.Unmarshal([]byte(raw), &list); err != nil || list == nil {
		s.logger.Warn("Persisted posts are malformed, using seed list", "error", err)
		return SeedPosts()
	}

	s.logger.Debug("Hydrated posts from storage", "count", len(list))
	return list
}

// GetAll returns a copy of the current list in store order
func (s *Store) GetAll() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Post, len(s.posts))
	for i, p := range s.posts {
		out[i] = clonePost(p)
	}
	return out
}

// Find returns the first post with the given id
func (s *Store) Find(id int64) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.ID == id {
			return clonePost(p), true
		}
	}
	return Post{}, false
}

// Len returns the number of stored posts
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// Append inserts post at the head of the list and persists the list.
// Ids are not deduplicated. Persistence is best effort: failures are logged
// and the in-memory list stays authoritative.
func (s *Store) Append(ctx context.Context, post Post) Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Post, 0, len(s.posts)+1)
	next = append(next, clonePost(post))
	next = append(next, s.posts...)
	s.posts = next

	// Written under the lock so concurrent appends persist in order
	s.persistLocked(ctx)

	return post
}

func (s *Store) persistLocked(ctx context.Context) {
	if s.kv == nil {
		return
	}

	data, err := json.Marshal(s.posts)
	if err != nil {
		s.logger.Error("Failed to marshal posts", "error", err)
		return
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		s.logger.Error("Failed to persist posts", "count", len(s.posts), "error", err)
	}
}
