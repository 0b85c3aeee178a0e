package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"moments/internal/events"
)

// MaxContentLength is the longest accepted post body, in characters
const MaxContentLength = 1000

var (
	ErrEmptyPost      = errors.New("post needs content or an image")
	ErrContentTooLong = fmt.Errorf("post content exceeds %d characters", MaxContentLength)
	ErrPostNotFound   = errors.New("post not found")
)

// Emitter receives a PostCreated event after every successful create
type Emitter interface {
	Emit(ctx context.Context, ev events.Event)
}

// Service implements the create-post intent on top of the Store
type Service struct {
	store   *Store
	ids     *IDGenerator
	emitter Emitter
	now     func() time.Time
	logger  *slog.Logger
}

// NewService creates a posts service. emitter may be nil.
func NewService(store *Store, ids *IDGenerator, emitter Emitter, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		ids:     ids,
		emitter: emitter,
		now:     time.Now,
		logger:  logger,
	}
}

// ValidateCreate rejects requests with neither text nor image
func ValidateCreate(req CreatePostRequest) error {
	if strings.TrimSpace(req.Content) == "" && strings.TrimSpace(req.Image) == "" {
		return ErrEmptyPost
	}
	if utf8.RuneCountInString(req.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}

// Create validates req, appends a fresh post at the head of the store and
// announces it. Invalid requests never reach the store.
func (s *Service) Create(ctx context.Context, req CreatePostRequest) (Post, error) {
	if err := ValidateCreate(req); err != nil {
		return Post{}, err
	}

	now := s.now()
	post := Post{
		ID:        s.ids.Next(now),
		Content:   req.Content,
		Image:     strings.TrimSpace(req.Image),
		Likes:     0,
		Liked:     false,
		Comments:  []Comment{},
		Timestamp: FormatTimestamp(now),
	}

	stored := s.store.Append(ctx, post)
	s.logger.Info("Post created", "post_id", stored.ID, "has_image", stored.Image != "")

	if s.emitter != nil {
		s.emitter.Emit(ctx, events.Event{
			Type:       events.PostCreated,
			PostID:     stored.ID,
			OccurredAt: now.UTC(),
			Payload:    map[string]any{"has_image": stored.Image != ""},
		})
	}

	return stored, nil
}

// Get returns the stored post with the given id
func (s *Service) Get(id int64) (Post, error) {
	p, ok := s.store.Find(id)
	if !ok {
		return Post{}, ErrPostNotFound
	}
	return p, nil
}
