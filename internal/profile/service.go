package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"moments/internal/events"
	"moments/internal/kvstore"
)

var (
	ErrEmptyName    = errors.New("profile: name is required")
	ErrNameTooLong  = errors.New("profile: name exceeds maximum length")
	ErrBioTooLong   = errors.New("profile: bio exceeds maximum length")
	ErrInvalidMood  = errors.New("profile: unknown mood")
	ErrInvalidTag   = errors.New("profile: unknown tag")
	ErrNoImageStore = errors.New("profile: image storage is not configured")
)

// ImageStore stores processed profile images
type ImageStore interface {
	PutObject(ctx context.Context, key string, contentType string, body io.Reader, size int64) (string, error)
}

// Service owns the viewer profile and mirrors it to the key-value store
type Service struct {
	kv     kvstore.Store
	images ImageStore
	logger *slog.Logger

	mu      sync.RWMutex
	current UserProfile
}

// NewService hydrates the profile from kv, falling back to Default.
// kv and images may be nil.
func NewService(ctx context.Context, kv kvstore.Store, images ImageStore, logger *slog.Logger) *Service {
	s := &Service{kv: kv, images: images, logger: logger}
	s.current = s.hydrate(ctx)
	return s
}

func (s *Service) hydrate(ctx context.Context) UserProfile {
	if s.kv == nil {
		return Default()
	}

	raw, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.logger.Warn("Failed to read persisted profile, using default", "error", err)
		}
		return Default()
	}

	var p UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.logger.Warn("Persisted profile is malformed, using default", "error", err)
		return Default()
	}
	if p.Mood == "" {
		p.Mood = DefaultMood
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}

// Get returns the current profile
func (s *Service) Get() UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Validate checks an update without applying it and returns the normalized tag list
func Validate(req UpdateRequest) ([]string, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		if len([]rune(name)) > MaxNameLength {
			return nil, ErrNameTooLong
		}
	}
	if req.Bio != nil && len([]rune(*req.Bio)) > MaxBioLength {
		return nil, ErrBioTooLong
	}
	if req.Mood != nil && !isMood(*req.Mood) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMood, *req.Mood)
	}
	if req.Tags == nil {
		return nil, nil
	}

	tags := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		if !isTag(t) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTag, t)
		}
		if !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

// Update validates and applies req, then persists the profile
func (s *Service) Update(ctx context.Context, req UpdateRequest) (UserProfile, error) {
	tags, err := Validate(req)
	if err != nil {
		return UserProfile{}, err
	}

	return s.mutate(ctx, func(p *UserProfile) {
		if req.Name != nil {
			p.Name = strings.TrimSpace(*req.Name)
		}
		if req.Bio != nil {
			p.Bio = *req.Bio
		}
		if req.Mood != nil {
			p.Mood = *req.Mood
		}
		if tags != nil {
			p.Tags = tags
		}
	}), nil
}

// ToggleTag adds tag when absent and removes it when present
func (s *Service) ToggleTag(ctx context.Context, tag string) (UserProfile, error) {
	if !isTag(tag) {
		return UserProfile{}, fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}

	return s.mutate(ctx, func(p *UserProfile) {
		out := make([]string, 0, len(p.Tags)+1)
		found := false
		for _, t := range p.Tags {
			if t == tag {
				found = true
				continue
			}
			out = append(out, t)
		}
		if !found {
			out = append(out, tag)
		}
		p.Tags = out
	}), nil
}

// IncrementPosts bumps PostsCount; subscribed to PostCreated
func (s *Service) IncrementPosts(ctx context.Context, _ events.Event) {
	s.mutate(ctx, func(p *UserProfile) { p.PostsCount++ })
}

// SetImage resizes an uploaded image, stores it and points the profile at it
func (s *Service) SetImage(ctx context.Context, kind ImageKind, r io.Reader) (UserProfile, error) {
	if s.images == nil {
		return UserProfile{}, ErrNoImageStore
	}

	data, err := processImage(kind, r)
	if err != nil {
		return UserProfile{}, err
	}

	key := fmt.Sprintf("profile/%s/%s.jpg", kind, uuid.New().String())
	url, err := s.images.PutObject(ctx, key, "image/jpeg", bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return UserProfile{}, fmt.Errorf("failed to store %s image: %w", kind, err)
	}
	s.logger.Info("Stored profile image", "kind", kind, "key", key, "bytes", len(data))

	return s.mutate(ctx, func(p *UserProfile) {
		switch kind {
		case KindAvatar:
			p.AvatarURL = url
		case KindBackground:
			p.BackgroundURL = url
		}
	}), nil
}

// mutate applies fn under the lock and persists the result best effort
func (s *Service) mutate(ctx context.Context, fn func(p *UserProfile)) UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.current)
	s.persistLocked(ctx)
	return s.current.clone()
}

func (s *Service) persistLocked(ctx context.Context) {
	if s.kv == nil {
		return
	}

	data, err := json.Marshal(s.current)
	if err != nil {
		s.logger.Error("Failed to marshal profile", "error", err)
		return
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		s.logger.Warn("Failed to persist profile", "error", err)
	}
}
