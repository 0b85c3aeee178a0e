// Package kvstore provides the durable key-value interface used to mirror
// client state (the post list, the viewer profile) between process restarts.
// Backends: in-memory, Redis and PostgreSQL.
package kvstore

import (
	"context"
	"errors"
	"fmt"

	"moments/internal/config"
)

// ErrNotFound is returned by Get when the key has never been written
var ErrNotFound = errors.New("kvstore: key not found")

// Store defines the key-value operations the feed service relies on
type Store interface {
	// Get returns the value stored under key, or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value string) error

	// Health checks if the backend is reachable
	Health(ctx context.Context) error

	// Close releases backend resources
	Close() error
}

// Open creates the store selected by cfg.Backend
func Open(ctx context.Context, cfg config.KVConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewMemory(), nil
	case config.BackendRedis:
		s := NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := s.Health(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return s, nil
	case config.BackendPostgres:
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown kv backend %q", cfg.Backend)
	}
}
