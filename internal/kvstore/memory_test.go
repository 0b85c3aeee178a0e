package kvstore

import (
	"context"
	"errors"
	"testing"

	"moments/internal/config"
)

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemory()

	_, err := s.Get(context.Background(), "posts")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	if err := s.Set(ctx, "posts", "[1]"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "posts", "[2,1]"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := s.Get(ctx, "posts")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "[2,1]" {
		t.Errorf("Expected latest value, got %q", got)
	}
	if err := s.Health(ctx); err != nil {
		t.Errorf("Expected healthy store, got %v", err)
	}
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), config.KVConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if _, ok := s.(*memoryStore); !ok {
		t.Errorf("Expected memory store, got %T", s)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), config.KVConfig{Backend: "etcd"}); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
