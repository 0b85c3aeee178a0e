// Package server exposes the feed, post, engagement and profile intents over
// HTTP using gin.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"moments/internal/config"
	"moments/internal/engagement"
	"moments/internal/events"
	"moments/internal/feed"
	"moments/internal/kvstore"
	"moments/internal/metrics"
	"moments/internal/posts"
	"moments/internal/profile"
	"moments/internal/storage"
)

// Emitter publishes events raised by handlers
type Emitter interface {
	Emit(ctx context.Context, ev events.Event)
}

// Deps are the components the HTTP surface drives. Storage, Uploads, Metrics
// and Emitter may be nil.
type Deps struct {
	Posts   *posts.Service
	Store   *posts.Store
	Pager   *feed.Pager
	Tracker *engagement.Tracker
	Threads *engagement.Threads
	Profile *profile.Service
	KV      kvstore.Store
	Storage storage.Service
	Uploads *storage.Uploads
	Metrics *metrics.Metrics
	Emitter Emitter
	Logger  *slog.Logger

	CORSOrigins []string
}

// Server holds the dependencies for the HTTP handlers
type Server struct {
	Deps
}

// New creates a server over deps
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Server{Deps: deps}
}

// NewHTTPServer wraps handler in an http.Server configured from cfg
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
