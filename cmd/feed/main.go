package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moments/internal/config"
	"moments/internal/consul"
	"moments/internal/engagement"
	"moments/internal/events"
	"moments/internal/feed"
	"moments/internal/kvstore"
	"moments/internal/logger"
	"moments/internal/metrics"
	"moments/internal/posts"
	"moments/internal/profile"
	"moments/internal/server"
	"moments/internal/storage"
)

func gracefulShutdown(log *slog.Logger, apiServer *http.Server, registrar consul.Registrar, serviceID string, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	if registrar != nil {
		if err := registrar.Deregister(serviceID); err != nil {
			log.Warn("Failed to deregister from Consul", "error", err)
		} else {
			log.Info("Deregistered from Consul", "service_id", serviceID)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exiting")
	done <- true
}

func main() {
	log := logger.New("feed-service")
	logger.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	log.Info("Starting feed service",
		"port", cfg.Server.Port,
		"kv_backend", cfg.KV.Backend,
		"max_pages", cfg.Feed.MaxPages,
		"latency", cfg.Feed.Latency,
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	kv, err := kvstore.Open(startCtx, cfg.KV)
	if err != nil {
		log.Error("Failed to open key-value store", "backend", cfg.KV.Backend, "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	var objects storage.Service
	var uploads *storage.Uploads
	var images profile.ImageStore
	if cfg.S3.Enabled() {
		objects, err = storage.New(startCtx, cfg.S3, log)
		if err != nil {
			log.Warn("Object storage unavailable, image uploads disabled", "error", err)
		} else {
			uploads = storage.NewUploads(objects)
			images = objects
		}
	}

	m := metrics.New()
	emitter := events.NewEmitter()
	ids := posts.NewIDGenerator()

	store := posts.NewStore(startCtx, kv, log)
	postService := posts.NewService(store, ids, emitter, log)

	source := feed.NewMockSource(store, ids, feed.WithLatency(cfg.Feed.Latency))
	pager := feed.NewPager(source,
		feed.WithMaxPages(cfg.Feed.MaxPages),
		feed.WithRecorder(m),
		feed.WithLogger(log),
	)

	tracker := engagement.NewTracker(m)
	threads := engagement.NewThreads(tracker, ids)
	profileService := profile.NewService(startCtx, kv, images, log)

	emitter.Subscribe(events.PostCreated, func(ctx context.Context, ev events.Event) {
		pager.NotePostCreated()
		m.PostCreated()
	})
	emitter.Subscribe(events.PostCreated, profileService.IncrementPosts)

	if cfg.Kafka.Enabled() {
		publisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Warn("Kafka unavailable, events stay in process", "error", err)
		} else {
			defer publisher.Close()
			emitter.Subscribe(events.PostCreated, publisher.Handle)
			emitter.Subscribe(events.CommentSubmitted, publisher.Handle)
		}
	}

	srv := server.New(server.Deps{
		Posts:       postService,
		Store:       store,
		Pager:       pager,
		Tracker:     tracker,
		Threads:     threads,
		Profile:     profileService,
		KV:          kv,
		Storage:     objects,
		Uploads:     uploads,
		Metrics:     m,
		Emitter:     emitter,
		Logger:      log,
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	apiServer := server.NewHTTPServer(cfg.Server, srv.RegisterRoutes())

	var registrar consul.Registrar
	var serviceID string
	if cfg.Consul.Addr != "" {
		client, err := consul.NewClient(cfg.Consul)
		if err != nil {
			log.Warn("Consul client unavailable, skipping registration", "error", err)
		} else {
			svc := consul.FeedService(cfg.Consul.ServiceHost, cfg.Server.Port)
			// Static ID: clear any registration left by a previous crash
			_ = client.Deregister(svc.ID)
			if err := client.Register(svc); err != nil {
				log.Warn("Failed to register with Consul", "error", err)
			} else {
				registrar = client
				serviceID = svc.ID
				log.Info("Registered with Consul", "service_id", svc.ID)
			}
		}
	}

	done := make(chan bool, 1)
	go gracefulShutdown(log, apiServer, registrar, serviceID, done)

	log.Info("Feed service listening", "addr", apiServer.Addr)
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("HTTP server error", "error", err)
		os.Exit(1)
	}

	<-done
	log.Info("Graceful shutdown complete")
}
