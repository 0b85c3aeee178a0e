package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"moments/internal/config"
	"moments/internal/kvstore"
	"moments/internal/logger"
	"moments/internal/posts"
)

func main() {
	count := flag.Int("n", 10, "number of posts to create")
	imageRatio := flag.Float64("images", 0.5, "fraction of posts that carry an image")
	seed := flag.Int64("seed", 0, "random seed (0 = time based)")
	flag.Parse()

	log := logger.New("seed")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.KV.Backend == config.BackendMemory {
		log.Warn("KV_BACKEND is memory, seeded posts will not outlive this process")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	kv, err := kvstore.Open(ctx, cfg.KV)
	if err != nil {
		log.Error("Failed to open key-value store", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(*seed)

	store := posts.NewStore(ctx, kv, log)
	service := posts.NewService(store, posts.NewIDGenerator(), nil, log)

	created := 0
	for i := 0; i < *count; i++ {
		req := posts.CreatePostRequest{Content: faker.Sentence(faker.Number(4, 16))}
		if faker.Float64Range(0, 1) < *imageRatio {
			req.Image = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", faker.LetterN(8))
		}

		if _, err := service.Create(ctx, req); err != nil {
			log.Warn("Skipping generated post", "error", err)
			continue
		}
		created++
	}

	log.Info("Seeding complete", "created", created, "total", store.Len(), "backend", cfg.KV.Backend)
}
