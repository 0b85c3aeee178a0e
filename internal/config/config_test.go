package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "KV_BACKEND", "FEED_MAX_PAGES", "FEED_LATENCY", "S3_ENDPOINT", "KAFKA_BROKERS", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.KV.Backend != BackendMemory {
		t.Errorf("Expected memory backend, got %q", cfg.KV.Backend)
	}
	if cfg.Feed.MaxPages != 3 {
		t.Errorf("Expected 3 max pages, got %d", cfg.Feed.MaxPages)
	}
	if cfg.Feed.Latency != time.Second {
		t.Errorf("Expected 1s latency, got %v", cfg.Feed.Latency)
	}
	if cfg.S3.Enabled() || cfg.Kafka.Enabled() {
		t.Error("Expected S3 and Kafka to be disabled by default")
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:5173" {
		t.Errorf("Unexpected CORS origins: %v", cfg.Server.CORSOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("KV_BACKEND", "Redis")
	t.Setenv("FEED_MAX_PAGES", "5")
	t.Setenv("FEED_LATENCY", "250ms")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.KV.Backend != BackendRedis {
		t.Errorf("Expected redis backend, got %q", cfg.KV.Backend)
	}
	if cfg.Feed.MaxPages != 5 || cfg.Feed.Latency != 250*time.Millisecond {
		t.Errorf("Unexpected feed config: %+v", cfg.Feed)
	}
	if got := strings.Join(cfg.Server.CORSOrigins, "|"); got != "http://a.test|http://b.test" {
		t.Errorf("Unexpected CORS origins: %q", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "abc"}},
		{"zero pages", map[string]string{"FEED_MAX_PAGES": "0"}},
		{"unknown backend", map[string]string{"KV_BACKEND": "sqlite"}},
		{"postgres without url", map[string]string{"KV_BACKEND": "postgres", "DATABASE_URL": ""}},
		{"s3 without keys", map[string]string{"S3_ENDPOINT": "localhost:9000", "S3_ACCESS_KEY": "", "S3_SECRET_KEY": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestValidateEnv(t *testing.T) {
	t.Setenv("MOMENTS_PRESENT", "yes")
	t.Setenv("MOMENTS_MISSING", "")

	if err := ValidateEnv([]string{"MOMENTS_PRESENT"}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	err := ValidateEnv([]string{"MOMENTS_PRESENT", "MOMENTS_MISSING"})
	if err == nil || !strings.Contains(err.Error(), "MOMENTS_MISSING") {
		t.Errorf("Expected error naming MOMENTS_MISSING, got %v", err)
	}
}
