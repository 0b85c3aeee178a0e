// Package config loads the feed service configuration from the environment.
// A .env file in the working directory is picked up automatically.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Supported key-value backends for durable client state.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds the complete service configuration
type Config struct {
	Server ServerConfig
	KV     KVConfig
	Feed   FeedConfig
	S3     S3Config
	Kafka  KafkaConfig
	Consul ConsulConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// KVConfig selects and configures the durable key-value backend
type KVConfig struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string
}

// FeedConfig holds pagination policy
type FeedConfig struct {
	MaxPages int
	Latency  time.Duration
}

// S3Config holds object storage settings. Storage is disabled when Endpoint is empty.
type S3Config struct {
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
}

// Enabled reports whether object storage was configured
func (c S3Config) Enabled() bool {
	return c.Endpoint != ""
}

// KafkaConfig holds event publishing settings. Publishing is disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers string
	Topic   string
}

// Enabled reports whether kafka publishing was configured
func (c KafkaConfig) Enabled() bool {
	return c.Brokers != ""
}

// ConsulConfig holds service registration settings. Registration is skipped when Addr is empty.
type ConsulConfig struct {
	Addr        string
	Token       string
	ServiceHost string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	maxPages, err := getEnvInt("FEED_MAX_PAGES", 3)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         port,
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			CORSOrigins:  getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		},
		KV: KVConfig{
			Backend:       strings.ToLower(GetEnvOrDefault("KV_BACKEND", BackendMemory)),
			RedisAddr:     GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			RedisPassword: GetEnvOrDefault("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			DatabaseURL:   GetEnvOrDefault("DATABASE_URL", ""),
		},
		Feed: FeedConfig{
			MaxPages: maxPages,
			Latency:  getEnvDuration("FEED_LATENCY", time.Second),
		},
		S3: S3Config{
			Endpoint:       GetEnvOrDefault("S3_ENDPOINT", ""),
			PublicEndpoint: GetEnvOrDefault("S3_PUBLIC_ENDPOINT", ""),
			AccessKey:      GetEnvOrDefault("S3_ACCESS_KEY", ""),
			SecretKey:      GetEnvOrDefault("S3_SECRET_KEY", ""),
			Bucket:         GetEnvOrDefault("S3_BUCKET_NAME", "moments"),
			UseSSL:         GetEnvOrDefault("S3_USE_SSL", "false") == "true",
		},
		Kafka: KafkaConfig{
			Brokers: GetEnvOrDefault("KAFKA_BROKERS", ""),
			Topic:   GetEnvOrDefault("KAFKA_TOPIC_POST_EVENTS", "post-events"),
		},
		Consul: ConsulConfig{
			Addr:        GetEnvOrDefault("CONSUL_HTTP_ADDR", ""),
			Token:       GetEnvOrDefault("CONSUL_HTTP_TOKEN", ""),
			ServiceHost: GetEnvOrDefault("FEED_SERVICE_HOST", "localhost"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Server.Port)
	}
	if c.Feed.MaxPages < 1 {
		return fmt.Errorf("FEED_MAX_PAGES must be at least 1, got %d", c.Feed.MaxPages)
	}
	if c.Feed.Latency < 0 {
		return fmt.Errorf("FEED_LATENCY cannot be negative")
	}

	switch c.KV.Backend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if err := ValidateEnv([]string{"DATABASE_URL"}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown KV_BACKEND %q", c.KV.Backend)
	}

	if c.S3.Enabled() {
		if err := ValidateEnv([]string{"S3_ACCESS_KEY", "S3_SECRET_KEY"}); err != nil {
			return err
		}
	}
	return nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := GetEnvOrDefault(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := GetEnvOrDefault(key, ""); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := GetEnvOrDefault(key, "")
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
