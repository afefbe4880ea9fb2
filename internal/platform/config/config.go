package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures all runtime configuration. Values come from the
// environment so main stays lean; empty DSNs select in-memory stores.
type Config struct {
	Addr string

	// AdminIdentity is the single identity authorized to perform mutating
	// ledger operations. Injected here rather than compiled in so tests and
	// deployments can vary it.
	AdminIdentity string
	// AdminTokenHash is a bcrypt hash of the admin token. Preferred over
	// AdminToken, which is only honored when no hash is configured.
	AdminTokenHash string
	AdminToken     string

	// JWTSigningKey signs short-lived admin session tokens.
	JWTSigningKey string
	SessionTTL    time.Duration

	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// PostgresConfig holds the database connection settings.
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds the cache connection settings.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// KafkaConfig holds the audit event pipeline settings.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	PollInterval time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:           envOr("PENSION_LEDGER_ADDR", ":8080"),
		AdminIdentity:  envOr("ADMIN_IDENTITY", "administrator"),
		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		JWTSigningKey:  envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		SessionTTL:     envDurationOr("ADMIN_SESSION_TTL", 15*time.Minute),
		Postgres: PostgresConfig{
			DSN:          os.Getenv("POSTGRES_DSN"),
			MaxOpenConns: envIntOr("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns: envIntOr("POSTGRES_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     envDurationOr("REDIS_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Topic:        envOr("KAFKA_AUDIT_TOPIC", "pension.audit"),
			PollInterval: envDurationOr("KAFKA_OUTBOX_POLL_INTERVAL", 2*time.Second),
		},
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
