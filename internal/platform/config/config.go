package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	Environment    string
	LogLevel       slog.Level
	RequestTimeout time.Duration
	// TxTimeout bounds a registry transaction whose context has no deadline.
	TxTimeout      time.Duration
	Auth           AuthConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	Kafka          KafkaConfig
}

// AuthConfig holds bearer token validation settings.
type AuthConfig struct {
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	TokenTTL      time.Duration
}

// DatabaseConfig selects the Postgres store when URL is set.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig enables the entry cache when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// KafkaConfig enables audit publishing when Brokers is set.
type KafkaConfig struct {
	Brokers         string
	AuditTopic      string
	Acks            string
	Retries         int
	DeliveryTimeout time.Duration
}

const devSigningKey = "dev-secret-key-change-in-production"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var errs []string
	duration := func(key string, def time.Duration) time.Duration {
		raw := os.Getenv(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid duration %q", key, raw))
			return def
		}
		return d
	}
	integer := func(key string, def int) int {
		raw := os.Getenv(key)
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid integer %q", key, raw))
			return def
		}
		return n
	}

	var level slog.Level
	if raw := getenv("LOG_LEVEL", "info"); level.UnmarshalText([]byte(raw)) != nil {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL: unknown level %q", raw))
		level = slog.LevelInfo
	}

	cfg := Server{
		Addr:           getenv("TRUSTLINK_ADDR", ":8080"),
		Environment:    getenv("TRUSTLINK_ENV", "local"),
		LogLevel:       level,
		RequestTimeout: duration("REQUEST_TIMEOUT", 30*time.Second),
		TxTimeout:      duration("TX_TIMEOUT", 5*time.Second),
		Auth: AuthConfig{
			JWTSigningKey: getenv("JWT_SIGNING_KEY", devSigningKey),
			JWTIssuer:     getenv("JWT_ISSUER", "trustlink"),
			JWTAudience:   getenv("JWT_AUDIENCE", "trustlink-api"),
			TokenTTL:      duration("TOKEN_TTL", time.Hour),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    integer("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    integer("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: duration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     duration("REDIS_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:         os.Getenv("KAFKA_BROKERS"),
			AuditTopic:      getenv("KAFKA_AUDIT_TOPIC", "trustlink.verification.events"),
			Acks:            getenv("KAFKA_ACKS", "all"),
			Retries:         integer("KAFKA_RETRIES", 3),
			DeliveryTimeout: duration("KAFKA_DELIVERY_TIMEOUT", 30*time.Second),
		},
	}

	if cfg.Environment != "local" && cfg.Auth.JWTSigningKey == devSigningKey {
		errs = append(errs, "JWT_SIGNING_KEY must be set outside the local environment")
	}
	if len(errs) > 0 {
		return cfg, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// UsesDevSigningKey reports whether tokens are signed with the built-in key.
func (s Server) UsesDevSigningKey() bool {
	return s.Auth.JWTSigningKey == devSigningKey
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
