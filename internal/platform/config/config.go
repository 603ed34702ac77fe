package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration. FromEnv keeps main lean and
// makes every knob overridable in deployment.
type Server struct {
	Addr string

	// Engine is the extraction/fraud-scoring service this gateway fronts.
	Engine EngineConfig

	// Admin holds the dashboard gate credential: a single shared pair
	// guarding a read-only summary view. The gate is injected so a real
	// identity provider can replace it later.
	Admin AdminConfig

	Redis RedisConfig

	// PostgresURL enables the durable audit store when set.
	PostgresURL string

	Kafka KafkaConfig
}

// EngineConfig points at the remote extraction/scoring service.
type EngineConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AdminConfig holds the static admin credential and session settings.
type AdminConfig struct {
	Username string
	// PasswordHash is a bcrypt hash when set; Password is the cleartext
	// fallback for development.
	Password      string
	PasswordHash  string
	JWTSigningKey string
	SessionTTL    time.Duration
}

// RedisConfig configures the optional Redis session backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig enables the audit event sink when brokers are set.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := getenv("KYCVAULT_ADDR", ":8080")

	engineTimeout := durationEnv("ENGINE_TIMEOUT", 30*time.Second)
	sessionTTL := durationEnv("ADMIN_SESSION_TTL", 12*time.Hour)

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if b := os.Getenv("KAFKA_BROKERS"); b != "" {
		brokers = splitCSV(b)
	}

	return Server{
		Addr: addr,
		Engine: EngineConfig{
			BaseURL: getenv("ENGINE_BASE_URL", "http://127.0.0.1:5000"),
			Timeout: engineTimeout,
		},
		Admin: AdminConfig{
			Username:      getenv("ADMIN_USERNAME", "admin"),
			Password:      os.Getenv("ADMIN_PASSWORD"),
			PasswordHash:  os.Getenv("ADMIN_PASSWORD_HASH"),
			JWTSigningKey: jwtSigningKey,
			SessionTTL:    sessionTTL,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		PostgresURL: os.Getenv("DATABASE_URL"),
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   getenv("KAFKA_AUDIT_TOPIC", "kycvault.audit"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
