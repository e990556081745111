package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "github.com/adverot/emailfinder/pkg/platform/strings"
)

// Config gathers every tunable the server needs so main stays lean.
type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	SMTP   SMTPConfig
	Finder FinderConfig
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr           string
	RequestTimeout time.Duration
}

// RedisConfig configures the optional catch-all verdict cache. An empty URL
// disables Redis entirely and the service falls back to the in-memory store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional audit sink. No brokers means audit
// events stay in the in-process store only.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// SMTPConfig configures the outbound probe transport.
type SMTPConfig struct {
	HelloName      string
	FromEmail      string
	Port           int
	ProxyURL       string
	ConnectTimeout time.Duration
}

// FinderConfig carries the verification policy knobs.
type FinderConfig struct {
	CatchAllTimeout       time.Duration
	PingTimeout           time.Duration
	RandomLocalPartLength int
	CacheTTL              time.Duration
}

// FromEnv builds a Config from EMAILFINDER_* environment variables with
// development-friendly defaults.
func FromEnv() Config {
	return Config{
		Server: ServerConfig{
			Addr:           getEnv("EMAILFINDER_ADDR", ":8080"),
			RequestTimeout: getDuration("EMAILFINDER_REQUEST_TIMEOUT", 2*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("EMAILFINDER_REDIS_URL"),
			PoolSize:     getInt("EMAILFINDER_REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("EMAILFINDER_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("EMAILFINDER_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("EMAILFINDER_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("EMAILFINDER_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("EMAILFINDER_KAFKA_BROKERS")),
			Topic:   getEnv("EMAILFINDER_KAFKA_AUDIT_TOPIC", "emailfinder.audit"),
		},
		SMTP: SMTPConfig{
			HelloName:      getEnv("EMAILFINDER_SMTP_HELLO", "localhost"),
			FromEmail:      getEnv("EMAILFINDER_SMTP_FROM", "verify@example.org"),
			Port:           getInt("EMAILFINDER_SMTP_PORT", 25),
			ProxyURL:       os.Getenv("EMAILFINDER_SMTP_PROXY"),
			ConnectTimeout: getDuration("EMAILFINDER_SMTP_CONNECT_TIMEOUT", 10*time.Second),
		},
		Finder: FinderConfig{
			CatchAllTimeout:       getDuration("EMAILFINDER_CATCHALL_TIMEOUT", 5*time.Second),
			PingTimeout:           getDuration("EMAILFINDER_PING_TIMEOUT", 3*time.Second),
			RandomLocalPartLength: getInt("EMAILFINDER_RANDOM_LOCAL_LENGTH", 12),
			CacheTTL:              getDuration("EMAILFINDER_CATCHALL_CACHE_TTL", time.Hour),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// splitNonEmpty parses a comma-separated list, folding case because broker
// hostnames are compared case-insensitively.
func splitNonEmpty(v string) []string {
	out := pstrings.DedupeAndTrimLower(strings.Split(v, ","))
	if len(out) == 0 {
		return nil
	}
	return out
}
