package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full process configuration.
type Config struct {
	Server   Server
	Log      Log
	Registry Registry
	Redis    RedisConfig
	Batch    Batch
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Log selects the slog handler.
type Log struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// Registry selects the cadastral registry backend and its caches.
// DatabaseURL wins over File; with neither set the embedded registry is used.
type Registry struct {
	File        string
	DatabaseURL string
	CacheTTL    time.Duration
	LRUSize     int
}

// RedisConfig configures the optional shared cache. Empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Batch bounds batch generation.
type Batch struct {
	Concurrency int
	MaxItems    int
}

// FromEnv loads an optional .env file and builds the config from environment
// variables so main stays lean.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	var errs []string
	dur := func(key string, def time.Duration) time.Duration {
		v, err := durationEnv(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	num := func(key string, def int) int {
		v, err := intEnv(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}

	cfg := Config{
		Server: Server{
			Addr:            stringEnv("FISCALCODE_ADDR", ":8080"),
			ShutdownTimeout: dur("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: Log{
			Level:  strings.ToLower(stringEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(stringEnv("LOG_FORMAT", "json")),
		},
		Registry: Registry{
			File:        stringEnv("REGISTRY_FILE", ""),
			DatabaseURL: stringEnv("DATABASE_URL", ""),
			CacheTTL:    dur("REGISTRY_CACHE_TTL", 24*time.Hour),
			LRUSize:     num("REGISTRY_LRU_SIZE", 1024),
		},
		Redis: RedisConfig{
			URL:          stringEnv("REDIS_URL", ""),
			PoolSize:     num("REDIS_POOL_SIZE", 10),
			MinIdleConns: num("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  dur("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  dur("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: dur("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Batch: Batch{
			Concurrency: num("BATCH_CONCURRENCY", 8),
			MaxItems:    num("BATCH_MAX_ITEMS", 100),
		},
	}
	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid configuration: LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}
	if c.Registry.LRUSize < 0 {
		return fmt.Errorf("invalid configuration: REGISTRY_LRU_SIZE must not be negative")
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("invalid configuration: BATCH_CONCURRENCY must be at least 1")
	}
	if c.Batch.MaxItems < 1 {
		return fmt.Errorf("invalid configuration: BATCH_MAX_ITEMS must be at least 1")
	}
	if c.Redis.URL != "" && c.Registry.CacheTTL <= 0 {
		return fmt.Errorf("invalid configuration: REGISTRY_CACHE_TTL must be positive when REDIS_URL is set")
	}
	return nil
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, fmt.Errorf("%s: %q is not an integer", key, raw)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return def, fmt.Errorf("%s: %q is not a duration", key, raw)
	}
	return v, nil
}
