package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"fiscalcode/internal/municipality"
	"fiscalcode/internal/municipality/cache"
	"fiscalcode/internal/municipality/metrics"
	"fiscalcode/internal/municipality/store"
	"fiscalcode/internal/platform/config"
	"fiscalcode/internal/platform/postgres"
	"fiscalcode/internal/platform/redis"
)

// registry is the assembled resolver chain plus the connections it owns.
// Lookups go LRU -> Redis -> backend, each layer optional except the backend.
type registry struct {
	resolver municipality.Resolver
	backend  string
	db       *sql.DB
	redis    *redis.Client
}

func buildRegistry(ctx context.Context, cfg config.Config, log *slog.Logger) (*registry, error) {
	m := metrics.New()
	reg := &registry{}

	var err error
	switch {
	case cfg.Registry.DatabaseURL != "":
		reg.backend = "postgres"
		reg.resolver, err = reg.openPostgres(ctx, cfg.Registry, m, log)
	case cfg.Registry.File != "":
		reg.backend = "file"
		reg.resolver, err = store.LoadFile(cfg.Registry.File, store.WithMetrics(m))
	default:
		reg.backend = "embedded"
		reg.resolver, err = store.Default(store.WithMetrics(m))
	}
	if err != nil {
		reg.Close()
		return nil, err
	}

	reg.redis, err = redis.New(ctx, cfg.Redis)
	if err != nil {
		reg.Close()
		return nil, err
	}
	if reg.redis != nil {
		reg.resolver, err = cache.NewRedisCache(reg.redis.Client, reg.resolver, cfg.Registry.CacheTTL,
			cache.WithLogger(log), cache.WithMetrics(m))
		if err != nil {
			reg.Close()
			return nil, err
		}
	}

	if cfg.Registry.LRUSize > 0 {
		reg.resolver, err = cache.NewLRU(reg.resolver, cfg.Registry.LRUSize, m)
		if err != nil {
			reg.Close()
			return nil, err
		}
	}
	return reg, nil
}

// openPostgres connects, creates the table and, when a registry file is also
// configured, imports it.
func (r *registry) openPostgres(ctx context.Context, cfg config.Registry, m *metrics.Metrics, log *slog.Logger) (municipality.Resolver, error) {
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	r.db = db

	pg := store.NewPostgresRegistry(db, store.WithMetrics(m))
	var entries []municipality.Entry
	if cfg.File != "" {
		src, err := store.LoadFile(cfg.File)
		if err != nil {
			return nil, err
		}
		entries = src.Entries()
	}
	n, err := pg.Bootstrap(ctx, entries)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("cadastral registry table is empty; set REGISTRY_FILE to import one")
	}
	log.Info("cadastral registry loaded", "backend", "postgres", "municipalities", n)
	return pg, nil
}

// Health pings the connections the registry depends on.
func (r *registry) Health(ctx context.Context) error {
	if r.db != nil {
		if err := r.db.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if r.redis != nil {
		if err := r.redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (r *registry) Close() {
	if r.redis != nil {
		_ = r.redis.Close()
	}
	if r.db != nil {
		_ = r.db.Close()
	}
}
