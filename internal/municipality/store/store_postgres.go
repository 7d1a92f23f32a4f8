package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"fiscalcode/internal/fiscalcode"
	"fiscalcode/internal/municipality"
	"fiscalcode/internal/municipality/metrics"
	"fiscalcode/pkg/platform/sentinel"
	"fiscalcode/pkg/platform/tx"
)

const backendPostgres = "postgres"

// PostgresRegistry resolves names from the municipalities table. Every method
// joins a transaction carried in ctx (see tx.Run).
type PostgresRegistry struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// NewPostgresRegistry constructs a PostgreSQL-backed registry.
func NewPostgresRegistry(db *sql.DB, opts ...Option) *PostgresRegistry {
	o := applyOptions(opts)
	return &PostgresRegistry{db: db, metrics: o.metrics}
}

// EnsureSchema creates the municipalities table if it does not exist.
func (r *PostgresRegistry) EnsureSchema(ctx context.Context) error {
	_, err := tx.Use(ctx, r.db).ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS municipalities (
			name TEXT PRIMARY KEY,
			code CHAR(4) NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure municipalities schema: %w", err)
	}
	return nil
}

// Resolve returns the code for an exact, case-sensitive name match.
func (r *PostgresRegistry) Resolve(ctx context.Context, name string) (fiscalcode.CadastralCode, error) {
	start := time.Now()
	var raw string
	err := tx.Use(ctx, r.db).QueryRowContext(ctx, `SELECT code FROM municipalities WHERE name = $1`, name).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.metrics.ObserveLookup(backendPostgres, metrics.OutcomeNotFound, time.Since(start))
			return "", &municipality.NotFoundError{Name: name}
		}
		r.metrics.ObserveLookup(backendPostgres, metrics.OutcomeError, time.Since(start))
		return "", fmt.Errorf("resolve municipality %q: %w", name, err)
	}
	code, err := fiscalcode.ParseCadastralCode(raw)
	if err != nil {
		r.metrics.ObserveLookup(backendPostgres, metrics.OutcomeError, time.Since(start))
		return "", fmt.Errorf("%w: stored code for %q: %v", sentinel.ErrMalformed, name, err)
	}
	r.metrics.ObserveLookup(backendPostgres, metrics.OutcomeFound, time.Since(start))
	return code, nil
}

// Import upserts entries in a single statement.
// Uses unnest over two parallel arrays instead of per-row inserts.
func (r *PostgresRegistry) Import(ctx context.Context, entries []municipality.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	names := make([]string, len(entries))
	codes := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
		codes[i] = e.Code.String()
	}
	query := `
		INSERT INTO municipalities (name, code)
		SELECT * FROM unnest($1::text[], $2::text[])
		ON CONFLICT (name) DO UPDATE SET
			code = EXCLUDED.code
	`
	if _, err := tx.Use(ctx, r.db).ExecContext(ctx, query, pq.Array(names), pq.Array(codes)); err != nil {
		return fmt.Errorf("import municipalities: %w", err)
	}
	return nil
}

// Count returns the number of stored municipalities.
func (r *PostgresRegistry) Count(ctx context.Context) (int, error) {
	var n int
	if err := tx.Use(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM municipalities`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count municipalities: %w", err)
	}
	return n, nil
}

// Bootstrap creates the schema and imports entries in one transaction, then
// returns the stored count.
func (r *PostgresRegistry) Bootstrap(ctx context.Context, entries []municipality.Entry) (int, error) {
	var n int
	err := tx.Run(ctx, r.db, func(ctx context.Context) error {
		if err := r.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := r.Import(ctx, entries); err != nil {
			return err
		}
		var err error
		n, err = r.Count(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
