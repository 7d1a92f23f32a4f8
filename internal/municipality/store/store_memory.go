package store

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"fiscalcode/internal/fiscalcode"
	"fiscalcode/internal/municipality"
	"fiscalcode/internal/municipality/metrics"
)

//go:embed data/registry.csv
var defaultRegistry []byte

const backendMemory = "memory"

// InMemoryRegistry resolves names from a map loaded once at startup.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	codes   map[string]fiscalcode.CadastralCode
	metrics *metrics.Metrics
}

// Option configures a registry.
type Option func(*options)

type options struct {
	metrics *metrics.Metrics
}

// WithMetrics records lookups on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// NewInMemoryRegistry builds a registry from entries. Later entries with the
// same name replace earlier ones.
func NewInMemoryRegistry(entries []municipality.Entry, opts ...Option) *InMemoryRegistry {
	o := applyOptions(opts)
	codes := make(map[string]fiscalcode.CadastralCode, len(entries))
	for _, e := range entries {
		codes[e.Name] = e.Code
	}
	return &InMemoryRegistry{codes: codes, metrics: o.metrics}
}

// LoadFile reads a ';'-delimited registry file.
func LoadFile(path string, opts ...Option) (*InMemoryRegistry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open registry file: %w", err)
	}
	defer f.Close()

	entries, err := municipality.ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load registry file %s: %w", path, err)
	}
	return NewInMemoryRegistry(entries, opts...), nil
}

// Default returns the registry compiled into the binary: the provincial
// capitals most commonly needed in development and tests.
func Default(opts ...Option) (*InMemoryRegistry, error) {
	entries, err := municipality.ParseCSV(bytes.NewReader(defaultRegistry))
	if err != nil {
		return nil, fmt.Errorf("load embedded registry: %w", err)
	}
	return NewInMemoryRegistry(entries, opts...), nil
}

// Resolve returns the code for an exact, case-sensitive name match.
func (r *InMemoryRegistry) Resolve(_ context.Context, name string) (fiscalcode.CadastralCode, error) {
	start := time.Now()
	r.mu.RLock()
	code, ok := r.codes[name]
	r.mu.RUnlock()
	if !ok {
		r.metrics.ObserveLookup(backendMemory, metrics.OutcomeNotFound, time.Since(start))
		return "", &municipality.NotFoundError{Name: name}
	}
	r.metrics.ObserveLookup(backendMemory, metrics.OutcomeFound, time.Since(start))
	return code, nil
}

// Add inserts or replaces a single entry.
func (r *InMemoryRegistry) Add(e municipality.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[e.Name] = e.Code
}

// Len returns the number of entries.
func (r *InMemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.codes)
}

// Entries returns all entries sorted by name.
func (r *InMemoryRegistry) Entries() []municipality.Entry {
	r.mu.RLock()
	out := make([]municipality.Entry, 0, len(r.codes))
	for name, code := range r.codes {
		out = append(out, municipality.Entry{Name: name, Code: code})
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
