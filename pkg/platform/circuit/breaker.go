// Package circuit provides a consecutive-failure circuit breaker for optional
// dependencies that have a fallback.
package circuit

import (
	"sync"
	"time"
)

const (
	defaultFailureThreshold = 5
	defaultCooldown         = 30 * time.Second
)

// State is the breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// Breaker opens after a run of consecutive failures. While open, Allow lets a
// single probe through per cooldown window; the probe's success closes it.
type Breaker struct {
	mu sync.Mutex

	name      string
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	failures  int
	state     State
	openUntil time.Time
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithFailureThreshold sets the consecutive failures that open the circuit.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.threshold = n
		}
	}
}

// WithCooldown sets how long the circuit stays open before a probe.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// New creates a closed breaker.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:      name,
		threshold: defaultFailureThreshold,
		cooldown:  defaultCooldown,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the breaker's name.
func (b *Breaker) Name() string {
	return b.name
}

// Allow reports whether the protected call should be attempted.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateClosed {
		return true
	}
	now := b.now()
	if now.Before(b.openUntil) {
		return false
	}
	b.openUntil = now.Add(b.cooldown)
	return true
}

// RecordSuccess resets the failure run. It reports whether the circuit
// closed as a result.
func (b *Breaker) RecordSuccess() (closed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	if b.state == StateOpen {
		b.state = StateClosed
		return true
	}
	return false
}

// RecordFailure extends the failure run. It reports whether the circuit
// opened as a result.
func (b *Breaker) RecordFailure() (opened bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.state == StateOpen {
		b.openUntil = b.now().Add(b.cooldown)
		return false
	}
	if b.failures >= b.threshold {
		b.state = StateOpen
		b.openUntil = b.now().Add(b.cooldown)
		return true
	}
	return false
}

// IsOpen reports whether the circuit is open.
func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset closes the circuit.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.state = StateClosed
	b.openUntil = time.Time{}
}
