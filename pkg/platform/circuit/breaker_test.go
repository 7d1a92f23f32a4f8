package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestBreaker(threshold int) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := New("test", WithFailureThreshold(threshold), WithCooldown(time.Minute))
	b.now = clock.now
	return b, clock
}

func TestBreaker_InitialState(t *testing.T) {
	b := New("test")
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "test", b.Name())
	assert.True(t, b.Allow())
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(3)

	assert.False(t, b.RecordFailure())
	assert.False(t, b.RecordFailure())
	assert.True(t, b.RecordFailure())
	assert.True(t, b.IsOpen())
	assert.False(t, b.Allow())
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(3)

	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.RecordSuccess())

	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreaker_ProbesAfterCooldown(t *testing.T) {
	b, clock := newTestBreaker(1)
	b.RecordFailure()

	clock.t = clock.t.Add(30 * time.Second)
	assert.False(t, b.Allow(), "still cooling down")

	clock.t = clock.t.Add(31 * time.Second)
	assert.True(t, b.Allow(), "first probe after cooldown")
	assert.False(t, b.Allow(), "only one probe per window")

	assert.True(t, b.RecordSuccess())
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreaker_FailedProbeRestartsCooldown(t *testing.T) {
	b, clock := newTestBreaker(1)
	b.RecordFailure()

	clock.t = clock.t.Add(2 * time.Minute)
	assert.True(t, b.Allow())
	assert.False(t, b.RecordFailure(), "already open")

	clock.t = clock.t.Add(30 * time.Second)
	assert.False(t, b.Allow())
	assert.True(t, b.IsOpen())
}

func TestBreaker_Reset(t *testing.T) {
	b, _ := newTestBreaker(1)
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
}
