// Package resilience holds the small dependency-protection primitives used by
// the remote API client: a consecutive-failure circuit breaker and a
// singleflight call deduplicator.
package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker trips open after a run of consecutive failures and lets a
// single probe request through once the cooldown has elapsed. A successful
// probe closes the breaker; a failed one restarts the cooldown.
type CircuitBreaker struct {
	mu sync.Mutex

	failureThreshold int
	cooldown         time.Duration

	failures      int
	open          bool
	openedAt      time.Time
	probeInFlight bool
	now           func() time.Time
}

func NewCircuitBreaker(failureThreshold int, cooldown time.Duration) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if cooldown <= 0 {
		cooldown = 15 * time.Second
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		cooldown:         cooldown,
		now:              time.Now,
	}
}

// Allow reports whether a request may proceed. While open, only the probe
// request after the cooldown is admitted.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return nil
	}
	if b.now().Sub(b.openedAt) < b.cooldown || b.probeInFlight {
		return ErrCircuitOpen
	}

	b.probeInFlight = true
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.open = false
	b.probeInFlight = false
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.open {
		// Failed probe; restart the cooldown window.
		b.openedAt = b.now()
		b.probeInFlight = false
		return
	}

	b.failures++
	if b.failures >= b.failureThreshold {
		b.open = true
		b.openedAt = b.now()
		b.probeInFlight = false
	}
}

// Open reports whether the breaker is currently rejecting regular traffic.
func (b *CircuitBreaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open && b.now().Sub(b.openedAt) < b.cooldown
}
