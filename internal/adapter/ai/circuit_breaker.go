package ai

import (
	"log/slog"
	"sync"
	"time"
)

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	// CircuitClosed indicates the circuit is allowing requests to pass through.
	CircuitClosed CircuitState = iota
	// CircuitOpen indicates the circuit is blocking requests due to failures.
	CircuitOpen
	// CircuitHalfOpen indicates the circuit is probing recovery with one request.
	CircuitHalfOpen
)

// Breaker defaults for the concept-mapping agent.
const (
	DefaultFailureThreshold = 3
	DefaultRecoveryTimeout  = 30 * time.Second
)

// CircuitBreaker skips a provider after consecutive failures.
type CircuitBreaker struct {
	mu               sync.Mutex
	name             string
	failureThreshold int
	recoveryTimeout  time.Duration
	now              func() time.Time
	state            CircuitState
	failureCount     int
	lastFailureTime  time.Time
	probing          bool
}

// NewCircuitBreaker creates a breaker that opens after threshold consecutive
// failures and probes again after recovery. Non-positive values use defaults.
func NewCircuitBreaker(name string, threshold int, recovery time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = DefaultFailureThreshold
	}
	if recovery <= 0 {
		recovery = DefaultRecoveryTimeout
	}
	return &CircuitBreaker{
		name:             name,
		failureThreshold: threshold,
		recoveryTimeout:  recovery,
		now:              time.Now,
		state:            CircuitClosed,
	}
}

// ShouldAttempt reports whether a request may go to the provider.
// Once the recovery timeout has elapsed a single probe is let through.
func (cb *CircuitBreaker) ShouldAttempt() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if cb.now().Sub(cb.lastFailureTime) < cb.recoveryTimeout {
			return false
		}
		cb.state = CircuitHalfOpen
		cb.probing = true
		slog.Info("circuit breaker half-open, probing", slog.String("provider", cb.name))
		return true
	case CircuitHalfOpen:
		if cb.probing {
			return false
		}
		cb.probing = true
		return true
	default:
		return false
	}
}

// RecordSuccess records a successful request
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount = 0
	cb.probing = false
	if cb.state != CircuitClosed {
		cb.state = CircuitClosed
		slog.Info("circuit breaker closed after successful recovery", slog.String("provider", cb.name))
	}
}

// RecordFailure records a failed request
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailureTime = cb.now()
	cb.probing = false

	if cb.state == CircuitHalfOpen || cb.failureCount >= cb.failureThreshold {
		if cb.state != CircuitOpen {
			slog.Warn("circuit breaker opened due to consecutive failures",
				slog.String("provider", cb.name),
				slog.Int("failure_count", cb.failureCount),
				slog.Int("threshold", cb.failureThreshold))
		}
		cb.state = CircuitOpen
	}
}

// State returns the current circuit state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// String returns a string representation of the circuit state
func (cs CircuitState) String() string {
	switch cs {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
