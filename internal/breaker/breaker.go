package breaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State represents the current mode of a circuit breaker.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// ErrCircuitOpen is returned when a call is rejected without being attempted
// because the breaker is open and its cooldown has not elapsed.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Config controls the state transitions of a circuit breaker.
type Config struct {
	// FailureThreshold is the number of consecutive failures that trips a
	// closed breaker open.
	FailureThreshold int

	// SuccessThreshold is the number of consecutive successes required in
	// half-open state before the breaker closes again.
	SuccessThreshold int

	// OpenTimeout is how long the breaker stays open before the next call
	// is allowed through as a probe. The transition is lazy: it happens on
	// the next Execute, never on a background timer.
	OpenTimeout time.Duration

	// OnStateChange, if set, is invoked after every state transition.
	OnStateChange func(name string, from, to State)
}

// DefaultConfig matches the thresholds used for upstream data providers.
var DefaultConfig = Config{
	FailureThreshold: 5,
	SuccessThreshold: 2,
	OpenTimeout:      30 * time.Second,
}

// Stats is a read-only snapshot of a breaker's counters and state.
type Stats struct {
	Name                 string     `json:"name"`
	State                State      `json:"state"`
	ConsecutiveFailures  int        `json:"consecutive_failures"`
	ConsecutiveSuccesses int        `json:"consecutive_successes"`
	TotalRequests        int64      `json:"total_requests"`
	SuccessfulRequests   int64      `json:"successful_requests"`
	FailedRequests       int64      `json:"failed_requests"`
	LastFailureTime      *time.Time `json:"last_failure_time,omitempty"`
	LastSuccessTime      *time.Time `json:"last_success_time,omitempty"`
	OpenedAt             *time.Time `json:"opened_at,omitempty"`
}

// CircuitBreaker guards calls to a single named upstream. It does not retry;
// it only gates attempts and classifies outcomes. Rejected calls (open state)
// are not counted as requests.
type CircuitBreaker struct {
	name string
	cfg  Config
	now  func() time.Time

	mu                   sync.Mutex
	state                State
	consecutiveFailures  int
	consecutiveSuccesses int
	totalRequests        int64
	successfulRequests   int64
	failedRequests       int64
	lastFailureTime      *time.Time
	lastSuccessTime      *time.Time
	openedAt             *time.Time
}

// New creates a closed breaker. Zero-valued thresholds fall back to
// DefaultConfig.
func New(name string, cfg Config) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultConfig.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = DefaultConfig.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = DefaultConfig.OpenTimeout
	}

	return &CircuitBreaker{
		name:  name,
		cfg:   cfg,
		now:   time.Now,
		state: StateClosed,
	}
}

// Name returns the breaker's identity.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// Execute runs op under the breaker. If the breaker is open and the cooldown
// has not elapsed, op is never invoked and ErrCircuitOpen is returned. The
// original error from op is returned unchanged after bookkeeping so callers
// can decide on fallback.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	err := op(ctx)
	cb.afterCall(err)
	return err
}

// State returns the stored state without applying any transition. An open
// breaker whose cooldown has elapsed still reports open here; the move to
// half_open happens on the next Execute call.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Stats returns a snapshot of the breaker's public counters.
func (cb *CircuitBreaker) Stats() Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return Stats{
		Name:                 cb.name,
		State:                cb.state,
		ConsecutiveFailures:  cb.consecutiveFailures,
		ConsecutiveSuccesses: cb.consecutiveSuccesses,
		TotalRequests:        cb.totalRequests,
		SuccessfulRequests:   cb.successfulRequests,
		FailedRequests:       cb.failedRequests,
		LastFailureTime:      copyTime(cb.lastFailureTime),
		LastSuccessTime:      copyTime(cb.lastSuccessTime),
		OpenedAt:             copyTime(cb.openedAt),
	}
}

// Reset forces the breaker back to closed with all counters zeroed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	from := cb.state
	cb.state = StateClosed
	cb.consecutiveFailures = 0
	cb.consecutiveSuccesses = 0
	cb.totalRequests = 0
	cb.successfulRequests = 0
	cb.failedRequests = 0
	cb.lastFailureTime = nil
	cb.lastSuccessTime = nil
	cb.openedAt = nil
	cb.mu.Unlock()

	if from != StateClosed {
		cb.notifyStateChange(from, StateClosed)
	}
}

func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()

	if cb.state == StateOpen {
		if cb.openedAt == nil || cb.now().Sub(*cb.openedAt) < cb.cfg.OpenTimeout {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}

		// Cooldown elapsed, let this call through as a probe.
		cb.state = StateHalfOpen
		cb.consecutiveFailures = 0
		cb.consecutiveSuccesses = 0
		cb.mu.Unlock()
		cb.notifyStateChange(StateOpen, StateHalfOpen)
		return nil
	}

	cb.mu.Unlock()
	return nil
}

func (cb *CircuitBreaker) afterCall(err error) {
	cb.mu.Lock()

	var from, to State
	ts := cb.now()

	cb.totalRequests++
	if err != nil {
		cb.failedRequests++
		cb.consecutiveFailures++
		cb.consecutiveSuccesses = 0
		cb.lastFailureTime = &ts

		switch cb.state {
		case StateClosed:
			if cb.consecutiveFailures >= cb.cfg.FailureThreshold {
				from, to = cb.state, StateOpen
				cb.state = StateOpen
				cb.openedAt = &ts
			}
		case StateHalfOpen:
			// A single probe failure re-opens the breaker.
			from, to = cb.state, StateOpen
			cb.state = StateOpen
			cb.openedAt = &ts
		}
	} else {
		cb.successfulRequests++
		cb.consecutiveSuccesses++
		cb.consecutiveFailures = 0
		cb.lastSuccessTime = &ts

		if cb.state == StateHalfOpen && cb.consecutiveSuccesses >= cb.cfg.SuccessThreshold {
			from, to = cb.state, StateClosed
			cb.state = StateClosed
			cb.openedAt = nil
		}
	}

	cb.mu.Unlock()

	if to != "" {
		cb.notifyStateChange(from, to)
	}
}

func (cb *CircuitBreaker) notifyStateChange(from, to State) {
	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(cb.name, from, to)
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
