package resilience

import (
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
)

var ErrCircuitOpen = crerr.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// StateChangeFunc observes breaker transitions. It runs outside the breaker lock.
type StateChangeFunc func(name string, from, to CircuitState)

// CircuitBreaker guards one upstream dependency. Closed counts consecutive
// failures, open rejects until the cool-down passes, half-open admits a
// bounded number of probes and closes once they all succeed.
type CircuitBreaker struct {
	mu sync.Mutex

	name      string
	threshold int
	coolDown  time.Duration
	probes    int
	onChange  StateChangeFunc
	now       func() time.Time

	state          CircuitState
	failures       int
	openedAt       time.Time
	probesInFlight int
	probesPassed   int
}

func NewCircuitBreaker(name string, cfg CircuitBreakerConfig) *CircuitBreaker {
	cfg = cfg.WithDefaults()
	return &CircuitBreaker{
		name:      name,
		threshold: cfg.FailureThreshold,
		coolDown:  cfg.OpenTimeout,
		probes:    cfg.HalfOpenMaxReq,
		state:     CircuitStateClosed,
		now:       time.Now,
	}
}

// OnStateChange registers fn; passing nil removes the observer.
func (b *CircuitBreaker) OnStateChange(fn StateChangeFunc) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

func (b *CircuitBreaker) Name() string {
	return b.name
}

// Allow reports whether a call may proceed. Callers that get nil must
// report the outcome through RecordSuccess or RecordFailure.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	from := b.state
	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) < b.coolDown {
			b.mu.Unlock()
			return crerr.Wrapf(ErrCircuitOpen, "%s", b.name)
		}
		b.enter(CircuitStateHalfOpen)
	}
	if b.state == CircuitStateHalfOpen {
		if b.probesInFlight >= b.probes {
			to := b.state
			b.mu.Unlock()
			b.notify(from, to)
			return crerr.Wrapf(ErrCircuitOpen, "%s: probe budget exhausted", b.name)
		}
		b.probesInFlight++
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		b.releaseProbe()
		b.probesPassed++
		if b.probesPassed >= b.probes && b.probesInFlight == 0 {
			b.enter(CircuitStateClosed)
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.threshold {
			b.enter(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		b.releaseProbe()
		b.enter(CircuitStateOpen)
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// Release returns an admitted call that ended without a verdict, such as a
// caller that gave up before the upstream answered.
func (b *CircuitBreaker) Release() {
	b.mu.Lock()
	if b.state == CircuitStateHalfOpen {
		b.releaseProbe()
	}
	b.mu.Unlock()
}

// Reset closes the breaker after an out-of-band check confirmed the
// dependency is healthy again.
func (b *CircuitBreaker) Reset() {
	b.mu.Lock()
	from := b.state
	b.enter(CircuitStateClosed)
	b.mu.Unlock()

	b.notify(from, CircuitStateClosed)
}

// State reports the effective state; an open breaker whose cool-down has
// elapsed reads as half-open even before the next Allow.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.coolDown {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) releaseProbe() {
	if b.probesInFlight > 0 {
		b.probesInFlight--
	}
}

func (b *CircuitBreaker) enter(state CircuitState) {
	b.state = state
	b.probesInFlight = 0
	b.probesPassed = 0
	switch state {
	case CircuitStateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
}

func (b *CircuitBreaker) notify(from, to CircuitState) {
	if from == to {
		return
	}
	b.mu.Lock()
	fn := b.onChange
	b.mu.Unlock()
	if fn != nil {
		fn(b.name, from, to)
	}
}
