// Package circuit fails calls to a struggling dependency fast instead of
// letting every request wait on it.
package circuit

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned without calling the dependency while the circuit is
// open or its half-open probes are exhausted.
var ErrOpen = errors.New("circuit open")

type Config struct {
	// Threshold consecutive failures open the circuit.
	Threshold int
	// Cooldown is how long the circuit stays open before probing.
	Cooldown time.Duration
	// SuccessThreshold successful probes close the circuit again.
	SuccessThreshold int
	// MaxProbes bounds concurrent calls while half open.
	MaxProbes int
	// Ignore lists errors that are answers, not failures.
	Ignore []error
}

func DefaultConfig() Config {
	return Config{
		Threshold:        5,
		Cooldown:         30 * time.Second,
		SuccessThreshold: 2,
		MaxProbes:        1,
	}
}

type Breaker struct {
	mu        sync.Mutex
	name      string
	config    Config
	logger    *zap.Logger
	now       func() time.Time
	state     State
	failures  int
	successes int
	probes    int
	openedAt  time.Time
}

func New(name string, config Config, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Breaker{name: name, config: config, logger: logger, now: time.Now}
}

// Do runs fn unless the circuit is open. Cancellation by the caller and
// ignored errors do not count against the dependency.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}
	err := fn(ctx)
	b.record(err)
	return err
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.config.Cooldown {
			return ErrOpen
		}
		b.transition(StateHalfOpen)
		b.probes = 1
		return nil
	case StateHalfOpen:
		if b.probes >= b.config.MaxProbes {
			return ErrOpen
		}
		b.probes++
		return nil
	default:
		return nil
	}
}

func (b *Breaker) failure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	for _, ignored := range b.config.Ignore {
		if errors.Is(err, ignored) {
			return false
		}
	}
	return true
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen && b.probes > 0 {
		b.probes--
	}

	if !b.failure(err) {
		b.failures = 0
		if b.state == StateHalfOpen {
			b.successes++
			if b.successes >= b.config.SuccessThreshold {
				b.transition(StateClosed)
			}
		}
		return
	}

	b.failures++
	if b.state == StateHalfOpen || (b.state == StateClosed && b.failures >= b.config.Threshold) {
		b.logger.Warn("Opening circuit",
			zap.String("name", b.name),
			zap.Int("failures", b.failures),
			zap.Error(err),
		)
		b.transition(StateOpen)
	}
}

// transition must be called with mu held.
func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	b.successes = 0
	b.probes = 0
	switch to {
	case StateOpen:
		b.openedAt = b.now()
	case StateClosed:
		b.failures = 0
	}

	b.logger.Info("Circuit state changed",
		zap.String("name", b.name),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Snapshot describes the breaker for health reporting.
func (b *Breaker) Snapshot() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := map[string]any{
		"name":      b.name,
		"state":     b.state.String(),
		"failures":  b.failures,
		"threshold": b.config.Threshold,
	}
	if b.state != StateClosed {
		snapshot["opened_at"] = b.openedAt
	}
	return snapshot
}
