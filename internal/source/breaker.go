package source

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"recipegrip/internal/paging"
)

// BreakerConfig holds the configuration for a circuit breaker
type BreakerConfig struct {
	// Name is the circuit breaker name for logging
	Name string

	// MaxRequests is the number of probes allowed while half-open
	MaxRequests uint32

	// Interval is the cyclic period of the closed state to clear counts
	Interval time.Duration

	// Timeout is how long the circuit stays open before probing again
	Timeout time.Duration

	// FailureThreshold is the failure ratio that trips the circuit, 0.6 means 60%
	FailureThreshold float64

	// MinRequests is the minimum number of requests before the ratio counts
	MinRequests uint32
}

// DefaultBreakerConfig returns settings tuned for an interactive recipe search
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "edamam",
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          20 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// Breaker guards a page source with a circuit breaker. While the circuit is
// open fetches fail fast with a TransportError.
type Breaker[T any] struct {
	next    paging.Source[T]
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewBreaker wraps next
func NewBreaker[T any](next paging.Source[T], cfg BreakerConfig, logger *zap.Logger) *Breaker[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("breaker")

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("circuit", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// Superseded fetches are cancelled on purpose and say nothing about
		// the health of the remote
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &Breaker[T]{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// FetchPage runs the wrapped fetch through the circuit breaker
func (b *Breaker[T]) FetchPage(ctx context.Context, query string, offset, limit int) ([]T, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.next.FetchPage(ctx, query, offset, limit)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &paging.TransportError{Op: "circuit " + b.breaker.Name(), Err: err}
		}
		return nil, err
	}
	records, _ := result.([]T)
	return records, nil
}

// State returns the current state of the circuit
func (b *Breaker[T]) State() gobreaker.State {
	return b.breaker.State()
}

// IsOpen reports whether fetches are currently rejected
func (b *Breaker[T]) IsOpen() bool {
	return b.breaker.State() == gobreaker.StateOpen
}
