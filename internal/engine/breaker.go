package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSettings tunes WithBreaker.
type BreakerSettings struct {
	// MaxFailures is the run of consecutive failures that opens the breaker.
	MaxFailures uint32
	// Cooldown is how long the breaker stays open before probing again.
	Cooldown time.Duration
}

// DefaultBreakerSettings opens after 5 consecutive failures for 30 seconds.
var DefaultBreakerSettings = BreakerSettings{MaxFailures: 5, Cooldown: 30 * time.Second}

type breakerEngine struct {
	next Engine
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker guards next.Transliterate with a circuit breaker. While the
// breaker is open calls fail fast with ErrUnavailable. Cancelled requests
// do not count as failures.
func WithBreaker(next Engine, name string, settings BreakerSettings, logger *slog.Logger) Engine {
	if logger == nil {
		logger = slog.Default()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     settings.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("engine breaker state changed",
				"engine", name,
				"from", from.String(),
				"to", to.String())
		},
	})
	return &breakerEngine{next: next, cb: cb}
}

func (e *breakerEngine) Transliterate(ctx context.Context, word string) ([]string, error) {
	v, err := e.cb.Execute(func() (interface{}, error) {
		return e.next.Transliterate(ctx, word)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, e.cb.Name(), err)
		}
		return nil, err
	}
	return v.([]string), nil
}

func (e *breakerEngine) ReverseTransliterate(word string) string {
	return e.next.ReverseTransliterate(word)
}
