package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dm/karma-go/internal/chart"
)

// Default polling budget of the Gate: about one second.
const (
	DefaultGateDelay    = 50 * time.Millisecond
	DefaultGateAttempts = 20
)

// ErrGateTimeout is returned by Gate.Await when the chart library did not
// become available within the attempt budget.
var ErrGateTimeout = errors.New("chart library did not load")

var errNotLoaded = errors.New("chart library not loaded yet")

// Source reports whether a chart library is available. *chart.Host
// implements it.
type Source interface {
	Lookup() (chart.Library, bool)
}

// Gate polls a Source until a chart library is available.
type Gate struct {
	src      Source
	delay    time.Duration
	attempts int
	logger   *slog.Logger
}

// NewGate creates a Gate polling src every delay, at most attempts times.
// Non-positive values select the defaults.
func NewGate(src Source, delay time.Duration, attempts int, logger *slog.Logger) *Gate {
	if delay <= 0 {
		delay = DefaultGateDelay
	}
	if attempts <= 0 {
		attempts = DefaultGateAttempts
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gate{src: src, delay: delay, attempts: attempts, logger: logger}
}

// Await blocks until the library is available and returns it. When the
// budget is exhausted it logs the failure and returns an error wrapping
// ErrGateTimeout. Cancelling ctx aborts the wait with ctx.Err().
func (g *Gate) Await(ctx context.Context) (chart.Library, error) {
	var lib chart.Library
	backoff := retry.WithMaxRetries(uint64(g.attempts-1), retry.NewConstant(g.delay))
	err := retry.Do(ctx, backoff, func(_ context.Context) error {
		l, ok := g.src.Lookup()
		if !ok {
			return retry.RetryableError(errNotLoaded)
		}
		lib = l
		return nil
	})
	switch {
	case err == nil:
		return lib, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		g.logger.Error("chart library failed to load",
			"attempts", g.attempts,
			"delay", g.delay)
		return nil, fmt.Errorf("%w after %d attempts", ErrGateTimeout, g.attempts)
	}
}
