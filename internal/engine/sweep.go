package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dm/karma-go/internal/model"
)

// Measurer computes the similarity of one target for a run.
// *karma.Calculator implements it.
type Measurer interface {
	Measure(ctx context.Context, target int, run model.RunIdentity) (model.Measurement, error)
}

// Result is the outcome of one sweep target. Err is set when the
// measurement failed; the position should then be marked, not plotted.
type Result struct {
	SweepID     string
	Run         model.RunIdentity
	Target      int
	Measurement model.Measurement
	Err         error
	Elapsed     time.Duration
}

// Sweep measures a list of targets for one run with a fixed number of
// workers. Targets already in the cache are skipped.
type Sweep struct {
	ID       string
	Identity model.RunIdentity
	Targets  []int
	Workers  int
	Measurer Measurer
	Cache    *Cache
	Logger   *slog.Logger
}

// NewSweep creates a sweep with a fresh ID. Targets are visited in the order
// given.
func NewSweep(run model.RunIdentity, targets []int, workers int, m Measurer, cache *Cache, logger *slog.Logger) *Sweep {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := ulid.Make().String()
	return &Sweep{
		ID:       id,
		Identity: run,
		Targets:  targets,
		Workers:  max(1, workers),
		Measurer: m,
		Cache:    cache,
		Logger:   logger.With("sweep", id),
	}
}

// Run measures every uncached target and sends each result to out. Worker w
// takes targets w, w+Workers, w+2*Workers and so on, so the visiting order
// is roughly preserved. Measurement errors are delivered as results; Run
// itself only fails when ctx is cancelled.
func (s *Sweep) Run(ctx context.Context, out chan<- Result) error {
	start := time.Now()
	s.Logger.Info("sweep started",
		"lap_count", s.Identity.LapCount,
		"player_count", s.Identity.PlayerCount,
		"targets", len(s.Targets),
		"workers", s.Workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := range s.Workers {
		g.Go(func() error {
			for i := w; i < len(s.Targets); i += s.Workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				target := s.Targets[i]
				if _, ok := s.Cache.Get(target, s.Identity); ok {
					continue
				}
				res := s.measure(gctx, target)
				if err := gctx.Err(); err != nil {
					return err
				}
				select {
				case out <- res:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		s.Logger.Debug("sweep cancelled", "elapsed", time.Since(start))
		return err
	}
	s.Logger.Info("sweep finished", "elapsed", time.Since(start))
	return nil
}

func (s *Sweep) measure(ctx context.Context, target int) Result {
	began := time.Now()
	m, err := s.Measurer.Measure(ctx, target, s.Identity)
	res := Result{
		SweepID:     s.ID,
		Run:         s.Identity,
		Target:      target,
		Measurement: m,
		Err:         err,
		Elapsed:     time.Since(began),
	}
	if err != nil {
		if ctx.Err() == nil {
			s.Logger.Warn("measurement failed", "target", target, "error", err)
		}
		return res
	}
	s.Cache.Put(m)
	return res
}
