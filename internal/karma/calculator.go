package karma

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/dm/karma-go/internal/model"
)

// Calculator measures the similarity of the car selections drawn for a
// target. It is safe for concurrent use; every measurement gets its own
// Searcher.
type Calculator struct {
	Cars      []Car
	Timeout   time.Duration
	Tolerance float64
	Logger    *slog.Logger

	// NewRand supplies the random source of each measurement. Nil seeds
	// randomly.
	NewRand func() *rand.Rand
}

// Measure draws run.PlayerCount subsets of run.LapCount cars for target and
// returns their similarity. Fewer than two subsets yield a similarity of 0.
func (c *Calculator) Measure(ctx context.Context, target int, run model.RunIdentity) (model.Measurement, error) {
	var rng *rand.Rand
	if c.NewRand != nil {
		rng = c.NewRand()
	}
	s := NewSearcher(c.Cars, rng, c.Logger)

	subsets, err := s.Runs(ctx, Params{
		Target:      target,
		LapCount:    run.LapCount,
		PlayerCount: run.PlayerCount,
		Timeout:     c.Timeout,
		Tolerance:   c.Tolerance,
	})
	if err != nil {
		return model.Measurement{}, err
	}

	sim, err := Similarity(subsets)
	if err != nil && !errors.Is(err, ErrTooFewSubsets) {
		return model.Measurement{}, err
	}
	return model.Measurement{
		Target:     target,
		Run:        run,
		Similarity: sim,
		Subsets:    subsets,
	}, nil
}

// SubsetTotal returns the summed lap time of subset.
func (c *Calculator) SubsetTotal(subset []int) int {
	return Total(c.Cars, subset)
}

// Total returns the summed lap time of the cars at the indices in subset.
func Total(cars []Car, subset []int) int {
	return subsetSum(cars, subset)
}

// Deviation returns how far total is off target, in percent of target.
func Deviation(total, target int) float64 {
	if target == 0 {
		return 0
	}
	return accuracyPercent(total, target) - 100
}
