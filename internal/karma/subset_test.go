package karma

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppedCars returns n cars with lap times start, start+step, ...
func steppedCars(n, start, step int) []Car {
	cars := make([]Car, n)
	for i := range cars {
		cars[i] = Car{ID: string(rune('A' + i)), LapTime: start + i*step}
	}
	return cars
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func TestFindSubset_DistinctCarsNearTarget(t *testing.T) {
	cars := steppedCars(10, 8000, 1000)
	s := NewSearcher(cars, seeded(), nil)

	for i := 0; i < 50; i++ {
		subset, err := s.FindSubset(30000, 3, allIndices(len(cars)), nil, 5)
		require.NoError(t, err)
		require.Len(t, subset, 3)
		assert.Len(t, map[int]bool{subset[0]: true, subset[1]: true, subset[2]: true}, 3)
		assert.InDelta(t, 30000, subsetSum(cars, subset), 1000)
	}
}

func TestFindSubset_TargetUnreachable(t *testing.T) {
	cars := steppedCars(5, 1000, 1000)
	s := NewSearcher(cars, seeded(), nil)

	_, err := s.FindSubset(1_000_000, 2, allIndices(len(cars)), nil, 1)
	var se *SubsetError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, TargetUnreachable, se.Kind)
	assert.Contains(t, se.Error(), "unreachable")
}

func TestFindSubset_InsufficientCandidates(t *testing.T) {
	cars := steppedCars(5, 1000, 1000)
	s := NewSearcher(cars, seeded(), nil)

	_, err := s.FindSubset(6000, 3, []int{0, 1}, nil, 1)
	var se *SubsetError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, InsufficientCandidates, se.Kind)
	assert.Equal(t, 3, se.Needed)
}

func TestFindSubset_ReusesPreviousWhenPoolShort(t *testing.T) {
	cars := steppedCars(5, 1000, 1000)
	s := NewSearcher(cars, seeded(), nil)

	subset, err := s.FindSubset(6000, 3, []int{0, 1}, map[int]bool{2: true, 3: true, 4: true}, 50)
	require.NoError(t, err)
	assert.Len(t, subset, 3)
}

func TestRuns_AllWithinTolerance(t *testing.T) {
	cars := steppedCars(12, 8000, 1000)
	s := NewSearcher(cars, seeded(), nil)

	subsets, err := s.Runs(context.Background(), Params{
		Target:      30000,
		LapCount:    3,
		PlayerCount: 3,
		Timeout:     time.Second,
		Tolerance:   5,
	})
	require.NoError(t, err)
	require.Len(t, subsets, 3)
	for _, sub := range subsets {
		assert.Len(t, sub, 3)
		assert.True(t, withinTolerance(accuracyPercent(subsetSum(cars, sub), 30000), 5))
	}
}

func TestRuns_ZeroPlayers(t *testing.T) {
	s := NewSearcher(steppedCars(4, 1000, 1000), seeded(), nil)
	subsets, err := s.Runs(context.Background(), Params{Target: 3000, LapCount: 2})
	require.NoError(t, err)
	assert.Empty(t, subsets)
}

func TestRuns_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSearcher(steppedCars(8, 1000, 1000), seeded(), nil)
	_, err := s.Runs(ctx, Params{Target: 5000, LapCount: 2, PlayerCount: 2, Timeout: time.Second, Tolerance: 5})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRuns_TimesOutWhenToleranceUnreachable(t *testing.T) {
	// Sums are multiples of 1000 so a target of 30500 can never be hit
	// exactly with zero tolerance.
	s := NewSearcher(steppedCars(12, 8000, 1000), seeded(), nil)

	start := time.Now()
	_, err := s.Runs(context.Background(), Params{
		Target:      30500,
		LapCount:    3,
		PlayerCount: 2,
		Timeout:     time.Millisecond, // raised to the 100ms floor
		Tolerance:   0,
	})
	var se *SubsetError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, NotEnoughRuns, se.Kind)
	assert.Equal(t, 2, se.Required)
	assert.GreaterOrEqual(t, time.Since(start), minTimeout)
}
