package karma

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"time"
)

// minTimeout is the floor applied to a search timeout.
const minTimeout = 100 * time.Millisecond

// Params describes one multi-run search.
type Params struct {
	Target      int
	LapCount    int
	PlayerCount int
	Timeout     time.Duration
	Tolerance   float64 // percent, e.g. 0.5 for ±0.5%
}

// Searcher draws subsets of cars whose total lap time approximates a target.
// A Searcher is not safe for concurrent use; its random source is unguarded.
type Searcher struct {
	cars   []Car
	rng    *rand.Rand
	logger *slog.Logger
}

// NewSearcher creates a Searcher over cars. A nil rng draws a random seed.
func NewSearcher(cars []Car, rng *rand.Rand, logger *slog.Logger) *Searcher {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{cars: cars, rng: rng, logger: logger}
}

// accuracyPercent returns sum/target as a percentage.
func accuracyPercent(sum, target int) float64 {
	if target == 0 {
		return 0
	}
	return float64(sum) / float64(target) * 100
}

func withinTolerance(pct, tolerance float64) bool {
	return pct >= 100-tolerance && pct <= 100+tolerance
}

// Runs draws p.PlayerCount subsets of p.LapCount cars, each within
// ±p.Tolerance percent of p.Target. Cars picked by earlier runs leave the
// pool but may be reused when the pool cannot satisfy a run on its own.
func (s *Searcher) Runs(ctx context.Context, p Params) ([][]int, error) {
	deadline := time.Now().Add(max(p.Timeout, minTimeout))

	available := sortedIndices(s.cars, nil)
	previous := make(map[int]bool)
	results := make([][]int, 0, p.PlayerCount)

	for run := 1; run <= p.PlayerCount; run++ {
		var subset []int
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if time.Now().After(deadline) {
				s.logger.Warn("subset search timed out", "target", p.Target, "found", len(results), "required", p.PlayerCount)
				return nil, &SubsetError{Kind: NotEnoughRuns, Required: p.PlayerCount, Found: len(results)}
			}
			attempt, err := s.FindSubset(p.Target, p.LapCount, available, previous, p.Tolerance)
			if err != nil {
				s.logger.Debug("subset search failed", "run", run, "target", p.Target, "error", err)
				return nil, err
			}
			if !withinTolerance(accuracyPercent(subsetSum(s.cars, attempt), p.Target), p.Tolerance) {
				continue
			}
			subset = attempt
			break
		}

		for _, i := range subset {
			previous[i] = true
		}
		available = slices.DeleteFunc(available, func(i int) bool { return previous[i] })
		results = append(results, subset)
	}
	return results, nil
}

// FindSubset draws lapCount cars from pool whose lap times sum close to
// target. Cars in previous may be drawn when pool alone cannot reach the
// target or has too few cars.
func (s *Searcher) FindSubset(target, lapCount int, pool []int, previous map[int]bool, tolerance float64) ([]int, error) {
	remaining := sortedIndices(s.cars, pool)
	selected := make([]int, 0, lapCount)
	sum := 0

	for len(selected) < lapCount {
		need := lapCount - len(selected)
		candidates := slices.Clone(remaining)
		usingPrevious := false

		if need > len(candidates) {
			var ok bool
			candidates, ok = s.extendWithPrevious(candidates, previous, selected)
			if !ok {
				return nil, &SubsetError{Kind: InsufficientCandidates, Needed: need, Available: len(candidates)}
			}
			usingPrevious = true
			if len(candidates) < need {
				return nil, &SubsetError{Kind: PreviousInsufficient, Needed: need, Available: len(candidates)}
			}
		}

		lo, hi := minMaxSums(s.cars, candidates, need)
		if sum+lo > target || sum+hi < target {
			unreachable := &SubsetError{Kind: TargetUnreachable, Target: target, Sum: sum, MinPossible: lo, MaxPossible: hi}
			if usingPrevious {
				return nil, unreachable
			}
			var ok bool
			candidates, ok = s.extendWithPrevious(candidates, previous, selected)
			if !ok {
				return nil, unreachable
			}
			usingPrevious = true
			lo, hi = minMaxSums(s.cars, candidates, need)
			if sum+lo > target || sum+hi < target {
				unreachable.MinPossible, unreachable.MaxPossible = lo, hi
				return nil, unreachable
			}
		}

		var chosen int
		if need == 1 {
			chosen = s.lastPick(candidates, previous, selected, sum, target, tolerance)
		} else {
			chosen = s.pick(candidates, previous, selected, sum, usingPrevious, target, need)
		}
		sum += s.cars[chosen].LapTime
		selected = append(selected, chosen)
		remaining = slices.DeleteFunc(remaining, func(i int) bool { return i == chosen })
	}

	s.rng.Shuffle(len(selected), func(i, j int) { selected[i], selected[j] = selected[j], selected[i] })
	return selected, nil
}

// pick draws the next car, weighting candidates that keep the remaining
// target reachable by closeness to the average lap time still needed.
func (s *Searcher) pick(candidates []int, previous map[int]bool, selected []int, sum int, usingPrevious bool, target, need int) int {
	loRest, hiRest := minMaxSums(s.cars, candidates, need-1)
	minValid := max(0, target-(sum+hiRest))
	maxValid := max(0, target-(sum+loRest))

	avg := float64(max(0, target-sum)) / float64(need)
	var (
		filtered []int
		weights  []float64
		total    float64
	)
	for _, i := range candidates {
		t := s.cars[i].LapTime
		if t < minValid || t > maxValid {
			continue
		}
		w := 1 / (math.Abs(float64(t)-avg) + 1)
		filtered = append(filtered, i)
		weights = append(weights, w)
		total += w
	}
	if len(filtered) > 0 {
		r := s.rng.Float64() * total
		for k, w := range weights {
			if r < w {
				return filtered[k]
			}
			r -= w
		}
		return filtered[len(filtered)-1]
	}
	return s.fallback(candidates, previous, selected, sum, usingPrevious, target, need)
}

// lastPick chooses the final car: the one closest to the time still needed,
// or the fallback choice when that misses the tolerance.
func (s *Searcher) lastPick(candidates []int, previous map[int]bool, selected []int, sum, target int, tolerance float64) int {
	needed := max(0, target-sum)
	best := s.closest(candidates, needed)
	if withinTolerance(accuracyPercent(sum+s.cars[best].LapTime, target), tolerance) {
		return best
	}
	return s.fallback(candidates, previous, selected, sum, false, target, 1)
}

// fallback returns the candidate closest to the average time still needed,
// preferring a previously selected car when it is strictly closer.
func (s *Searcher) fallback(candidates []int, previous map[int]bool, selected []int, sum int, usingPrevious bool, target, need int) int {
	avg := max(0, target-sum) / need
	best := s.closest(candidates, avg)
	if usingPrevious || len(previous) == 0 {
		return best
	}
	bestDiff := absInt(s.cars[best].LapTime - avg)
	bestPrev, prevDiff := -1, math.MaxInt
	for i := range previous {
		if slices.Contains(selected, i) {
			continue
		}
		if d := absInt(s.cars[i].LapTime - avg); d < prevDiff || (d == prevDiff && i < bestPrev) {
			bestPrev, prevDiff = i, d
		}
	}
	if bestPrev >= 0 && prevDiff < bestDiff {
		return bestPrev
	}
	return best
}

// closest returns the candidate whose lap time is nearest to want. Ties go
// to the faster car. candidates must be non-empty.
func (s *Searcher) closest(candidates []int, want int) int {
	best, bestDiff := candidates[0], absInt(s.cars[candidates[0]].LapTime-want)
	for _, i := range candidates[1:] {
		d := absInt(s.cars[i].LapTime - want)
		if d < bestDiff || (d == bestDiff && s.cars[i].LapTime < s.cars[best].LapTime) {
			best, bestDiff = i, d
		}
	}
	return best
}

// extendWithPrevious appends previously selected cars not already chosen for
// this subset and re-sorts by lap time. It reports whether any were added.
func (s *Searcher) extendWithPrevious(candidates []int, previous map[int]bool, selected []int) ([]int, bool) {
	added := false
	for i := range previous {
		if slices.Contains(selected, i) || slices.Contains(candidates, i) {
			continue
		}
		candidates = append(candidates, i)
		added = true
	}
	if !added {
		return candidates, false
	}
	return sortedIndices(s.cars, candidates), true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
