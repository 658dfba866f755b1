package karma

import "math"

// SliderPositions is the number of discrete targets across a target range.
const SliderPositions = 100

// SliderStep returns the spacing between adjacent slider targets.
func SliderStep(lo, hi int) int {
	if hi <= lo {
		return 1
	}
	return int(math.Ceil(float64(hi-lo) / float64(SliderPositions-1)))
}

// TargetAt maps a slider index onto a target within [lo, hi].
func TargetAt(lo, hi, idx int) int {
	return min(lo+SliderStep(lo, hi)*idx, hi)
}

// IndexOf maps a target back onto the nearest slider index.
func IndexOf(lo, hi, target int) int {
	if hi <= lo {
		return 0
	}
	pos := int(math.Round(float64(target-lo) / float64(hi-lo) * float64(SliderPositions-1)))
	return max(0, min(pos, SliderPositions-1))
}

// SliderTargets returns the distinct targets of every slider position.
func SliderTargets(lo, hi int) []int {
	out := make([]int, 0, SliderPositions)
	for i := 0; i < SliderPositions; i++ {
		t := TargetAt(lo, hi, i)
		if len(out) > 0 && out[len(out)-1] == t {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SpreadIndices returns 0..n-1 ordered coarse to fine: both ends first, then
// the midpoint of every interval, breadth first.
func SpreadIndices(n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, 0, n)
	seen := make([]bool, n)
	visit := func(i int) {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	visit(0)
	visit(n - 1)

	type span struct{ lo, hi int }
	queue := []span{{0, n - 1}}
	for len(out) < n && len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if s.hi-s.lo <= 1 {
			continue
		}
		mid := (s.lo + s.hi) / 2
		visit(mid)
		queue = append(queue, span{s.lo, mid}, span{mid, s.hi})
	}
	return out
}
