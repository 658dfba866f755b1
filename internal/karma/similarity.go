package karma

// Similarity returns the mean pairwise Jaccard index of subsets, in [0, 1].
// 0 means no two subsets share a car, 1 means all subsets are identical.
func Similarity(subsets [][]int) (float64, error) {
	if len(subsets) < 2 {
		return 0, ErrTooFewSubsets
	}
	sets := make([]map[int]struct{}, len(subsets))
	for i, s := range subsets {
		set := make(map[int]struct{}, len(s))
		for _, c := range s {
			set[c] = struct{}{}
		}
		sets[i] = set
	}

	var total float64
	var pairs int
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			inter := 0
			for c := range sets[i] {
				if _, ok := sets[j][c]; ok {
					inter++
				}
			}
			union := len(sets[i]) + len(sets[j]) - inter
			if union > 0 {
				total += float64(inter) / float64(union)
			}
			pairs++
		}
	}
	return total / float64(pairs), nil
}
