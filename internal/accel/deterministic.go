package accel

// gainEpsilon bounds when two modularity gains are considered equal for
// tie-break purposes.
const gainEpsilon = 1e-9

// BetterMove reports whether the candidate (gain, community) pair should
// replace the current best. A strictly greater gain wins; gains equal
// within gainEpsilon fall back to the smaller community id. hasBest is
// false while no positive-gain candidate has been seen yet.
func BetterMove(gain float64, candidate int, bestGain float64, best int, hasBest bool) bool {
	if !hasBest {
		return gain > 0
	}
	diff := gain - bestGain
	if diff > gainEpsilon {
		return true
	}
	return diff > -gainEpsilon && candidate < best
}

// StableOrder returns the deterministic node evaluation order [0, n).
func StableOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}
