package accel

// ============================================================================
// Shard kernel - movement inner loop
// ============================================================================

// EvaluateNode scores every neighbor community of v against the read-only
// views and returns the best positive-gain target, or (current, 0) when no
// move improves modularity. The dense accumulator replaces a map over
// community ids; the dirty list bounds the cleanup to O(degree).
func EvaluateNode(v int, views *KernelViews, scratch *Scratch) (int, float64) {
	current := views.Community[v]
	nodeDegree := views.Graph.WeightedDegree(v)
	twiceTotal := views.TwiceTotalWeight

	nbrs, ws := views.Graph.Neighbors(v)
	weightToCurrent := 0.0
	for i, u := range nbrs {
		c := views.Community[u]
		if !scratch.mark.Test(c) {
			scratch.mark.Set(c)
			scratch.dirty = append(scratch.dirty, c)
		}
		scratch.acc[c] += ws[i]
		if c == current {
			weightToCurrent += ws[i]
		}
	}

	best := current
	bestGain := 0.0
	hasBest := false
	currentDegree := views.CommunityDegrees[current]

	for _, candidate := range scratch.dirty {
		if candidate == current {
			continue
		}
		candidateDegree := views.CommunityDegrees[candidate]
		gain := (scratch.acc[candidate]-weightToCurrent)/twiceTotal +
			views.Resolution*nodeDegree*(currentDegree-nodeDegree-candidateDegree)/
				(twiceTotal*twiceTotal)

		if BetterMove(gain, candidate, bestGain, best, hasBest) {
			best = candidate
			bestGain = gain
			hasBest = true
		}
	}

	scratch.release()

	if !hasBest {
		return current, 0
	}
	return best, bestGain
}

// ExecuteShard evaluates a disjoint slice of node ids against the views,
// emitting move records and degree deltas for sequential application and
// writing the changed / next-active / affected bits into the shared
// frontiers. Nodes are processed in ascending id order within the shard.
func ExecuteShard(shard []int, views *KernelViews, scratch *Scratch, fr *Frontiers) ShardResult {
	var result ShardResult

	for _, v := range shard {
		best, gain := EvaluateNode(v, views, scratch)
		if gain <= 0 || best == views.Community[v] {
			continue
		}

		current := views.Community[v]
		nodeDegree := views.Graph.WeightedDegree(v)

		result.Moves = append(result.Moves, MoveRecord{Node: v, Target: best})
		result.DegreeDeltas = append(result.DegreeDeltas,
			DegreeDelta{Community: current, Delta: -nodeDegree},
			DegreeDelta{Community: best, Delta: nodeDegree},
		)
		fr.Changed.Set(v)

		nbrs, _ := views.Graph.Neighbors(v)
		for _, u := range nbrs {
			if views.Community[u] != best {
				fr.NextActive.Set(u)
			}
			if views.Subcommunity[v] == views.Subcommunity[u] {
				fr.Affected.Set(v)
				fr.Affected.Set(u)
			}
		}
	}

	return result
}
