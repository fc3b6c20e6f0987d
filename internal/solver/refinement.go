package solver

import (
	"context"
	"sort"

	"github.com/hit-leiden/internal/accel"
	"github.com/hit-leiden/internal/graph"
	"github.com/hit-leiden/pkg/collections"
	"github.com/hit-leiden/pkg/model"
	"github.com/hit-leiden/pkg/parallel"
)

// ============================================================================
// Refinement operator
// ============================================================================

// subMove is one sub-community reassignment collected by a refinement shard.
type subMove struct {
	node   int
	oldSub int
	newSub int
	degree float64
}

// refinement splits affected sub-communities into connected components and
// re-merges the resulting singletons by modularity gain. Returns the
// refined set R: every node split off into a fresh sub-community, or every
// node of the level on a cold start.
func (s *Solver) refinement(
	ctx context.Context,
	g *graph.CSR,
	community []int,
	subcommunity []int,
	affected *collections.Bitset,
) *collections.Bitset {
	n := g.NodeCount()
	refined := collections.NewBitset(n)
	if n == 0 || g.TotalWeight() == 0 {
		return refined
	}

	s.splitComponents(g, subcommunity, affected, refined)

	// Cold start: an identity sub-community mapping marks every node refined.
	identity := true
	for v, c := range subcommunity {
		if c != v {
			identity = false
			break
		}
	}
	if identity {
		for v := 0; v < n; v++ {
			refined.Set(v)
		}
	}

	s.mergeSingletons(ctx, g, community, subcommunity, refined)
	return refined
}

// splitComponents runs BFS over each affected sub-community's induced
// subgraph. The largest component keeps the id; every other component gets
// a fresh id from a counter seeded past the current maximum, and its nodes
// join the refined set. One visited bitset is reused across all
// sub-communities.
func (s *Solver) splitComponents(
	g *graph.CSR,
	subcommunity []int,
	affected *collections.Bitset,
	refined *collections.Bitset,
) {
	n := g.NodeCount()

	// Post-split ids may exceed the level's node count, so membership is
	// grouped through a compact index rather than a dense array.
	subIndex := make(map[int]int)
	var subs []int
	affected.Iterate(func(v int) bool {
		sub := subcommunity[v]
		if _, ok := subIndex[sub]; !ok {
			subIndex[sub] = len(subs)
			subs = append(subs, sub)
		}
		return true
	})
	if len(subs) == 0 {
		return
	}
	sort.Ints(subs)
	for i, sub := range subs {
		subIndex[sub] = i
	}

	members := make([][]int, len(subs))
	for v := 0; v < n; v++ {
		if i, ok := subIndex[subcommunity[v]]; ok {
			members[i] = append(members[i], v)
		}
	}

	nextID := 0
	for _, c := range subcommunity {
		if c+1 > nextID {
			nextID = c + 1
		}
	}

	visited := collections.NewVersionedBitset(n)
	queue := make([]int, 0, 64)

	for i, sub := range subs {
		if len(members[i]) == 0 {
			continue
		}
		visited.Reset()

		var components [][]int
		for _, start := range members[i] {
			if visited.Test(start) {
				continue
			}
			comp := []int{}
			queue = append(queue[:0], start)
			visited.Set(start)
			for len(queue) > 0 {
				v := queue[0]
				queue = queue[1:]
				comp = append(comp, v)
				nbrs, _ := g.Neighbors(v)
				for _, u := range nbrs {
					if subcommunity[u] == sub && !visited.Test(u) {
						visited.Set(u)
						queue = append(queue, u)
					}
				}
			}
			components = append(components, comp)
		}

		if len(components) <= 1 {
			continue
		}

		keeper := 0
		for j := 1; j < len(components); j++ {
			if len(components[j]) > len(components[keeper]) {
				keeper = j
			}
		}
		for j, comp := range components {
			if j == keeper {
				continue
			}
			id := nextID
			nextID++
			for _, v := range comp {
				subcommunity[v] = id
				refined.Set(v)
			}
		}
	}
}

// mergeSingletons re-scores every refined singleton against its neighbors'
// sub-communities, restricted to neighbors in the same community. Nodes are
// visited in ascending degree order.
func (s *Solver) mergeSingletons(
	ctx context.Context,
	g *graph.CSR,
	community []int,
	subcommunity []int,
	refined *collections.Bitset,
) {
	// Sub-community ids are sparse after relabeling, so sizes and degrees
	// live in maps rather than dense arrays.
	sizes := make(map[int]int)
	degrees := make(map[int]float64)
	for v := 0; v < g.NodeCount(); v++ {
		sizes[subcommunity[v]]++
		degrees[subcommunity[v]] += g.WeightedDegree(v)
	}

	order := refined.ToSlice()
	sort.SliceStable(order, func(i, j int) bool {
		return g.WeightedDegree(order[i]) < g.WeightedDegree(order[j])
	})

	twiceTotal := g.TotalWeight() * 2.0

	if s.mode == model.ModeThroughput {
		// Sizes and degrees are snapshotted at round entry; shards score
		// against the snapshot and moves apply after the join.
		proc := parallel.NewChunkProcessor[int, []subMove](
			parallel.DefaultPoolConfig().WithWorkers(s.workers))
		shardMoves := proc.CollectChunks(ctx, order,
			func(_ context.Context, chunk []int, _ int) []subMove {
				var moves []subMove
				for _, v := range chunk {
					if sizes[subcommunity[v]] != 1 {
						continue
					}
					best, gain := scoreSingleton(g, community, subcommunity, degrees, v, twiceTotal, s.resolution)
					if gain > 0 {
						moves = append(moves, subMove{
							node:   v,
							oldSub: subcommunity[v],
							newSub: best,
							degree: g.WeightedDegree(v),
						})
					}
				}
				return moves
			})
		for _, moves := range shardMoves {
			for _, m := range moves {
				subcommunity[m.node] = m.newSub
				sizes[m.oldSub]--
				sizes[m.newSub]++
				degrees[m.oldSub] -= m.degree
				degrees[m.newSub] += m.degree
			}
		}
		return
	}

	for _, v := range order {
		if sizes[subcommunity[v]] != 1 {
			continue
		}
		best, gain := scoreSingleton(g, community, subcommunity, degrees, v, twiceTotal, s.resolution)
		if gain <= 0 {
			continue
		}
		old := subcommunity[v]
		d := g.WeightedDegree(v)
		subcommunity[v] = best
		sizes[old]--
		sizes[best]++
		degrees[old] -= d
		degrees[best] += d
	}
}

// scoreSingleton evaluates moving singleton v into a neighboring
// sub-community, considering only neighbors in v's community.
func scoreSingleton(
	g *graph.CSR,
	community []int,
	subcommunity []int,
	subDegrees map[int]float64,
	v int,
	twiceTotal float64,
	resolution float64,
) (int, float64) {
	current := subcommunity[v]
	nodeDegree := g.WeightedDegree(v)

	neighborSubs := make(map[int]float64)
	weightToCurrent := 0.0
	nbrs, ws := g.Neighbors(v)
	for i, u := range nbrs {
		if community[u] != community[v] {
			continue
		}
		sub := subcommunity[u]
		neighborSubs[sub] += ws[i]
		if sub == current {
			weightToCurrent += ws[i]
		}
	}

	best := current
	bestGain := 0.0
	hasBest := false
	currentDegree := subDegrees[current]

	// Map iteration order is randomized; the explicit tie-break keeps the
	// chosen target independent of it.
	for candidate, weightToCandidate := range neighborSubs {
		if candidate == current {
			continue
		}
		gain := (weightToCandidate-weightToCurrent)/twiceTotal +
			resolution*nodeDegree*(currentDegree-nodeDegree-subDegrees[candidate])/
				(twiceTotal*twiceTotal)
		if accel.BetterMove(gain, candidate, bestGain, best, hasBest) {
			best = candidate
			bestGain = gain
			hasBest = true
		}
	}

	if !hasBest {
		return current, 0
	}
	return best, bestGain
}
