package solver

import (
	"github.com/hit-leiden/internal/graph"
)

// ============================================================================
// Partition quality
// ============================================================================

// Modularity computes the resolution-scaled modularity of a partition:
//
//	Q = sumIn/(2m) - gamma * sum_c D_c^2 / (2m)^2
//
// where sumIn counts each intra-community edge from both endpoints and D_c
// is community c's total weighted degree.
func Modularity(g *graph.CSR, community []int, gamma float64) float64 {
	m := g.TotalWeight()
	if m == 0 {
		return 0
	}
	twiceTotal := 2.0 * m

	commDegrees := make([]float64, maxCommunityID(community, g.NodeCount()))
	sumIn := 0.0
	for v := 0; v < g.NodeCount(); v++ {
		commDegrees[community[v]] += g.WeightedDegree(v)
		nbrs, ws := g.Neighbors(v)
		for i, u := range nbrs {
			if community[u] == community[v] {
				sumIn += ws[i]
			}
		}
	}

	expectation := 0.0
	for _, d := range commDegrees {
		expectation += d * d
	}

	return sumIn/twiceTotal - gamma*expectation/(twiceTotal*twiceTotal)
}

// CommunityCount returns the number of distinct community labels.
func CommunityCount(community []int) int {
	if len(community) == 0 {
		return 0
	}
	seen := make(map[int]struct{}, len(community))
	for _, c := range community {
		seen[c] = struct{}{}
	}
	return len(seen)
}
