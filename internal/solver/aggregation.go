package solver

import (
	"sort"

	"github.com/hit-leiden/internal/graph"
	"github.com/hit-leiden/pkg/collections"
	"github.com/hit-leiden/pkg/model"
)

// ============================================================================
// Aggregation operator
// ============================================================================

// pairKey is a canonicalized supergraph edge endpoint pair. Post-relabel
// sub-community ids are sparse, so compression accumulates in a map.
type pairKey struct {
	u, v int
}

// compressEpsilon drops compressed supergraph edges whose summed weight
// cancels to nothing.
const compressEpsilon = 1e-9

// aggregation builds the next level's delta graph from the current delta
// and the refined set, and advances the previous sub-community mapping.
func aggregation(
	g *graph.CSR,
	delta *model.GraphInput,
	sPre, sCur []int,
	refined *collections.Bitset,
) (*model.GraphInput, []int) {
	acc := make(map[pairKey]float64, len(delta.Edges)+refined.Count()*2)
	add := func(u, v int, w float64) {
		if u > v {
			u, v = v, u
		}
		acc[pairKey{u, v}] += w
	}

	// Delta edges project onto their previous coarse endpoints.
	for _, e := range delta.Edges {
		add(sPre[e.U], sPre[e.V], e.WeightOr(1.0))
	}

	// Refined nodes retire each incident edge from its previous coarse
	// endpoint and post it to the new one. The predicate dedups against the
	// mirror pair; leftover duplicates cancel in compression.
	refined.Iterate(func(v int) bool {
		nbrs, ws := g.Neighbors(v)
		for i, u := range nbrs {
			if sCur[u] == sPre[u] || v < u {
				add(sPre[v], sPre[u], -ws[i])
				add(sCur[v], sCur[u], ws[i])
			}
		}
		return true
	})

	nextSPre := make([]int, len(sPre))
	copy(nextSPre, sPre)
	refined.Iterate(func(v int) bool {
		nextSPre[v] = sCur[v]
		return true
	})

	// Compress: sum by canonical endpoint pair, drop cancelled entries,
	// and emit in sorted order for deterministic replay.
	keys := make([]pairKey, 0, len(acc))
	for k, w := range acc {
		if w > compressEpsilon || w < -compressEpsilon {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].u != keys[j].u {
			return keys[i].u < keys[j].u
		}
		return keys[i].v < keys[j].v
	})

	edges := make([]model.Edge, 0, len(keys))
	for _, k := range keys {
		edges = append(edges, model.NewWeightedEdge(k.u, k.v, acc[k]))
	}

	nextNodeCount := 0
	for _, c := range sCur {
		if c+1 > nextNodeCount {
			nextNodeCount = c + 1
		}
	}
	for _, c := range sPre {
		if c+1 > nextNodeCount {
			nextNodeCount = c + 1
		}
	}

	return &model.GraphInput{
		DatasetID: delta.DatasetID,
		NodeCount: nextNodeCount,
		Edges:     edges,
	}, nextSPre
}
