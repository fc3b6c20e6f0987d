// Package graph provides the compressed sparse row representation of the
// weighted undirected graph and its backends and sources.
package graph

import (
	"sort"

	"github.com/hit-leiden/pkg/model"
)

// CSR is the immutable compressed sparse row form of a weighted undirected
// graph. Both endpoints of every undirected edge appear in the other's
// adjacency slice. Read-only during a run.
type CSR struct {
	nodeCount       int
	offsets         []int
	neighbors       []int
	weights         []float64
	degrees         []int     // offsets[i+1]-offsets[i], precomputed for single-load queries
	weightedDegrees []float64 // sum of incident edge weights per node
	totalWeight     float64   // sum of weights / 2, cached
}

// FromInput builds a CSR graph from an input graph in one counting-sort pass.
func FromInput(in *model.GraphInput) *CSR {
	n := in.NodeCount
	degrees := make([]int, n)
	for _, e := range in.Edges {
		degrees[e.U]++
		degrees[e.V]++
	}

	offsets := make([]int, n+1)
	for i := 0; i < n; i++ {
		offsets[i+1] = offsets[i] + degrees[i]
	}

	total := offsets[n]
	neighbors := make([]int, total)
	weights := make([]float64, total)
	cursor := make([]int, n)
	copy(cursor, offsets[:n])

	for _, e := range in.Edges {
		w := e.WeightOr(1.0)

		neighbors[cursor[e.U]] = e.V
		weights[cursor[e.U]] = w
		cursor[e.U]++

		neighbors[cursor[e.V]] = e.U
		weights[cursor[e.V]] = w
		cursor[e.V]++
	}

	weightedDegrees := make([]float64, n)
	var weightSum float64
	for v := 0; v < n; v++ {
		var d float64
		for i := offsets[v]; i < offsets[v+1]; i++ {
			d += weights[i]
		}
		weightedDegrees[v] = d
		weightSum += d
	}

	return &CSR{
		nodeCount:       n,
		offsets:         offsets,
		neighbors:       neighbors,
		weights:         weights,
		degrees:         degrees,
		weightedDegrees: weightedDegrees,
		totalWeight:     weightSum / 2.0,
	}
}

// NodeCount returns the number of nodes.
func (g *CSR) NodeCount() int {
	return g.nodeCount
}

// Degree returns node v's neighbor count in O(1).
func (g *CSR) Degree(v int) int {
	return g.degrees[v]
}

// WeightedDegree returns the sum of edge weights incident to v in O(1).
func (g *CSR) WeightedDegree(v int) float64 {
	return g.weightedDegrees[v]
}

// TotalWeight returns the cached total edge weight (sum of weights / 2).
func (g *CSR) TotalWeight() float64 {
	return g.totalWeight
}

// Neighbors returns node v's neighbor ids and weights as zero-copy views
// of length Degree(v), in insertion order.
func (g *CSR) Neighbors(v int) ([]int, []float64) {
	start := g.offsets[v]
	end := start + g.degrees[v]
	return g.neighbors[start:end], g.weights[start:end]
}

// edgeKey is a canonicalized undirected edge endpoint pair.
type edgeKey struct {
	U, V int
}

// weightEpsilon is the threshold below which a merged edge weight is
// treated as fully deleted.
const weightEpsilon = 1e-9

// FromDelta builds a CSR graph from a delta alone, dropping edges whose
// summed weight is not positive. An aggregated delta can carry residual
// retirements for edges that never materialized at its level.
func FromDelta(delta *model.GraphInput) *CSR {
	return ApplyDelta(FromInput(&model.GraphInput{DatasetID: delta.DatasetID}), delta)
}

// ApplyDelta merges a delta graph into an existing CSR graph (G ⊕ ΔG) and
// returns the new graph. Positive delta weights insert or reinforce edges;
// negative weights retire previously inserted weight. Edges whose summed
// weight falls to weightEpsilon or below are dropped. The node count extends
// to cover the delta's.
func ApplyDelta(g *CSR, delta *model.GraphInput) *CSR {
	n := g.nodeCount
	if delta.NodeCount > n {
		n = delta.NodeCount
	}

	merged := make(map[edgeKey]float64, len(g.neighbors)/2+len(delta.Edges))
	for v := 0; v < g.nodeCount; v++ {
		nbrs, ws := g.Neighbors(v)
		for i, u := range nbrs {
			switch {
			case v < u:
				merged[edgeKey{v, u}] += ws[i]
			case v == u:
				// Self loops appear twice in their own adjacency row.
				merged[edgeKey{v, v}] += ws[i] / 2.0
			}
		}
	}
	for _, e := range delta.Edges {
		u, v := e.U, e.V
		if u > v {
			u, v = v, u
		}
		merged[edgeKey{u, v}] += e.WeightOr(1.0)
	}

	keys := make([]edgeKey, 0, len(merged))
	for k, w := range merged {
		if w > weightEpsilon {
			keys = append(keys, k)
		}
	}
	// Stable edge order keeps deterministic replays bit-identical.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].U != keys[j].U {
			return keys[i].U < keys[j].U
		}
		return keys[i].V < keys[j].V
	})

	edges := make([]model.Edge, 0, len(keys))
	for _, k := range keys {
		edges = append(edges, model.NewWeightedEdge(k.U, k.V, merged[k]))
	}

	return FromInput(&model.GraphInput{
		DatasetID: delta.DatasetID,
		NodeCount: n,
		Edges:     edges,
	})
}
