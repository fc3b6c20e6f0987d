// Package testutil provides graph fixtures and helpers shared by tests.
package testutil

import (
	"testing"

	"github.com/hit-leiden/pkg/model"
)

// PathGraph returns a simple path 0-1-...-(n-1) with unit weights.
func PathGraph(datasetID string, n int) *model.GraphInput {
	in := &model.GraphInput{DatasetID: datasetID, NodeCount: n}
	for i := 0; i+1 < n; i++ {
		in.Edges = append(in.Edges, model.NewEdge(i, i+1))
	}
	return in
}

// TwoTriangles returns two unit-weight triangles (0,1,2) and (3,4,5)
// joined by a weak bridge (2,3) of the given weight.
func TwoTriangles(datasetID string, bridgeWeight float64) *model.GraphInput {
	return &model.GraphInput{
		DatasetID: datasetID,
		NodeCount: 6,
		Edges: []model.Edge{
			model.NewWeightedEdge(0, 1, 1.0),
			model.NewWeightedEdge(1, 2, 1.0),
			model.NewWeightedEdge(2, 0, 1.0),
			model.NewWeightedEdge(3, 4, 1.0),
			model.NewWeightedEdge(4, 5, 1.0),
			model.NewWeightedEdge(5, 3, 1.0),
			model.NewWeightedEdge(2, 3, bridgeWeight),
		},
	}
}

// RingGraph returns a cycle over n nodes with unit weights.
func RingGraph(datasetID string, n int) *model.GraphInput {
	in := &model.GraphInput{DatasetID: datasetID, NodeCount: n}
	for i := 0; i < n; i++ {
		in.Edges = append(in.Edges, model.NewEdge(i, (i+1)%n))
	}
	return in
}

// PermuteGraph relabels a graph's nodes through the permutation perm,
// where perm[old] = new.
func PermuteGraph(in *model.GraphInput, perm []int) *model.GraphInput {
	out := &model.GraphInput{
		DatasetID: in.DatasetID + ":permuted",
		NodeCount: in.NodeCount,
	}
	for _, e := range in.Edges {
		out.Edges = append(out.Edges, model.Edge{U: perm[e.U], V: perm[e.V], Weight: e.Weight})
	}
	return out
}

// DistinctLabels returns the number of distinct values in the assignment.
func DistinctLabels(assignment []int) int {
	seen := make(map[int]struct{}, len(assignment))
	for _, c := range assignment {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// SamePartitionUpTo reports whether two assignments induce the same node
// grouping regardless of label values, with b read through the permutation
// perm (perm[aIndex] = bIndex).
func SamePartitionUpTo(t *testing.T, a, b []int, perm []int) bool {
	t.Helper()
	if len(a) != len(b) {
		return false
	}
	aToB := make(map[int]int)
	bToA := make(map[int]int)
	for v := range a {
		la, lb := a[v], b[perm[v]]
		if mapped, ok := aToB[la]; ok && mapped != lb {
			return false
		}
		if mapped, ok := bToA[lb]; ok && mapped != la {
			return false
		}
		aToB[la] = lb
		bToA[lb] = la
	}
	return true
}
