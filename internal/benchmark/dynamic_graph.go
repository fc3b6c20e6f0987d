// Package benchmark builds dynamic-graph update schedules and measures the
// incremental solver against fresh baseline runs.
package benchmark

import (
	"fmt"
	"math/rand"

	"github.com/hit-leiden/pkg/model"
)

// IncrementalSplit is an initial graph plus a schedule of update batches.
type IncrementalSplit struct {
	InitialGraph  *model.GraphInput
	UpdateBatches []*model.GraphInput
	BatchSize     int
	Rounds        int
}

// DynamicGraphBuilder turns a static graph into a dynamically updated one
// by replaying its edges in seeded-shuffle order.
type DynamicGraphBuilder struct {
	allEdges  []model.Edge
	nodeCount int
}

// NewDynamicGraphBuilder creates a builder from a full graph.
func NewDynamicGraphBuilder(g *model.GraphInput) *DynamicGraphBuilder {
	edges := make([]model.Edge, len(g.Edges))
	copy(edges, g.Edges)
	return &DynamicGraphBuilder{
		allEdges:  edges,
		nodeCount: g.NodeCount,
	}
}

// Batches splits the shuffled edges into cumulative batches: batch i holds
// all edges of batches 0..i.
func (b *DynamicGraphBuilder) Batches(batchSize int, seed int64) []*model.GraphInput {
	if batchSize <= 0 {
		return nil
	}
	shuffled := b.shuffled(seed)

	var batches []*model.GraphInput
	for start, idx := 0, 0; start < len(shuffled); start, idx = start+batchSize, idx+1 {
		end := start + batchSize
		if end > len(shuffled) {
			end = len(shuffled)
		}
		cumulative := make([]model.Edge, end)
		copy(cumulative, shuffled[:end])
		batches = append(batches, &model.GraphInput{
			DatasetID: fmt.Sprintf("batch_%d", idx),
			NodeCount: b.nodeCount,
			Edges:     cumulative,
		})
	}
	return batches
}

// PaperSplit builds the paper's setup: an initial static graph from the
// first initialRatio of shuffled edges, then rounds update batches of
// batchSize edges each. Update batches carry only the newly added edges,
// matching the solver's incremental contract.
func (b *DynamicGraphBuilder) PaperSplit(initialRatio float64, batchSize, rounds int, seed int64) *IncrementalSplit {
	shuffled := b.shuffled(seed)

	if initialRatio < 0 {
		initialRatio = 0
	}
	if initialRatio > 1 {
		initialRatio = 1
	}
	initialCount := int(float64(len(shuffled)) * initialRatio)

	effectiveRounds := 0
	if batchSize > 0 {
		available := len(shuffled) - initialCount
		effectiveRounds = rounds
		if max := available / batchSize; effectiveRounds > max {
			effectiveRounds = max
		}
	}

	initial := make([]model.Edge, initialCount)
	copy(initial, shuffled[:initialCount])

	batches := make([]*model.GraphInput, 0, effectiveRounds)
	for round := 0; round < effectiveRounds; round++ {
		start := initialCount + round*batchSize
		batch := make([]model.Edge, batchSize)
		copy(batch, shuffled[start:start+batchSize])
		batches = append(batches, &model.GraphInput{
			DatasetID: fmt.Sprintf("paper_batch_%d", round),
			NodeCount: b.nodeCount,
			Edges:     batch,
		})
	}

	return &IncrementalSplit{
		InitialGraph: &model.GraphInput{
			DatasetID: "paper_initial",
			NodeCount: b.nodeCount,
			Edges:     initial,
		},
		UpdateBatches: batches,
		BatchSize:     batchSize,
		Rounds:        effectiveRounds,
	}
}

// shuffled returns a seeded deterministic permutation of the edges.
func (b *DynamicGraphBuilder) shuffled(seed int64) []model.Edge {
	shuffled := make([]model.Edge, len(b.allEdges))
	copy(shuffled, b.allEdges)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
