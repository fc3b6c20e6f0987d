package graph

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hit-leiden/pkg/model"
)

func triangleInput() *model.GraphInput {
	return &model.GraphInput{
		DatasetID: "triangle",
		NodeCount: 3,
		Edges: []model.Edge{
			model.NewEdge(0, 1),
			model.NewWeightedEdge(1, 2, 2.0),
			model.NewWeightedEdge(2, 0, 0.5),
		},
	}
}

func TestFromInput_Shape(t *testing.T) {
	g := FromInput(triangleInput())

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.Degree(0))
	assert.Equal(t, 2, g.Degree(1))
	assert.Equal(t, 2, g.Degree(2))
	assert.InDelta(t, 3.5, g.TotalWeight(), 1e-12)

	assert.InDelta(t, 1.5, g.WeightedDegree(0), 1e-12)
	assert.InDelta(t, 3.0, g.WeightedDegree(1), 1e-12)
	assert.InDelta(t, 2.5, g.WeightedDegree(2), 1e-12)

	// Both endpoints of every edge appear in the other's adjacency.
	nbrs, ws := g.Neighbors(0)
	require.Len(t, nbrs, 2)
	assert.Equal(t, []int{1, 2}, nbrs)
	assert.InDelta(t, 1.0, ws[0], 1e-12)
	assert.InDelta(t, 0.5, ws[1], 1e-12)
}

func TestFromInput_MissingWeightDefaultsToOne(t *testing.T) {
	g := FromInput(&model.GraphInput{
		DatasetID: "pair",
		NodeCount: 2,
		Edges:     []model.Edge{model.NewEdge(0, 1)},
	})
	assert.InDelta(t, 1.0, g.TotalWeight(), 1e-12)
}

func TestFromInput_Empty(t *testing.T) {
	g := FromInput(model.EmptyGraph("empty"))
	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0.0, g.TotalWeight())
}

func TestApplyDelta_Insertion(t *testing.T) {
	g := FromInput(triangleInput())

	delta := &model.GraphInput{
		DatasetID: "triangle:delta",
		NodeCount: 4,
		Edges:     []model.Edge{model.NewWeightedEdge(2, 3, 1.5)},
	}
	merged := ApplyDelta(g, delta)

	assert.Equal(t, 4, merged.NodeCount())
	assert.InDelta(t, 5.0, merged.TotalWeight(), 1e-12)
	assert.Equal(t, 3, merged.Degree(2))
	assert.Equal(t, 1, merged.Degree(3))
}

func TestApplyDelta_Reinforcement(t *testing.T) {
	g := FromInput(triangleInput())

	delta := &model.GraphInput{
		DatasetID: "triangle:delta",
		NodeCount: 3,
		Edges:     []model.Edge{model.NewWeightedEdge(0, 1, 0.5)},
	}
	merged := ApplyDelta(g, delta)

	assert.Equal(t, 2, merged.Degree(0))
	assert.InDelta(t, 4.0, merged.TotalWeight(), 1e-12)
}

func TestApplyDelta_Deletion(t *testing.T) {
	g := FromInput(triangleInput())

	delta := &model.GraphInput{
		DatasetID: "triangle:delta",
		NodeCount: 3,
		Edges:     []model.Edge{model.NewWeightedEdge(2, 0, -0.5)},
	}
	merged := ApplyDelta(g, delta)

	// The (0,2) edge cancels away entirely.
	assert.Equal(t, 1, merged.Degree(0))
	assert.Equal(t, 1, merged.Degree(2))
	assert.InDelta(t, 3.0, merged.TotalWeight(), 1e-12)
}

func TestApplyDelta_EmptyDeltaKeepsEdges(t *testing.T) {
	g := FromInput(triangleInput())
	merged := ApplyDelta(g, model.EmptyGraph("noop"))

	assert.Equal(t, g.NodeCount(), merged.NodeCount())
	assert.InDelta(t, g.TotalWeight(), merged.TotalWeight(), 1e-12)
}

func TestCSR_CodecRoundTrip(t *testing.T) {
	g := FromInput(triangleInput())

	var buf bytes.Buffer
	require.NoError(t, g.Encode(&buf))

	decoded, err := DecodeCSR(&buf)
	require.NoError(t, err)

	assert.Equal(t, g.NodeCount(), decoded.NodeCount())
	assert.InDelta(t, g.TotalWeight(), decoded.TotalWeight(), 1e-12)
	for v := 0; v < g.NodeCount(); v++ {
		assert.Equal(t, g.Degree(v), decoded.Degree(v))
		assert.InDelta(t, g.WeightedDegree(v), decoded.WeightedDegree(v), 1e-12)

		wantN, wantW := g.Neighbors(v)
		gotN, gotW := decoded.Neighbors(v)
		assert.Equal(t, wantN, gotN)
		assert.Equal(t, wantW, gotW)
	}
}

func TestNewMmapGraph_SameObservableGraph(t *testing.T) {
	in := triangleInput()
	mem := FromInput(in)

	mg, err := NewMmapGraph(in)
	require.NoError(t, err)
	defer mg.Close()

	assert.Equal(t, mem.NodeCount(), mg.NodeCount())
	assert.InDelta(t, mem.TotalWeight(), mg.TotalWeight(), 1e-12)
	for v := 0; v < mem.NodeCount(); v++ {
		wantN, wantW := mem.Neighbors(v)
		gotN, gotW := mg.Neighbors(v)
		assert.Equal(t, wantN, gotN)
		assert.Equal(t, wantW, gotW)
	}
}
