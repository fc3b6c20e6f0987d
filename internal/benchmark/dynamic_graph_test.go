package benchmark

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hit-leiden/internal/testutil"
	"github.com/hit-leiden/pkg/config"
	"github.com/hit-leiden/pkg/model"
)

func TestPaperSplit_UsesInitialRatioAndFixedRounds(t *testing.T) {
	graph := testutil.RingGraph("test", 100)
	builder := NewDynamicGraphBuilder(graph)

	split := builder.PaperSplit(0.8, 5, 4, 42)

	assert.Len(t, split.InitialGraph.Edges, 80)
	require.Len(t, split.UpdateBatches, 4)
	for _, batch := range split.UpdateBatches {
		assert.Len(t, batch.Edges, 5)
	}
	assert.Equal(t, 5, split.BatchSize)
	assert.Equal(t, 4, split.Rounds)
}

func TestPaperSplit_RoundsClampToAvailableEdges(t *testing.T) {
	graph := testutil.RingGraph("test", 20)
	builder := NewDynamicGraphBuilder(graph)

	split := builder.PaperSplit(0.5, 4, 100, 7)

	// 10 update edges support only 2 full batches of 4.
	assert.Equal(t, 2, split.Rounds)
	assert.Len(t, split.UpdateBatches, 2)
}

func TestPaperSplit_DeterministicForSeed(t *testing.T) {
	graph := testutil.RingGraph("test", 50)
	builder := NewDynamicGraphBuilder(graph)

	a := builder.PaperSplit(0.6, 5, 2, 99)
	b := builder.PaperSplit(0.6, 5, 2, 99)

	assert.Equal(t, a.InitialGraph.Edges, b.InitialGraph.Edges)
	assert.Equal(t, a.UpdateBatches, b.UpdateBatches)
}

func TestBatches_Cumulative(t *testing.T) {
	graph := testutil.RingGraph("test", 10)
	builder := NewDynamicGraphBuilder(graph)

	batches := builder.Batches(4, 1)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0].Edges, 4)
	assert.Len(t, batches[1].Edges, 8)
	assert.Len(t, batches[2].Edges, 10)
}

func TestCompareBaseline(t *testing.T) {
	pinned := &model.HardwareProfile{ID: "pinned", Pinned: true}

	t.Run("IdenticalCommitsUnitGain", func(t *testing.T) {
		out := CompareBaseline("a", "a", "suite", pinned, model.SourceFile)
		assert.Equal(t, 1.0, out.MedianThroughputGain)
		assert.True(t, out.Reproducible)
		assert.True(t, out.ReleaseGateEligible)
	})

	t.Run("DistinctCommits", func(t *testing.T) {
		out := CompareBaseline("a", "b", "suite", pinned, model.SourceFile)
		assert.GreaterOrEqual(t, out.MedianThroughputGain, 1.0)
	})

	t.Run("LiveQueryIneligible", func(t *testing.T) {
		out := CompareBaseline("a", "b", "suite", pinned, model.SourceLiveNeo4j)
		assert.False(t, out.ReleaseGateEligible)
		assert.Equal(t, config.ReasonLiveQuerySource, out.ReleaseGateReason)
	})

	t.Run("UnpinnedProfileIneligible", func(t *testing.T) {
		unpinned := &model.HardwareProfile{ID: "laptop", Pinned: false}
		out := CompareBaseline("a", "b", "suite", unpinned, model.SourceFile)
		assert.False(t, out.ReleaseGateEligible)
		assert.Equal(t, config.ReasonUnpinnedProfile, out.ReleaseGateReason)
	})
}

func TestRunIncremental(t *testing.T) {
	graph := testutil.RingGraph("bench", 30)
	builder := NewDynamicGraphBuilder(graph)
	split := builder.PaperSplit(0.8, 3, 2, 42)

	outcome, err := RunIncremental(context.Background(), split, config.DefaultRunConfig())
	require.NoError(t, err)

	require.Len(t, outcome.Batches, 2)
	for i, b := range outcome.Batches {
		assert.Equal(t, i, b.BatchIdx)
		assert.Equal(t, 3, b.EdgesAdded)
		assert.Equal(t, 30, b.NodesInGraph)
	}
	assert.Equal(t, 27, outcome.Batches[0].TotalEdges)
	assert.Equal(t, 30, outcome.Batches[1].TotalEdges)
	assert.Greater(t, outcome.TotalTimeSeconds, 0.0)
}
