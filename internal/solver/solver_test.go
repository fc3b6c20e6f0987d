package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hit-leiden/internal/graph"
	"github.com/hit-leiden/internal/partition"
	"github.com/hit-leiden/internal/testutil"
	"github.com/hit-leiden/internal/validation"
	"github.com/hit-leiden/pkg/config"
	"github.com/hit-leiden/pkg/errors"
	"github.com/hit-leiden/pkg/model"
)

func deterministicConfig() *config.RunConfig {
	return config.DefaultRunConfig()
}

func throughputConfig() *config.RunConfig {
	cfg := config.DefaultRunConfig()
	cfg.Mode = "throughput"
	return cfg
}

func TestRun_PathGraphValidatesAgainstItself(t *testing.T) {
	graph := testutil.PathGraph("d1", 3)

	out, _, err := Run(context.Background(), graph, deterministicConfig())
	require.NoError(t, err)
	require.NotNil(t, out.Partition)

	report := validation.Validate(out, out, model.ModeDeterministic, 0.001)
	assert.True(t, report.HardInvariantsPassed)
	assert.True(t, report.EquivalencePassed)
	require.NotNil(t, report.DeterministicIdentityPassed)
	assert.True(t, *report.DeterministicIdentityPassed)
}

func TestRun_PartitionRangeAndLength(t *testing.T) {
	graph := testutil.TwoTriangles("range", 0.05)

	out, _, err := Run(context.Background(), graph, deterministicConfig())
	require.NoError(t, err)

	assignments := out.Partition.NodeToCommunity
	require.Len(t, assignments, graph.NodeCount)
	for v, c := range assignments {
		assert.GreaterOrEqual(t, c, 0, "node %d", v)
		assert.Less(t, c, graph.NodeCount, "node %d", v)
	}
}

func TestRun_MergesTwoTriangles(t *testing.T) {
	graph := testutil.TwoTriangles("connected-1", 0.05)

	out, _, err := Run(context.Background(), graph, deterministicConfig())
	require.NoError(t, err)

	distinct := testutil.DistinctLabels(out.Partition.NodeToCommunity)
	assert.Less(t, distinct, graph.NodeCount,
		"algorithm should merge at least one pair of nodes")
	assert.Equal(t, distinct, out.Partition.CommunityCount)
	assert.Greater(t, out.Partition.QualityScore, 0.0)
}

func TestRun_DeterministicReplayIdentity(t *testing.T) {
	graph := &model.GraphInput{
		DatasetID: "d2",
		NodeCount: 4,
		Edges:     []model.Edge{model.NewEdge(0, 1), model.NewEdge(2, 3)},
	}
	cfg := deterministicConfig()

	a, _, err := Run(context.Background(), graph, cfg)
	require.NoError(t, err)
	b, _, err := Run(context.Background(), graph, cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Partition.NodeToCommunity, b.Partition.NodeToCommunity)
	assert.Equal(t, a.Partition.QualityScore, b.Partition.QualityScore)
}

func TestRun_ThroughputEquivalence(t *testing.T) {
	graph := &model.GraphInput{
		DatasetID: "d3",
		NodeCount: 2,
		Edges:     []model.Edge{model.NewWeightedEdge(0, 1, 1.0)},
	}
	cfg := throughputConfig()

	a, _, err := Run(context.Background(), graph, cfg)
	require.NoError(t, err)
	b, _, err := Run(context.Background(), graph, cfg)
	require.NoError(t, err)

	report := validation.Validate(a, b, model.ModeThroughput, cfg.QualityTolerance)
	assert.True(t, report.HardInvariantsPassed)
	assert.True(t, report.EquivalencePassed)
}

func TestRun_ThroughputDeterminismBound(t *testing.T) {
	graph := testutil.TwoTriangles("bound", 0.05)

	det, _, err := Run(context.Background(), graph, deterministicConfig())
	require.NoError(t, err)
	tp, _, err := Run(context.Background(), graph, throughputConfig())
	require.NoError(t, err)

	// Both partitions must satisfy the hard invariants regardless of how
	// the frontier rounds interleaved, and their quality may differ by at
	// most the configured tolerance.
	assert.True(t, validation.CheckInvariants(det))
	assert.True(t, validation.CheckInvariants(tp))
	assert.InDelta(t, det.Partition.QualityScore, tp.Partition.QualityScore,
		deterministicConfig().QualityTolerance)
}

func TestRun_IdempotentOnEmptyDelta(t *testing.T) {
	ctx := context.Background()
	graph := testutil.TwoTriangles("idem", 0.05)

	s, err := New(deterministicConfig())
	require.NoError(t, err)

	state := partition.Identity(graph.NodeCount)
	first, err := s.Run(ctx, graph, state)
	require.NoError(t, err)

	empty := &model.GraphInput{DatasetID: "idem", NodeCount: graph.NodeCount}
	second, err := s.Run(ctx, empty, state)
	require.NoError(t, err)
	third, err := s.Run(ctx, empty, state)
	require.NoError(t, err)

	assert.Equal(t, first.Partition.NodeToCommunity, second.Partition.NodeToCommunity)
	assert.Equal(t, second.Partition.NodeToCommunity, third.Partition.NodeToCommunity)
	assert.Equal(t, second.Partition.QualityScore, third.Partition.QualityScore)
}

func TestRun_IncrementalEquivalence(t *testing.T) {
	ctx := context.Background()

	// G0: two triangles without the bridge; B: the bridge edge.
	g0 := testutil.TwoTriangles("inc", 0.05)
	g0.Edges = g0.Edges[:6]
	batch := &model.GraphInput{
		DatasetID: "inc",
		NodeCount: 6,
		Edges:     []model.Edge{model.NewWeightedEdge(2, 3, 0.05)},
	}

	s, err := New(deterministicConfig())
	require.NoError(t, err)

	state := partition.Identity(6)
	_, err = s.Run(ctx, g0, state)
	require.NoError(t, err)
	incremental, err := s.Run(ctx, batch, state)
	require.NoError(t, err)

	fresh, _, err := Run(ctx, testutil.TwoTriangles("inc", 0.05), deterministicConfig())
	require.NoError(t, err)

	assert.InDelta(t, fresh.Partition.QualityScore, incremental.Partition.QualityScore, 0.001)
	assert.Equal(t, fresh.Partition.CommunityCount, incremental.Partition.CommunityCount)
}

func TestRun_EdgeRemovalSplitsCommunities(t *testing.T) {
	ctx := context.Background()

	// A path 0-1-2-3 settles into {0,1} and {2,3}; after the middle edge
	// is deleted the two halves must still be apart.
	g0 := testutil.PathGraph("del", 4)
	s, err := New(deterministicConfig())
	require.NoError(t, err)

	state := partition.Identity(4)
	first, err := s.Run(ctx, g0, state)
	require.NoError(t, err)
	require.Less(t, testutil.DistinctLabels(first.Partition.NodeToCommunity), 4)

	removal := &model.GraphInput{
		DatasetID: "del",
		NodeCount: 4,
		Edges:     []model.Edge{model.NewWeightedEdge(1, 2, -1.0)},
	}
	second, err := s.Run(ctx, removal, state)
	require.NoError(t, err)

	assignments := second.Partition.NodeToCommunity
	assert.NotEqual(t, assignments[0], assignments[3],
		"severed halves must not share a community")
}

func TestRun_InvarianceUnderRelabel(t *testing.T) {
	ctx := context.Background()
	graph := testutil.TwoTriangles("perm", 0.05)
	perm := []int{5, 4, 3, 2, 1, 0}
	permuted := testutil.PermuteGraph(graph, perm)

	a, _, err := Run(ctx, graph, deterministicConfig())
	require.NoError(t, err)
	b, _, err := Run(ctx, permuted, deterministicConfig())
	require.NoError(t, err)

	assert.True(t, testutil.SamePartitionUpTo(t,
		a.Partition.NodeToCommunity, b.Partition.NodeToCommunity, perm))
}

func TestRun_EmptyGraphSucceedsWithIdentity(t *testing.T) {
	out, _, err := Run(context.Background(), model.EmptyGraph("empty"), deterministicConfig())
	require.NoError(t, err)

	assert.Equal(t, model.StatusSucceeded, out.Execution.Status)
	assert.Empty(t, out.Partition.NodeToCommunity)
	assert.Equal(t, 0.0, out.Partition.QualityScore)
}

func TestRun_ZeroWeightGraphKeepsIdentity(t *testing.T) {
	graph := &model.GraphInput{DatasetID: "isolated", NodeCount: 5}

	out, _, err := Run(context.Background(), graph, deterministicConfig())
	require.NoError(t, err)

	assert.Equal(t, model.StatusSucceeded, out.Execution.Status)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, out.Partition.NodeToCommunity)
	assert.Equal(t, 5, out.Partition.CommunityCount)
}

func TestRun_EndpointOutOfRange(t *testing.T) {
	graph := &model.GraphInput{
		DatasetID: "bad",
		NodeCount: 2,
		Edges:     []model.Edge{model.NewEdge(0, 2)},
	}

	_, _, err := Run(context.Background(), graph, deterministicConfig())
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
	assert.Contains(t, err.Error(), "edge endpoint exceeds node_count")
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := deterministicConfig()
	cfg.MaxIterations = 0

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestRun_CudaFallbackMetadata(t *testing.T) {
	cfg := deterministicConfig()
	cfg.Acceleration = "cuda"

	out, _, err := Run(context.Background(), testutil.PathGraph("cuda", 3), cfg)
	require.NoError(t, err)

	assert.Equal(t, model.AccelPureGo, out.Execution.Resolution.AccelResolved)
	assert.Equal(t, config.ReasonAccelUnavailable, out.Execution.FallbackReason)
	assert.Equal(t, model.StatusSucceeded, out.Execution.Status)
}

func TestRun_AcceleratedRunMatchesPureGo(t *testing.T) {
	graph := testutil.TwoTriangles("parity", 0.05)

	cpu, _, err := Run(context.Background(), graph, deterministicConfig())
	require.NoError(t, err)

	cfg := deterministicConfig()
	cfg.Acceleration = "rocm"
	gpu, _, err := Run(context.Background(), graph, cfg)
	require.NoError(t, err)

	assert.Equal(t, cpu.Partition.NodeToCommunity, gpu.Partition.NodeToCommunity)
}

func TestRun_MmapBackendParity(t *testing.T) {
	graph := testutil.PathGraph("m1", 3)

	mem, _, err := Run(context.Background(), graph, deterministicConfig())
	require.NoError(t, err)

	cfg := deterministicConfig()
	cfg.GraphBackend = "mmap"
	mmap, _, err := Run(context.Background(), graph, cfg)
	require.NoError(t, err)

	assert.Equal(t, mem.Partition.NodeToCommunity, mmap.Partition.NodeToCommunity)
	assert.Equal(t, mem.Partition.QualityScore, mmap.Partition.QualityScore)
}

func TestRun_TwoLevelHierarchy(t *testing.T) {
	ctx := context.Background()
	graph := testutil.TwoTriangles("levels", 0.05)

	s, err := New(deterministicConfig())
	require.NoError(t, err)

	state := partition.IdentityWithLevels(graph.NodeCount, 2)
	out, err := s.Run(ctx, graph, state)
	require.NoError(t, err)

	assert.True(t, validation.CheckInvariants(out))
	assert.Less(t, testutil.DistinctLabels(out.Partition.NodeToCommunity), graph.NodeCount)
	require.NotNil(t, state.Supergraphs[1])
	require.NoError(t, state.Validate())

	// The coarse level's node count is one past the largest level-0
	// sub-community id.
	assert.Equal(t, state.MaxSubcommunity(0)+1, len(state.CommunityMapping[1]))
}

func TestModularity(t *testing.T) {
	csr := graph.FromInput(testutil.TwoTriangles("q", 0.05))

	grouped := []int{0, 0, 0, 3, 3, 3}
	singletons := []int{0, 1, 2, 3, 4, 5}

	qGrouped := Modularity(csr, grouped, 1.0)
	qSingle := Modularity(csr, singletons, 1.0)
	assert.Greater(t, qGrouped, qSingle)
}

func TestCommunityCount(t *testing.T) {
	assert.Equal(t, 0, CommunityCount(nil))
	assert.Equal(t, 2, CommunityCount([]int{1, 1, 3, 3}))
	assert.Equal(t, 1, CommunityCount([]int{7, 7, 7}))
}
