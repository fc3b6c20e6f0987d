package solver

import (
	"context"

	"github.com/hit-leiden/internal/accel"
	"github.com/hit-leiden/internal/graph"
	"github.com/hit-leiden/pkg/collections"
	"github.com/hit-leiden/pkg/model"
	"github.com/hit-leiden/pkg/parallel"
)

// ============================================================================
// Movement operator
// ============================================================================

// movementResult carries the movement operator's outputs for one level.
type movementResult struct {
	changed  *collections.Bitset // nodes whose community changed
	affected *collections.Bitset // nodes whose sub-community neighborhood changed
	rounds   int
}

// maxCommunityID returns the size of the id domain the mapping references:
// one past its largest id, and never less than floor.
func maxCommunityID(mapping []int, floor int) int {
	max := floor
	for _, c := range mapping {
		if c+1 > max {
			max = c + 1
		}
	}
	return max
}

// movement runs the level-wise move loop: seed the active set from the
// delta graph, then evaluate moves until the frontier drains (deterministic)
// or the round budget is exhausted (throughput).
func (s *Solver) movement(
	ctx context.Context,
	g *graph.CSR,
	delta *model.GraphInput,
	community, subcommunity []int,
	pool *accel.ScratchPool,
) movementResult {
	n := g.NodeCount()
	res := movementResult{
		changed:  collections.NewBitset(n),
		affected: collections.NewBitset(n),
	}
	if n == 0 || g.TotalWeight() == 0 {
		// Empty graph or zero total weight: identity partition, nothing moves.
		return res
	}

	active := collections.NewBitset(n)
	for _, e := range delta.Edges {
		alpha := e.WeightOr(1.0)
		if alpha > 0 && community[e.U] != community[e.V] {
			active.Set(e.U)
			active.Set(e.V)
		}
		if alpha < 0 && community[e.U] == community[e.V] {
			active.Set(e.U)
			active.Set(e.V)
		}
		if subcommunity[e.U] == subcommunity[e.V] {
			res.affected.Set(e.U)
			res.affected.Set(e.V)
		}
	}
	// Cold start: with no delta the whole node set is active.
	if delta.IsEmpty() {
		for v := 0; v < n; v++ {
			active.Set(v)
		}
	}

	commDomain := maxCommunityID(community, n)
	communityDegrees := make([]float64, commDomain)
	for v := 0; v < n; v++ {
		communityDegrees[community[v]] += g.WeightedDegree(v)
	}
	pool.EnsureAll(commDomain)

	views := &accel.KernelViews{
		Graph:            g,
		Community:        community,
		Subcommunity:     subcommunity,
		CommunityDegrees: communityDegrees,
		TwiceTotalWeight: g.TotalWeight() * 2.0,
		Resolution:       s.resolution,
	}

	if s.mode == model.ModeThroughput {
		s.movementThroughput(ctx, views, active, pool, &res)
	} else {
		s.movementDeterministic(views, active, pool.Slot(0), &res)
	}
	return res
}

// movementDeterministic pops the smallest active id, evaluates it, and
// applies the move immediately so community degrees see each move before
// the next evaluation. This order is the deterministic tie-break reference.
func (s *Solver) movementDeterministic(
	views *accel.KernelViews,
	active *collections.Bitset,
	scratch *accel.Scratch,
	res *movementResult,
) {
	g := views.Graph
	community := views.Community
	subcommunity := views.Subcommunity

	for {
		v := active.NextSet(0)
		if v < 0 {
			break
		}
		active.Clear(v)
		res.rounds++

		best, gain := accel.EvaluateNode(v, views, scratch)
		if gain <= 0 || best == community[v] {
			continue
		}

		old := community[v]
		community[v] = best
		res.changed.Set(v)
		d := g.WeightedDegree(v)
		views.CommunityDegrees[old] -= d
		views.CommunityDegrees[best] += d

		nbrs, _ := g.Neighbors(v)
		for _, u := range nbrs {
			if community[u] != best {
				active.Set(u)
			}
			if subcommunity[v] == subcommunity[u] {
				res.affected.Set(v)
				res.affected.Set(u)
			}
		}
	}
}

// movementThroughput runs bulk-synchronous frontier rounds: the active set
// splits into one shard per worker, shards evaluate against the pre-round
// views and write frontier bits to the shared atomic bitsets, and the main
// thread applies the collected move records sequentially in shard index
// order after each join.
func (s *Solver) movementThroughput(
	ctx context.Context,
	views *accel.KernelViews,
	active *collections.Bitset,
	pool *accel.ScratchPool,
	res *movementResult,
) {
	n := views.Graph.NodeCount()
	frontiers := accel.NewFrontiers(n)
	proc := parallel.NewChunkProcessor[int, accel.ShardResult](
		parallel.DefaultPoolConfig().WithWorkers(pool.Size()))
	idsBuf := make([]int, 0, n)

	for active.Any() && res.rounds < s.maxIterations {
		res.rounds++
		ids := active.AppendTo(idsBuf[:0])

		results := proc.CollectChunks(ctx, ids,
			func(_ context.Context, chunk []int, workerID int) accel.ShardResult {
				return s.backend.MovementKernel(chunk, views, pool.Slot(workerID), frontiers)
			})

		// Shards partition the node set, so no two results move the same
		// node; degree deltas are commutative.
		for _, r := range results {
			for _, m := range r.Moves {
				views.Community[m.Node] = m.Target
			}
			for _, d := range r.DegreeDeltas {
				views.CommunityDegrees[d.Community] += d.Delta
			}
		}

		frontiers.Changed.MergeInto(res.changed)
		frontiers.Changed.Reset()
		frontiers.Affected.MergeInto(res.affected)
		frontiers.Affected.Reset()
		frontiers.NextActive.SnapshotInto(active)

		idsBuf = ids[:0]
	}
}
