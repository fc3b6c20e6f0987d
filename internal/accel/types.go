// Package accel hosts the movement shard kernel and the acceleration
// backends that can replace it. The orchestrator selects one backend at
// startup; every backend must preserve the same observable partition.
package accel

import (
	"github.com/hit-leiden/internal/graph"
	"github.com/hit-leiden/pkg/collections"
)

// KernelViews are the read-only partition views a shard evaluates against.
// Nothing here may be written during a parallel round.
type KernelViews struct {
	Graph            *graph.CSR
	Community        []int
	Subcommunity     []int
	CommunityDegrees []float64
	TwiceTotalWeight float64
	Resolution       float64
}

// MoveRecord is one community reassignment emitted by a shard, applied
// sequentially by the main thread after the join.
type MoveRecord struct {
	Node   int
	Target int
}

// DegreeDelta is a commutative community-degree adjustment.
type DegreeDelta struct {
	Community int
	Delta     float64
}

// ShardResult carries a shard's move records and degree deltas back to the
// main thread for sequential application in shard index order.
type ShardResult struct {
	Moves        []MoveRecord
	DegreeDeltas []DegreeDelta
}

// Frontiers are the shared bitsets a shard writes during a round. Writes
// are idempotent atomic ORs; readers wait for the join barrier.
type Frontiers struct {
	Changed    *collections.SharedFrontier
	NextActive *collections.SharedFrontier
	Affected   *collections.SharedFrontier
}

// NewFrontiers creates the three shared frontiers for a level of n nodes.
func NewFrontiers(n int) *Frontiers {
	return &Frontiers{
		Changed:    collections.NewSharedFrontier(n),
		NextActive: collections.NewSharedFrontier(n),
		Affected:   collections.NewSharedFrontier(n),
	}
}

// Scratch is one worker's reusable move-evaluation state: a dense
// community-weight accumulator plus the dirty index list that bounds
// zeroing to O(degree) instead of O(n).
type Scratch struct {
	acc   []float64
	dirty []int
	mark  *collections.VersionedBitset
}

// NewScratch creates scratch state for a community id domain of size n.
func NewScratch(n int) *Scratch {
	return &Scratch{
		acc:   make([]float64, n),
		dirty: make([]int, 0, 64),
		mark:  collections.NewVersionedBitset(n),
	}
}

// Ensure grows the accumulator to cover a community id domain of size n.
func (s *Scratch) Ensure(n int) {
	if len(s.acc) < n {
		s.acc = append(s.acc, make([]float64, n-len(s.acc))...)
	}
}

// release zeroes only the dirty accumulator entries and resets the marks.
func (s *Scratch) release() {
	for _, c := range s.dirty {
		s.acc[c] = 0
	}
	s.dirty = s.dirty[:0]
	s.mark.Reset()
}

// ScratchPool owns one scratch slot per worker. Each worker indexes its
// slot exclusively via the worker id handed out by the fork-join split.
type ScratchPool struct {
	slots []*Scratch
}

// NewScratchPool allocates workers slots sized for n communities. The pool
// is allocated once per run and reused across all frontier rounds.
func NewScratchPool(workers, n int) *ScratchPool {
	if workers < 1 {
		workers = 1
	}
	slots := make([]*Scratch, workers)
	for i := range slots {
		slots[i] = NewScratch(n)
	}
	return &ScratchPool{slots: slots}
}

// Slot returns worker workerID's exclusively-owned scratch.
func (p *ScratchPool) Slot(workerID int) *Scratch {
	return p.slots[workerID]
}

// EnsureAll grows every slot to cover a community id domain of size n.
func (p *ScratchPool) EnsureAll(n int) {
	for _, s := range p.slots {
		s.Ensure(n)
	}
}

// Size returns the number of slots.
func (p *ScratchPool) Size() int {
	return len(p.slots)
}
