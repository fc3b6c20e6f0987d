// Package partition holds the hierarchical partition state that persists
// between solver invocations.
package partition

import (
	"github.com/hit-leiden/internal/graph"
	"github.com/hit-leiden/pkg/errors"
)

// State is the persistent hierarchical partition. For P levels it carries
// the supergraph stack plus four parallel mapping arrays per level:
// community (f_p), refined community (g_p), and the current/previous
// sub-community assignments (s_cur_p / s_pre_p) that project updates to the
// next coarser level. All cross-level references are expressed as flat
// arrays indexed by level id, never as per-node parent pointers.
type State struct {
	Levels int

	// Supergraphs[0] is the input graph; Supergraphs[p+1] has at least
	// max(CurrSubcommunity[p] ∪ PrevSubcommunity[p])+1 nodes, and its node
	// count never shrinks across runs. Levels beyond what aggregation has
	// reached yet may be nil.
	Supergraphs []*graph.CSR

	CommunityMapping [][]int // f_p
	RefinedMapping   [][]int // g_p
	PrevSubcommunity [][]int // s_pre_p
	CurrSubcommunity [][]int // s_cur_p

	// NodeToCommunity aliases CommunityMapping[0] after every run.
	NodeToCommunity []int
}

// identityVec returns [0, 1, ..., n-1].
func identityVec(n int) []int {
	v := make([]int, n)
	for i := range v {
		v[i] = i
	}
	return v
}

// Identity creates a single-level state where every mapping is the identity.
func Identity(n int) *State {
	return IdentityWithLevels(n, 1)
}

// IdentityWithLevels creates a state with the given hierarchy depth. Level 0
// mappings are identity over n nodes; deeper levels start empty and are
// sized by aggregation as deltas reach them.
func IdentityWithLevels(n, levels int) *State {
	if levels < 1 {
		levels = 1
	}
	s := &State{
		Levels:           levels,
		Supergraphs:      make([]*graph.CSR, levels),
		CommunityMapping: make([][]int, levels),
		RefinedMapping:   make([][]int, levels),
		PrevSubcommunity: make([][]int, levels),
		CurrSubcommunity: make([][]int, levels),
	}
	s.CommunityMapping[0] = identityVec(n)
	s.RefinedMapping[0] = identityVec(n)
	s.PrevSubcommunity[0] = identityVec(n)
	s.CurrSubcommunity[0] = identityVec(n)
	s.NodeToCommunity = identityVec(n)
	return s
}

// NodeCount returns the node count of level p, zero for unseeded levels.
func (s *State) NodeCount(p int) int {
	if p < 0 || p >= s.Levels {
		return 0
	}
	return len(s.CommunityMapping[p])
}

// EnsureLevel extends level p's mappings with identity entries up to n
// nodes. New nodes are singletons mapped to themselves.
func (s *State) EnsureLevel(p, n int) {
	grow := func(m []int) []int {
		for i := len(m); i < n; i++ {
			m = append(m, i)
		}
		return m
	}
	s.CommunityMapping[p] = grow(s.CommunityMapping[p])
	s.RefinedMapping[p] = grow(s.RefinedMapping[p])
	s.PrevSubcommunity[p] = grow(s.PrevSubcommunity[p])
	s.CurrSubcommunity[p] = grow(s.CurrSubcommunity[p])
}

// Validate checks the structural invariants that must hold on entry and
// exit of every public operation.
func (s *State) Validate() error {
	if s.Levels < 1 {
		return errors.New(errors.CodeInvalidInput, "partition state must have at least one level")
	}
	if len(s.CommunityMapping) != s.Levels ||
		len(s.RefinedMapping) != s.Levels ||
		len(s.PrevSubcommunity) != s.Levels ||
		len(s.CurrSubcommunity) != s.Levels {
		return errors.New(errors.CodeInvalidInput, "mapping arrays must cover every level")
	}
	for p := 0; p < s.Levels; p++ {
		n := len(s.CommunityMapping[p])
		if len(s.RefinedMapping[p]) != n ||
			len(s.PrevSubcommunity[p]) != n ||
			len(s.CurrSubcommunity[p]) != n {
			return errors.Newf(errors.CodeInvalidInput, "level %d mapping lengths disagree", p)
		}
		for v := 0; v < n; v++ {
			if c := s.CommunityMapping[p][v]; c < 0 || c >= n {
				return errors.Newf(errors.CodeInvalidInput, "level %d community id out of range: %d", p, c)
			}
		}
	}
	if len(s.NodeToCommunity) != len(s.CommunityMapping[0]) {
		return errors.New(errors.CodeInvalidInput, "node_to_community length mismatch")
	}
	return nil
}

// MaxSubcommunity returns the largest id in s_cur at level p, -1 when empty.
func (s *State) MaxSubcommunity(p int) int {
	max := -1
	for _, c := range s.CurrSubcommunity[p] {
		if c > max {
			max = c
		}
	}
	return max
}
