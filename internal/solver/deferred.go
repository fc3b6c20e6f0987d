package solver

import (
	"github.com/hit-leiden/pkg/collections"
)

// ============================================================================
// Deferred update
// ============================================================================

// deferredUpdate projects coarse assignments back down the hierarchy. For
// each level from the top: changed nodes pull their label from the next
// coarser level through the current sub-community mapping, then every
// preimage of a changed coarse node joins the level below's changed set.
func deferredUpdate(
	mappings [][]int,
	subcommunity [][]int,
	changed []*collections.Bitset,
	levels int,
) {
	for p := levels - 1; p >= 0; p-- {
		if p < levels-1 {
			coarse := mappings[p+1]
			changed[p].Iterate(func(v int) bool {
				sub := subcommunity[p][v]
				if sub < len(coarse) {
					mappings[p][v] = coarse[sub]
				}
				return true
			})
		}

		if p > 0 {
			// One sweep over the finer level collects every preimage of a
			// changed coarse node.
			finerSub := subcommunity[p-1]
			for u, sub := range finerSub {
				if changed[p].Test(sub) {
					changed[p-1].Set(u)
				}
			}
		}
	}
}
