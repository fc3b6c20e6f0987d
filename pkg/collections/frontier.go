package collections

import (
	"math/bits"
	"sync/atomic"
)

// ============================================================================
// SharedFrontier - Lock-free frontier bitset for parallel rounds
// ============================================================================

// paddedWord holds one 64-bit word on its own cache line so that workers
// writing adjacent index ranges never share a line.
type paddedWord struct {
	bits atomic.Uint64
	_    [56]byte
}

// SharedFrontier is a fixed-length bitset whose Set is safe under concurrent
// calls from many workers. Writes are idempotent atomic ORs with relaxed
// semantics; the join barrier at the end of a parallel round provides the
// synchronization, so no reader may observe bits before the round completes.
type SharedFrontier struct {
	words []paddedWord
	size  int
}

// NewSharedFrontier creates a frontier of fixed length size. A non-positive
// size yields a frontier of length 64.
func NewSharedFrontier(size int) *SharedFrontier {
	if size <= 0 {
		size = 64
	}
	numWords := (size + 63) / 64
	return &SharedFrontier{
		words: make([]paddedWord, numWords),
		size:  size,
	}
}

// Set sets the bit at index i. Safe under concurrent calls.
func (f *SharedFrontier) Set(i int) {
	if i < 0 || i >= f.size {
		return
	}
	f.words[i/64].bits.Or(1 << (i % 64))
}

// Test returns true if the bit at index i is set. Only valid outside a
// parallel round.
func (f *SharedFrontier) Test(i int) bool {
	if i < 0 || i >= f.size {
		return false
	}
	return f.words[i/64].bits.Load()&(1<<(i%64)) != 0
}

// Any reports whether any bit is set. Only valid outside a parallel round.
func (f *SharedFrontier) Any() bool {
	for i := range f.words {
		if f.words[i].bits.Load() != 0 {
			return true
		}
	}
	return false
}

// IterOnes calls fn for each set bit index in ascending order. Only valid
// outside a parallel round.
func (f *SharedFrontier) IterOnes(fn func(i int) bool) {
	for wordIdx := range f.words {
		word := f.words[wordIdx].bits.Load()
		if word == 0 {
			continue
		}
		base := wordIdx * 64
		for word != 0 {
			tz := bits.TrailingZeros64(word)
			if !fn(base + tz) {
				return
			}
			word &= word - 1
		}
	}
}

// Snapshot copies the frontier into a dense Bitset and clears the frontier,
// consuming the round's writes in one pass.
func (f *SharedFrontier) Snapshot() *Bitset {
	out := NewBitset(f.size)
	for wordIdx := range f.words {
		word := f.words[wordIdx].bits.Swap(0)
		if word != 0 && wordIdx < len(out.bits) {
			out.bits[wordIdx] = word
		}
	}
	return out
}

// SnapshotInto copies the frontier into dst (which must have the same size)
// and clears the frontier. Avoids allocating in the round loop.
func (f *SharedFrontier) SnapshotInto(dst *Bitset) {
	for wordIdx := range f.words {
		word := f.words[wordIdx].bits.Swap(0)
		if wordIdx < len(dst.bits) {
			dst.bits[wordIdx] = word
		}
	}
}

// MergeInto ORs the frontier's set bits into dst without clearing them.
func (f *SharedFrontier) MergeInto(dst *Bitset) {
	for wordIdx := range f.words {
		word := f.words[wordIdx].bits.Load()
		if word != 0 && wordIdx < len(dst.bits) {
			dst.bits[wordIdx] |= word
		}
	}
}

// Reset clears all bits.
func (f *SharedFrontier) Reset() {
	for i := range f.words {
		f.words[i].bits.Store(0)
	}
}

// Size returns the fixed length of the frontier.
func (f *SharedFrontier) Size() int {
	return f.size
}
