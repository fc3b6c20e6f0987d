// Package collections provides the dense and concurrent bit structures the
// solver's frontiers and visited sets are built on.
package collections

import (
	"math/bits"
)

// ============================================================================
// Bitset - fixed-length dense boolean set over node ids
// ============================================================================

// Bitset is a fixed-length boolean set over the id range [0, size). The
// solver uses it for frontiers, changed/affected/refined sets and as an
// ascending priority set (NextSet + Clear pops the smallest id). Out-of-range
// indices are ignored rather than grown: a level's id domain is fixed for
// the duration of a run.
type Bitset struct {
	bits []uint64
	size int
}

// NewBitset creates a bitset of fixed length size.
func NewBitset(size int) *Bitset {
	if size < 0 {
		size = 0
	}
	return &Bitset{
		bits: make([]uint64, (size+63)/64),
		size: size,
	}
}

// Set sets the bit at index i. Indices outside [0, size) are ignored.
func (b *Bitset) Set(i int) {
	if i < 0 || i >= b.size {
		return
	}
	b.bits[i>>6] |= 1 << (i & 63)
}

// Clear clears the bit at index i.
func (b *Bitset) Clear(i int) {
	if i < 0 || i >= b.size {
		return
	}
	b.bits[i>>6] &^= 1 << (i & 63)
}

// Test returns true if the bit at index i is set.
func (b *Bitset) Test(i int) bool {
	if i < 0 || i >= b.size {
		return false
	}
	return b.bits[i>>6]&(1<<(i&63)) != 0
}

// Any returns true if any bit is set.
func (b *Bitset) Any() bool {
	for _, word := range b.bits {
		if word != 0 {
			return true
		}
	}
	return false
}

// Count returns the number of set bits.
func (b *Bitset) Count() int {
	count := 0
	for _, word := range b.bits {
		count += bits.OnesCount64(word)
	}
	return count
}

// Size returns the fixed length of the bitset.
func (b *Bitset) Size() int {
	return b.size
}

// NextSet returns the index of the first set bit at or after from,
// or -1 if no such bit exists. Iterating NextSet yields ascending order,
// which makes a Bitset usable as a priority set over node ids.
func (b *Bitset) NextSet(from int) int {
	if from < 0 {
		from = 0
	}
	wordIdx := from >> 6
	if wordIdx >= len(b.bits) {
		return -1
	}
	// Mask off bits below from in the first word.
	word := b.bits[wordIdx] &^ ((1 << (from & 63)) - 1)
	for {
		if word != 0 {
			return wordIdx<<6 + bits.TrailingZeros64(word)
		}
		wordIdx++
		if wordIdx >= len(b.bits) {
			return -1
		}
		word = b.bits[wordIdx]
	}
}

// Iterate calls fn for each set bit index in ascending order.
func (b *Bitset) Iterate(fn func(i int) bool) {
	for wordIdx, word := range b.bits {
		base := wordIdx << 6
		for word != 0 {
			tz := bits.TrailingZeros64(word)
			if !fn(base + tz) {
				return
			}
			word &= word - 1
		}
	}
}

// ToSlice returns a slice of all set bit indices in ascending order.
func (b *Bitset) ToSlice() []int {
	return b.AppendTo(make([]int, 0, b.Count()))
}

// AppendTo appends all set bit indices to dst in ascending order and
// returns the extended slice. Used to reuse a scratch slice across rounds.
func (b *Bitset) AppendTo(dst []int) []int {
	b.Iterate(func(i int) bool {
		dst = append(dst, i)
		return true
	})
	return dst
}

// ============================================================================
// VersionedBitset - visited tracking with O(1) reset
// ============================================================================

// VersionedBitset marks membership by stamping each index with the current
// epoch, so clearing between BFS traversals or kernel evaluations is a
// single increment instead of an O(n) wipe. Unlike Bitset it grows on
// demand: refinement hands out fresh sub-community ids past the level's
// node count and the dirty-mark set must follow them.
type VersionedBitset struct {
	stamps []uint32
	epoch  uint32
}

// NewVersionedBitset creates a versioned bitset covering [0, size).
func NewVersionedBitset(size int) *VersionedBitset {
	if size < 1 {
		size = 1
	}
	return &VersionedBitset{
		stamps: make([]uint32, size),
		epoch:  1,
	}
}

// Set marks index i in the current epoch, growing if needed.
func (v *VersionedBitset) Set(i int) {
	if i < 0 {
		return
	}
	if i >= len(v.stamps) {
		grown := make([]uint32, max(i+1, len(v.stamps)*2))
		copy(grown, v.stamps)
		v.stamps = grown
	}
	v.stamps[i] = v.epoch
}

// Test returns true if index i was marked in the current epoch.
func (v *VersionedBitset) Test(i int) bool {
	return i >= 0 && i < len(v.stamps) && v.stamps[i] == v.epoch
}

// Reset clears the set by advancing the epoch. O(1) except on wraparound,
// where the stamps are wiped for real.
func (v *VersionedBitset) Reset() {
	v.epoch++
	if v.epoch == 0 {
		clear(v.stamps)
		v.epoch = 1
	}
}

// Size returns the current capacity.
func (v *VersionedBitset) Size() int {
	return len(v.stamps)
}
