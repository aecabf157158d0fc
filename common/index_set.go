// package common contains the container primitives that are used throughout this engine. They are not
// interface-wrapped structs, just plain data structures shared by the drawable, animator, and draw2d layers.
package common

import (
	"iter"
	"math/bits"
)

const wordBits = 64

// IndexSet is a set of small non-negative integers backed by a bitmap plus a live count.
// Insert, Erase, Contains, and Clear are O(1) amortized; iteration visits members in
// ascending order and costs proportional to the highest index ever inserted, not to the
// full integer domain. Inserting a present member or erasing an absent one is a no-op,
// never an error — callers erase unconditionally on removal paths.
type IndexSet struct {
	// words is the bitmap, one bit per index; word = index/64, bit = index%64.
	words []uint64
	// count is the number of set bits, kept so Count is O(1).
	count int
}

// Insert adds index to the set. No-op if already present.
//
// Parameters:
//   - index: the non-negative index to add
func (s *IndexSet) Insert(index int) {
	word := index / wordBits
	if word >= len(s.words) {
		grown := make([]uint64, word+1)
		copy(grown, s.words)
		s.words = grown
	}
	mask := uint64(1) << (index % wordBits)
	if s.words[word]&mask == 0 {
		s.words[word] |= mask
		s.count++
	}
}

// Erase removes index from the set. No-op if not present.
//
// Parameters:
//   - index: the index to remove
func (s *IndexSet) Erase(index int) {
	word := index / wordBits
	if word >= len(s.words) {
		return
	}
	mask := uint64(1) << (index % wordBits)
	if s.words[word]&mask != 0 {
		s.words[word] &^= mask
		s.count--
	}
}

// Contains reports whether index is a member of the set.
//
// Parameters:
//   - index: the index to test
//
// Returns:
//   - bool: true if the index is present
func (s *IndexSet) Contains(index int) bool {
	word := index / wordBits
	if index < 0 || word >= len(s.words) {
		return false
	}
	return s.words[word]&(1<<(index%wordBits)) != 0
}

// Clear removes all members. The backing bitmap is retained to avoid reallocation.
func (s *IndexSet) Clear() {
	for i := range s.words {
		s.words[i] = 0
	}
	s.count = 0
}

// Count returns the number of members.
//
// Returns:
//   - int: the member count
func (s *IndexSet) Count() int {
	return s.count
}

// IsEmpty reports whether the set has no members.
//
// Returns:
//   - bool: true if the set is empty
func (s *IndexSet) IsEmpty() bool {
	return s.count == 0
}

// All iterates the members in ascending order. Consumers rely on the deterministic
// order when diffing change sets, so the iteration order is part of the contract.
//
// Returns:
//   - iter.Seq[int]: an ascending iterator over the members
func (s *IndexSet) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for w, word := range s.words {
			for word != 0 {
				bit := bits.TrailingZeros64(word)
				if !yield(w*wordBits + bit) {
					return
				}
				word &^= 1 << bit
			}
		}
	}
}

// Indices returns the members as an ascending slice. Convenience over All for
// callers that need a materialized snapshot.
//
// Returns:
//   - []int: the members in ascending order
func (s *IndexSet) Indices() []int {
	out := make([]int, 0, s.count)
	for i := range s.All() {
		out = append(out, i)
	}
	return out
}
