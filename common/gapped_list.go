package common

import (
	"container/heap"
	"fmt"
	"iter"
)

// GappedList is a growable slotted array that owns its elements. Removed slots become
// gaps tracked in a min-heap of freed indices and are refilled on the next Push, so
// live entries keep stable indices and reused indices trend toward the low end. This
// bounds capacity to roughly the historical peak live count rather than the cumulative
// insert count, keeping iteration and any parallel dense arrays compact.
type GappedList[E any] struct {
	slots    []E
	occupied IndexSet
	free     indexHeap
}

// Push stores element in the lowest free slot, or appends a new slot if none is free.
//
// Parameters:
//   - element: the element to store
//
// Returns:
//   - int: the index assigned to the element, stable until Pop
func (l *GappedList[E]) Push(element E) int {
	var index int
	if l.free.Len() > 0 {
		index = heap.Pop(&l.free).(int)
	} else {
		index = len(l.slots)
		var zero E
		l.slots = append(l.slots, zero)
	}
	l.slots[index] = element
	l.occupied.Insert(index)
	return index
}

// Pop frees the slot at index and returns the moved-out element. The index becomes
// eligible for reuse by the next Push. Panics if the slot is not occupied.
//
// Parameters:
//   - index: the occupied slot to free
//
// Returns:
//   - E: the element that occupied the slot
func (l *GappedList[E]) Pop(index int) E {
	l.check(index)
	element := l.slots[index]
	var zero E
	l.slots[index] = zero
	l.occupied.Erase(index)
	heap.Push(&l.free, index)
	return element
}

// Get returns the element at index. Panics on out-of-range or gap access — both
// indicate a stale handle, which is a caller bug rather than a recoverable state.
//
// Parameters:
//   - index: the occupied slot to read
//
// Returns:
//   - E: the element at the slot
func (l *GappedList[E]) Get(index int) E {
	l.check(index)
	return l.slots[index]
}

// Set overwrites the element at an occupied slot. Panics on gap access.
//
// Parameters:
//   - index: the occupied slot to overwrite
//   - element: the new element
func (l *GappedList[E]) Set(index int, element E) {
	l.check(index)
	l.slots[index] = element
}

// Contains reports whether index refers to an occupied slot.
//
// Parameters:
//   - index: the index to test
//
// Returns:
//   - bool: true if the slot is occupied
func (l *GappedList[E]) Contains(index int) bool {
	return l.occupied.Contains(index)
}

// Count returns the number of occupied slots.
//
// Returns:
//   - int: the occupied slot count
func (l *GappedList[E]) Count() int {
	return l.occupied.Count()
}

// Capacity returns the total number of slots, occupied and gaps.
//
// Returns:
//   - int: the total slot count
func (l *GappedList[E]) Capacity() int {
	return len(l.slots)
}

// IsEmpty reports whether no slots are occupied.
//
// Returns:
//   - bool: true if the list holds no elements
func (l *GappedList[E]) IsEmpty() bool {
	return l.occupied.IsEmpty()
}

// All iterates occupied slots in ascending index order, skipping gaps.
//
// Returns:
//   - iter.Seq2[int, E]: an ascending (index, element) iterator
func (l *GappedList[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for index := range l.occupied.All() {
			if !yield(index, l.slots[index]) {
				return
			}
		}
	}
}

func (l *GappedList[E]) check(index int) {
	if index < 0 || index >= len(l.slots) {
		panic(fmt.Sprintf("common: gapped list index %d out of range [0, %d)", index, len(l.slots)))
	}
	if !l.occupied.Contains(index) {
		panic(fmt.Sprintf("common: gapped list index %d refers to a gap", index))
	}
}

// indexHeap is a min-heap of freed slot indices, so Push always reuses the lowest gap.
type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *indexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
