package common

import "iter"

// Bag is a GappedList whose indices are a distinct handle type. Each independent
// numbering space in the engine (base, entry, active, animation handle) gets its own
// instantiation, so handing the wrong kind of handle to a container is a compile error
// instead of a silent cross-index read.
type Bag[I ~uint32, E any] struct {
	list GappedList[E]
}

// Push stores element and returns its typed handle.
//
// Parameters:
//   - element: the element to store
//
// Returns:
//   - I: the handle assigned to the element
func (b *Bag[I, E]) Push(element E) I {
	return I(b.list.Push(element))
}

// Pop frees the slot for handle and returns the moved-out element.
// Panics if the handle does not refer to a live element.
//
// Parameters:
//   - handle: the handle to free
//
// Returns:
//   - E: the element the handle referred to
func (b *Bag[I, E]) Pop(handle I) E {
	return b.list.Pop(int(handle))
}

// Get returns the element for handle. Panics on a stale handle.
//
// Parameters:
//   - handle: the handle to read
//
// Returns:
//   - E: the element the handle refers to
func (b *Bag[I, E]) Get(handle I) E {
	return b.list.Get(int(handle))
}

// Set overwrites the element for a live handle.
//
// Parameters:
//   - handle: the handle to overwrite
//   - element: the new element
func (b *Bag[I, E]) Set(handle I, element E) {
	b.list.Set(int(handle), element)
}

// Contains reports whether handle refers to a live element.
//
// Parameters:
//   - handle: the handle to test
//
// Returns:
//   - bool: true if the handle is live
func (b *Bag[I, E]) Contains(handle I) bool {
	return b.list.Contains(int(handle))
}

// Count returns the number of live elements.
//
// Returns:
//   - int: the live element count
func (b *Bag[I, E]) Count() int {
	return b.list.Count()
}

// Capacity returns the total slot count including gaps.
//
// Returns:
//   - int: the total slot count
func (b *Bag[I, E]) Capacity() int {
	return b.list.Capacity()
}

// IsEmpty reports whether the bag holds no elements.
//
// Returns:
//   - bool: true if empty
func (b *Bag[I, E]) IsEmpty() bool {
	return b.list.IsEmpty()
}

// All iterates live elements in ascending handle order.
//
// Returns:
//   - iter.Seq2[I, E]: an ascending (handle, element) iterator
func (b *Bag[I, E]) All() iter.Seq2[I, E] {
	return func(yield func(I, E) bool) {
		for index, element := range b.list.All() {
			if !yield(I(index), element) {
				return
			}
		}
	}
}
