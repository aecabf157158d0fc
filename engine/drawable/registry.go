package drawable

import (
	"iter"

	"github.com/jeanpmathes/voxelgfx/common"
)

// Registry is the type-erased container shared by all drawable groups. It assigns the
// BaseIndex handle space and allows polymorphic iteration over every live drawable
// regardless of kind. Groups add and remove entries; external code only reads.
type Registry struct {
	all common.Bag[BaseIndex, Drawable]
}

// NewRegistry creates an empty shared registry.
//
// Returns:
//   - *Registry: the newly created registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Get returns the drawable for a live base handle. Panics on a stale handle.
//
// Parameters:
//   - index: the base handle to read
//
// Returns:
//   - Drawable: the drawable the handle refers to
func (r *Registry) Get(index BaseIndex) Drawable {
	return r.all.Get(index)
}

// Count returns the number of live drawables across all groups.
//
// Returns:
//   - int: the live drawable count
func (r *Registry) Count() int {
	return r.all.Count()
}

// All iterates every live drawable in ascending base handle order.
//
// Returns:
//   - iter.Seq2[BaseIndex, Drawable]: an ascending iterator
func (r *Registry) All() iter.Seq2[BaseIndex, Drawable] {
	return r.all.All()
}

// VisitAll dispatches the visitor over every live drawable.
//
// Parameters:
//   - v: the visitor to dispatch
func (r *Registry) VisitAll(v Visitor) {
	for _, d := range r.all.All() {
		d.Accept(v)
	}
}

func (r *Registry) add(d Drawable) BaseIndex {
	return r.all.Push(d)
}

func (r *Registry) remove(index BaseIndex) {
	r.all.Pop(index)
}
