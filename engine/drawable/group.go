package drawable

import (
	"fmt"
	"iter"

	"github.com/jeanpmathes/voxelgfx/common"
)

// Group manages a homogeneous pool of drawables of kind D. It owns a free pool of
// previously returned, reset instances (reused before allocating new ones), the typed
// entry bag assigning EntryIndex, the dense active bag assigning ActiveIndex, and the
// two change-tracking sets that drive partial GPU uploads each frame:
//
//   - modified: entries whose geometry changed and need an upload; cleared by the
//     upload-cleanup pass via ClearModified.
//   - activated: entries activated since the last frame boundary; consumed exactly
//     once per frame by ClearChanged.
//
// All index-set and bag state is exclusively owned by the group; mutation happens only
// through the operations below, on the single update thread.
type Group[D Implementation] struct {
	registry *Registry
	factory  func() D

	pool    []D
	entries common.Bag[EntryIndex, D]
	active  common.Bag[ActiveIndex, D]

	modified  common.IndexSet
	activated common.IndexSet
}

var _ Container = &Group[Implementation]{}

// UploadSource is the kind-erased view of a group the frame driver works against.
type UploadSource interface {
	// ChangedDrawables settles and consumes the per-frame changed set; see ClearChanged.
	ChangedDrawables() []Drawable

	// ModifiedDrawables returns the objects in the modified set in ascending entry order.
	ModifiedDrawables() []Drawable

	// ClearModified empties the modified set after the upload-cleanup pass.
	ClearModified()
}

// NewGroup creates an empty group backed by the shared registry. The factory constructs
// a fresh instance when the reuse pool is empty.
//
// Parameters:
//   - registry: the shared cross-kind registry assigning BaseIndex
//   - factory: constructor for new pool instances (must not return nil)
//
// Returns:
//   - *Group[D]: the newly created group
func NewGroup[D Implementation](registry *Registry, factory func() D) *Group[D] {
	if registry == nil {
		panic("drawable: NewGroup requires a non-nil Registry")
	}
	if factory == nil {
		panic("drawable: NewGroup requires a non-nil factory")
	}
	return &Group[D]{registry: registry, factory: factory}
}

// Create takes an instance from the reuse pool (or constructs one), registers it in the
// shared registry and the typed entry bag, wires its handles, and runs the caller's
// initializer on it. The group retains ownership of the returned object.
//
// Parameters:
//   - init: optional initializer run after the handles are associated
//
// Returns:
//   - D: the created object, owned by the group
func (g *Group[D]) Create(init func(d D)) D {
	var d D
	if n := len(g.pool); n > 0 {
		d = g.pool[n-1]
		g.pool = g.pool[:n-1]
	} else {
		d = g.factory()
	}

	base := g.registry.add(d)
	entry := g.entries.Push(d)
	d.attach(g, base, entry)

	if init != nil {
		init(d)
	}
	return d
}

// Return takes the object back: it is disabled (forcing deactivation), struck from the
// modified set, removed from the registry and entry bag, reset to construction defaults,
// and pushed onto the reuse pool. Fatal while an upload is in flight.
//
// Parameters:
//   - d: the object to return; must not be touched by the caller afterwards
func (g *Group[D]) Return(d D) {
	if !d.BaseIndex().Valid() {
		panic("drawable: return of an object that is not owned by a group")
	}
	if d.UploadEnqueued() {
		panic("drawable: return while an upload is in flight")
	}

	d.SetEnabledState(false)

	entry := d.EntryIndex()
	g.modified.Erase(int(entry))
	g.activated.Erase(int(entry))
	g.registry.remove(d.BaseIndex())
	g.entries.Pop(entry)

	d.reset()
	g.pool = append(g.pool, d)
}

// MarkModified records d's entry in the modified set. Idempotent.
func (g *Group[D]) MarkModified(d Drawable) {
	g.modified.Insert(int(d.EntryIndex()))
}

// Activate is called only from the drawable's own activation choke point. It assigns a
// dense active slot and records the activation for the next changed-set settle.
func (g *Group[D]) Activate(dr Drawable) {
	if dr.IsActive() {
		panic(fmt.Sprintf("drawable: double activation of entry %d", dr.EntryIndex()))
	}
	d := dr.(D)
	index := g.active.Push(d)
	d.setActiveIndex(index)
	g.activated.Insert(int(d.EntryIndex()))
}

// Deactivate is called only from the drawable's own activation choke point. It releases
// the dense active slot and withdraws any pending activation record — a deactivated
// object must not surface in the changed set.
func (g *Group[D]) Deactivate(dr Drawable) {
	if !dr.IsActive() {
		panic(fmt.Sprintf("drawable: deactivation of inactive entry %d", dr.EntryIndex()))
	}
	g.active.Pop(dr.ActiveIndex())
	dr.clearActiveIndex()
	g.activated.Erase(int(dr.EntryIndex()))
}

// ReturnDrawable implements Container for the drawable's own Return path.
func (g *Group[D]) ReturnDrawable(dr Drawable) {
	g.Return(dr.(D))
}

// Count returns the number of live objects in the group.
func (g *Group[D]) Count() int {
	return g.entries.Count()
}

// ActiveCount returns the number of currently active objects.
func (g *Group[D]) ActiveCount() int {
	return g.active.Count()
}

// Active iterates the dense bag of currently active objects, for the renderer's per-frame
// draw pass.
//
// Returns:
//   - iter.Seq2[ActiveIndex, D]: an ascending iterator over active objects
func (g *Group[D]) Active() iter.Seq2[ActiveIndex, D] {
	return g.active.All()
}

// Modified iterates the objects whose geometry changed since the last cleanup pass, in
// ascending entry order. A lazy view over the modified set — the set itself is untouched.
//
// Returns:
//   - iter.Seq[D]: an ascending iterator over modified objects
func (g *Group[D]) Modified() iter.Seq[D] {
	return func(yield func(D) bool) {
		for entry := range g.modified.All() {
			if !yield(g.entries.Get(EntryIndex(entry))) {
				return
			}
		}
	}
}

// ClearModified empties the modified set. Called by the upload-cleanup pass once the
// staged uploads have been submitted.
func (g *Group[D]) ClearModified() {
	g.modified.Clear()
}

// ClearChanged settles the per-frame changed set: every entry activated since the last
// settle, plus every modified entry that is currently active, in ascending entry order.
// The activated set is consumed; the modified set is left for the upload-cleanup pass.
// Modified-but-inactive objects are deliberately excluded — they contribute nothing to
// the active render set.
//
// Returns:
//   - []D: the objects whose GPU-visible representation must be refreshed this frame
func (g *Group[D]) ClearChanged() []D {
	var changed common.IndexSet
	for entry := range g.activated.All() {
		changed.Insert(entry)
	}
	for entry := range g.modified.All() {
		if g.entries.Get(EntryIndex(entry)).IsActive() {
			changed.Insert(entry)
		}
	}

	result := make([]D, 0, changed.Count())
	for entry := range changed.All() {
		result = append(result, g.entries.Get(EntryIndex(entry)))
	}

	g.activated.Clear()
	return result
}

// ChangedDrawables implements UploadSource over ClearChanged.
func (g *Group[D]) ChangedDrawables() []Drawable {
	changed := g.ClearChanged()
	result := make([]Drawable, len(changed))
	for i, d := range changed {
		result[i] = d
	}
	return result
}

// ModifiedDrawables implements UploadSource over Modified.
func (g *Group[D]) ModifiedDrawables() []Drawable {
	result := make([]Drawable, 0, g.modified.Count())
	for d := range g.Modified() {
		result = append(result, d)
	}
	return result
}
