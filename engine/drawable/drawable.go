// package drawable implements the lifecycle and batching machinery shared by all renderable
// entity kinds: the pooled lifecycle object itself, the typed handle spaces that refer to it,
// and the group manager that tracks modification and activation changes for partial GPU uploads.
//
// All operations here run on the single update thread; the host enforces thread affinity at
// the boundary. Precondition violations (double activation, upload while uploading, returning
// an object mid-upload) panic immediately — they signal a broken invariant that would
// otherwise corrupt GPU-visible state, and are never recovered.
package drawable

import (
	"fmt"

	"github.com/jeanpmathes/voxelgfx/engine/renderer/shader_resources"
)

// Container is the owning group's callback surface. All activation transitions and
// modification marks flow through it; no other code path may touch the active bag.
type Container interface {
	// Activate assigns d a slot in the dense active bag. Fatal if d is already active.
	Activate(d Drawable)

	// Deactivate releases d's slot in the dense active bag. Fatal if d is not active.
	Deactivate(d Drawable)

	// MarkModified records d's entry in the group's modified set. Idempotent.
	MarkModified(d Drawable)

	// ReturnDrawable takes ownership of d back into the group's reuse pool.
	ReturnDrawable(d Drawable)
}

// Drawable is the lifecycle state machine every renderable entity kind shares: enabled or
// disabled, upload pending or enqueued, active or inactive. The unexported wiring methods
// seal the interface — concrete kinds embed Base rather than implementing it from scratch.
type Drawable interface {
	// Enabled reports whether the object is enabled for rendering.
	Enabled() bool

	// SetEnabledState sets the enabled flag and re-evaluates activation.
	//
	// Parameters:
	//   - enabled: true to allow the object to participate in rendering
	SetEnabledState(enabled bool)

	// DataElementCount returns the number of geometry units the object currently holds.
	// Zero means there is nothing to draw.
	DataElementCount() uint32

	// HandleModification updates the element count, flags an upload when the new count is
	// non-zero (dropping any staged data otherwise), notifies the owning group, and
	// re-evaluates activation.
	//
	// Parameters:
	//   - elementCount: the new geometry unit count
	//
	// Returns:
	//   - bool: true if an upload is now required; callers skip buffer staging when false
	HandleModification(elementCount uint32) bool

	// UploadRequired reports whether geometry changed and a GPU upload is pending.
	UploadRequired() bool

	// UploadEnqueued reports whether an upload has been recorded but not yet cleaned up.
	UploadEnqueued() bool

	// StagedData returns the bytes staged for the next upload, or nil.
	StagedData() []byte

	// PrepareUpload performs CPU-only packing of staged upload data. Safe to run in
	// parallel across distinct objects; must not touch shared group state.
	PrepareUpload()

	// EnqueueDataUpload flips the upload flags and performs the kind-specific GPU copy.
	// Fatal unless an upload is required and none is in flight — at most one upload may
	// be in flight per object per frame.
	//
	// Parameters:
	//   - ctx: the command-list-like context to record the copy against
	//
	// Returns:
	//   - error: an error from the upload collaborator
	EnqueueDataUpload(ctx shader_resources.UploadContext) error

	// CleanupDataUpload releases the staging buffer and clears the enqueued flag. Must be
	// called after the commands containing the upload were submitted, never before; fatal
	// while an upload is still required.
	CleanupDataUpload()

	// Return disables the object, forcing deactivation, and hands it back to the owning
	// group for pooling. Fatal while an upload is in flight. The caller must not touch the
	// object afterwards — the instance may be reused for an unrelated logical entity.
	Return()

	// BaseIndex returns the object's slot in the shared cross-kind registry.
	BaseIndex() BaseIndex

	// EntryIndex returns the object's slot in its group's typed entry pool.
	EntryIndex() EntryIndex

	// ActiveIndex returns the object's slot in the dense active bag, valid only while active.
	ActiveIndex() ActiveIndex

	// IsActive reports whether the object currently participates in rendering.
	IsActive() bool

	// Accept dispatches to the visitor method for the object's concrete kind.
	//
	// Parameters:
	//   - v: the visitor to dispatch to
	Accept(v Visitor)

	// internal wiring, reserved for the owning group
	attach(container Container, base BaseIndex, entry EntryIndex)
	setActiveIndex(index ActiveIndex)
	clearActiveIndex()
	reset()
}

// Implementation is the full contract a concrete drawable kind fulfils: the shared
// lifecycle plus the two subtype hooks the Base calls back into.
type Implementation interface {
	Drawable

	// DoDataUpload records the kind-specific GPU copy of the staged data.
	//
	// Parameters:
	//   - ctx: the upload context to record against
	//
	// Returns:
	//   - error: an error from the upload collaborator
	DoDataUpload(ctx shader_resources.UploadContext) error

	// DoReset releases kind-specific derived state on return to the pool. Reusable GPU
	// allocations are deliberately retained here to avoid reallocation churn on reuse.
	DoReset()
}

// Base carries the lifecycle state shared by all drawable kinds. Concrete kinds embed it
// and construct it with NewBase(self) so the shared code can reach their hooks.
type Base struct {
	self      Implementation
	container Container

	base   BaseIndex
	entry  EntryIndex
	active ActiveIndex

	enabled        bool
	elementCount   uint32
	uploadRequired bool
	uploadEnqueued bool

	staged []byte
}

// NewBase creates the shared lifecycle state for a concrete drawable kind.
// The object starts enabled, with no geometry and no handles.
//
// Parameters:
//   - self: the embedding concrete kind
//
// Returns:
//   - Base: the initialized lifecycle state, to be stored by value in self
func NewBase(self Implementation) Base {
	return Base{
		self:    self,
		base:    InvalidBase,
		entry:   InvalidEntry,
		active:  InvalidActive,
		enabled: true,
	}
}

func (b *Base) Enabled() bool {
	return b.enabled
}

func (b *Base) SetEnabledState(enabled bool) {
	if b.enabled == enabled {
		return
	}
	b.enabled = enabled
	b.updateActiveState()
}

func (b *Base) DataElementCount() uint32 {
	return b.elementCount
}

func (b *Base) HandleModification(elementCount uint32) bool {
	b.elementCount = elementCount
	b.uploadRequired = elementCount > 0
	b.updateActiveState()

	if b.uploadRequired {
		b.container.MarkModified(b.self)
	} else {
		b.staged = nil
	}
	return b.uploadRequired
}

func (b *Base) UploadRequired() bool {
	return b.uploadRequired
}

func (b *Base) UploadEnqueued() bool {
	return b.uploadEnqueued
}

func (b *Base) StagedData() []byte {
	return b.staged
}

// SetStagedData stores the bytes the next DoDataUpload will copy to the GPU.
// Intended for the embedding kind's data-staging path.
//
// Parameters:
//   - data: the upload payload
func (b *Base) SetStagedData(data []byte) {
	b.staged = data
}

// PrepareUpload is a no-op by default; kinds with non-trivial packing override it.
func (b *Base) PrepareUpload() {}

func (b *Base) EnqueueDataUpload(ctx shader_resources.UploadContext) error {
	if !b.uploadRequired {
		panic("drawable: enqueue without a pending upload")
	}
	if b.uploadEnqueued {
		panic("drawable: upload already in flight")
	}
	b.uploadRequired = false
	b.uploadEnqueued = true
	return b.self.DoDataUpload(ctx)
}

func (b *Base) CleanupDataUpload() {
	if b.uploadRequired {
		panic("drawable: cleanup while an upload is still required")
	}
	b.staged = nil
	b.uploadEnqueued = false
}

func (b *Base) Return() {
	if !b.base.Valid() {
		panic("drawable: return of an object that is not owned by a group")
	}
	if b.uploadEnqueued {
		panic("drawable: return while an upload is in flight")
	}
	b.SetEnabledState(false)
	b.container.ReturnDrawable(b.self)
}

func (b *Base) BaseIndex() BaseIndex {
	return b.base
}

func (b *Base) EntryIndex() EntryIndex {
	return b.entry
}

func (b *Base) ActiveIndex() ActiveIndex {
	return b.active
}

func (b *Base) IsActive() bool {
	return b.active.Valid()
}

// Accept dispatches to the fallback; concrete kinds override this with their own method.
func (b *Base) Accept(v Visitor) {
	v.VisitOther(b.self)
}

// updateActiveState is the single choke point for activation transitions. It compares the
// desired state (enabled and holding geometry) with the current one and calls into the
// container exactly when they differ.
func (b *Base) updateActiveState() {
	shouldBeActive := b.enabled && b.elementCount > 0
	if shouldBeActive == b.active.Valid() {
		return
	}
	if shouldBeActive {
		b.container.Activate(b.self)
	} else {
		b.container.Deactivate(b.self)
	}
}

func (b *Base) attach(container Container, base BaseIndex, entry EntryIndex) {
	if b.base.Valid() || b.entry.Valid() {
		panic(fmt.Sprintf("drawable: object already attached (base %d, entry %d)", b.base, b.entry))
	}
	b.container = container
	b.base = base
	b.entry = entry
}

func (b *Base) setActiveIndex(index ActiveIndex) {
	b.active = index
}

func (b *Base) clearActiveIndex() {
	b.active = InvalidActive
}

// reset restores construction defaults and runs the kind hook. Called by the owning group
// when the object goes back to the pool; the instance stays allocated for reuse.
func (b *Base) reset() {
	self := b.self
	*b = NewBase(self)
	self.DoReset()
}
