// package animator maintains the GPU-resident list of animated meshes. CPU-side
// registrations, removals, and updates are recorded into change sets and folded into a
// single descriptor-list refresh request per frame, instead of one GPU-visible update per
// mutation. The compute phase dispatches one invocation group per mesh with root constants
// carrying the mesh's list slot and element count.
package animator

import (
	"math"

	"go.uber.org/zap"

	"github.com/jeanpmathes/voxelgfx/common"
	"github.com/jeanpmathes/voxelgfx/engine/renderer/shader_resources"
)

// Handle identifies a mesh's slot in the controller's registry and in the GPU-visible
// descriptor list. A mesh holds HandleInvalid exactly while it is not registered.
type Handle uint32

// HandleInvalid is the sentinel for an unregistered mesh.
const HandleInvalid Handle = Handle(math.MaxUint32)

// Valid reports whether the handle refers to a registered mesh.
func (h Handle) Valid() bool { return h != HandleInvalid }

// Animated is the contract a mesh fulfils toward the controller. Satisfied by
// engine/mesh.Mesh.
type Animated interface {
	// AnimationHandle returns the mesh's controller handle, or HandleInvalid.
	AnimationHandle() Handle

	// SetAnimationHandle stores the controller handle on the mesh.
	//
	// Parameters:
	//   - h: the handle to store, or HandleInvalid on removal
	SetAnimationHandle(h Handle)

	// DataElementCount returns the number of geometry elements to animate.
	DataElementCount() uint32
}

// Controller synchronizes a CPU-side dynamic set of animated meshes with a GPU-visible
// descriptor list and drives the per-frame animation compute dispatches. Single logical
// writer; all calls happen on the update thread.
type Controller interface {
	// AddMesh registers a mesh and assigns it a handle. Fatal if already registered.
	//
	// Parameters:
	//   - m: the mesh to register
	//
	// Returns:
	//   - Handle: the assigned handle, also stored on the mesh
	AddMesh(m Animated) Handle

	// RemoveMesh unregisters a mesh, invalidating its handle. Fatal if not registered.
	//
	// Parameters:
	//   - m: the mesh to unregister
	RemoveMesh(m Animated)

	// UpdateMesh records that a registered mesh's GPU-visible data changed.
	// Fatal if not registered.
	//
	// Parameters:
	//   - m: the mesh that changed
	UpdateMesh(m Animated)

	// MeshCount returns the number of registered meshes.
	MeshCount() int

	// List returns the descriptor list mirroring the mesh registry.
	List() shader_resources.ListHandle

	// Update folds all structural changes since the last call into at most one
	// descriptor-list refresh request, then clears both tracking sets. Call once per
	// frame; after it returns, the binding layer is the source of truth until the next
	// batch of mutations accrues.
	Update()

	// Run issues one compute dispatch per registered mesh with non-empty geometry,
	// updating root constants per dispatch.
	//
	// Parameters:
	//   - ctx: the compute context to record dispatches into
	Run(ctx shader_resources.ComputeContext)
}

// controller is the implementation of the Controller interface.
type controller struct {
	resources shader_resources.ShaderResources
	list      shader_resources.ListHandle
	log       *zap.Logger

	meshes common.Bag[Handle, Animated]

	// changedMeshes holds slots added or updated since the last Update; removedMeshes
	// holds slots freed since then. Disjoint: removal withdraws a pending change and
	// re-registration into a freed slot withdraws the pending removal.
	changedMeshes common.IndexSet
	removedMeshes common.IndexSet

	threadGroupSize uint32
}

var _ Controller = &controller{}

// NewController creates a Controller bound to a fresh descriptor list on resources.
//
// Parameters:
//   - resources: the descriptor-binding collaborator (must not be nil)
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(resources shader_resources.ShaderResources, options ...ControllerBuilderOption) Controller {
	if resources == nil {
		panic("animator: NewController requires non-nil ShaderResources")
	}
	c := &controller{
		resources:       resources,
		log:             zap.NewNop(),
		threadGroupSize: DefaultThreadGroupSize,
	}
	for _, option := range options {
		option(c)
	}
	c.list = resources.CreateList("Animated Meshes")
	return c
}

func (c *controller) AddMesh(m Animated) Handle {
	if m.AnimationHandle().Valid() {
		panic("animator: mesh is already registered")
	}
	h := c.meshes.Push(m)
	m.SetAnimationHandle(h)
	c.changedMeshes.Insert(int(h))
	c.removedMeshes.Erase(int(h))
	return h
}

func (c *controller) RemoveMesh(m Animated) {
	h := m.AnimationHandle()
	if !h.Valid() {
		panic("animator: mesh is not registered")
	}
	c.meshes.Pop(h)
	m.SetAnimationHandle(HandleInvalid)
	c.changedMeshes.Erase(int(h))
	c.removedMeshes.Insert(int(h))
}

func (c *controller) UpdateMesh(m Animated) {
	h := m.AnimationHandle()
	if !h.Valid() {
		panic("animator: mesh is not registered")
	}
	c.changedMeshes.Insert(int(h))
}

func (c *controller) MeshCount() int {
	return c.meshes.Count()
}

func (c *controller) List() shader_resources.ListHandle {
	return c.list
}

func (c *controller) Update() {
	if c.changedMeshes.IsEmpty() && c.removedMeshes.IsEmpty() {
		return
	}

	slots := make([]uint32, 0, c.changedMeshes.Count()+c.removedMeshes.Count())
	for slot := range c.changedMeshes.All() {
		slots = append(slots, uint32(slot))
	}
	for slot := range c.removedMeshes.All() {
		slots = append(slots, uint32(slot))
	}

	c.resources.RequestListRefresh(c.list, slots)
	c.log.Debug("requested animation list refresh",
		zap.Int("changed", c.changedMeshes.Count()),
		zap.Int("removed", c.removedMeshes.Count()),
	)

	c.changedMeshes.Clear()
	c.removedMeshes.Clear()
}

func (c *controller) Run(ctx shader_resources.ComputeContext) {
	for h, m := range c.meshes.All() {
		count := m.DataElementCount()
		if count == 0 {
			continue
		}
		constants := GPUMeshConstants{MeshIndex: uint32(h), ElementCount: count}
		ctx.SetRootConstants(constants.Pack())
		groups := (count + c.threadGroupSize - 1) / c.threadGroupSize
		ctx.DispatchGroups(groups, 1, 1)
	}
}
