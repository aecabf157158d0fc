// package shader_resources is the boundary between the CPU-side drawable/animator state and
// the GPU binding layer. It defines the narrow collaborator interfaces the core calls into
// (upload a staged buffer, dispatch compute work, refresh a descriptor list) together with
// wgpu-backed implementations used by the real renderer. Tests substitute recording fakes.
package shader_resources

import (
	"encoding/binary"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/jeanpmathes/voxelgfx/common"
)

// BufferWrite describes a single GPU buffer write staged for submission at a given byte offset.
type BufferWrite struct {
	Buffer *wgpu.Buffer
	Offset uint64
	Data   []byte
}

// UploadContext is the command-list-like context a drawable performs its data upload against.
// Writes are staged in order and become GPU-visible on Submit. The core never waits on GPU
// completion; fencing is the frame driver's collaborator's responsibility.
type UploadContext interface {
	// WriteBuffer stages a write of data into buffer at offset.
	//
	// Parameters:
	//   - buffer: the destination GPU buffer
	//   - offset: the destination byte offset
	//   - data: the bytes to upload
	WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte)

	// Submit flushes all staged writes to the GPU queue and clears the staging list.
	//
	// Returns:
	//   - error: an error if submission fails
	Submit() error
}

// ComputeContext records per-mesh compute dispatches with root constants.
type ComputeContext interface {
	// SetRootConstants stages the root constant values for the next dispatch.
	//
	// Parameters:
	//   - values: the constant words, uploaded as a contiguous uniform slot
	SetRootConstants(values []uint32)

	// DispatchGroups records a compute dispatch with the given workgroup counts,
	// bound to the constants staged by the preceding SetRootConstants call.
	//
	// Parameters:
	//   - x, y, z: the workgroup counts per dimension
	DispatchGroups(x, y, z uint32)
}

// ListHandle identifies a GPU-visible descriptor list managed by ShaderResources.
type ListHandle uint32

// ShaderResources is the descriptor-binding collaborator. CPU-side systems batch their
// structural changes per frame and request a single list refresh instead of touching
// GPU descriptors once per mutation; the binding layer drains the pending set when it
// rebuilds the affected table entries.
type ShaderResources interface {
	// CreateList allocates a new descriptor list.
	//
	// Parameters:
	//   - label: a debug label for the list
	//
	// Returns:
	//   - ListHandle: the handle identifying the new list
	CreateList(label string) ListHandle

	// SetListEntry stores the resource view for a slot in a list. Passing nil clears the slot.
	//
	// Parameters:
	//   - list: the descriptor list to modify
	//   - slot: the slot index within the list
	//   - view: the texture view to bind, or nil
	SetListEntry(list ListHandle, slot uint32, view *wgpu.TextureView)

	// RequestListRefresh marks the given slots of a list as needing a descriptor rebuild.
	// Requests accumulate until the binding layer consumes them.
	//
	// Parameters:
	//   - list: the descriptor list to refresh
	//   - changed: the slot indices whose entries changed since the last refresh
	RequestListRefresh(list ListHandle, changed []uint32)

	// ConsumeListRefresh returns the accumulated pending slots of a list in ascending
	// order and clears the pending set. Returns nil when nothing is pending.
	//
	// Parameters:
	//   - list: the descriptor list to drain
	//
	// Returns:
	//   - []uint32: the pending slot indices, ascending, or nil
	ConsumeListRefresh(list ListHandle) []uint32
}

// queueUploadContext is an UploadContext backed by a wgpu queue. Writes are staged
// CPU-side and pushed through queue.WriteBuffer on Submit; wgpu copies the data
// internally so staged slices may be reused by the caller afterwards.
type queueUploadContext struct {
	queue  *wgpu.Queue
	staged []BufferWrite
}

var _ UploadContext = &queueUploadContext{}

// NewQueueUploadContext creates an UploadContext that submits staged writes to queue.
//
// Parameters:
//   - queue: the wgpu queue to submit writes to
//
// Returns:
//   - UploadContext: the newly created context
func NewQueueUploadContext(queue *wgpu.Queue) UploadContext {
	return &queueUploadContext{queue: queue}
}

func (c *queueUploadContext) WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) {
	c.staged = append(c.staged, BufferWrite{Buffer: buffer, Offset: offset, Data: data})
}

func (c *queueUploadContext) Submit() error {
	if c.queue == nil {
		return fmt.Errorf("shader_resources: upload context has no queue")
	}
	for _, w := range c.staged {
		if w.Buffer == nil {
			continue
		}
		c.queue.WriteBuffer(w.Buffer, w.Offset, w.Data)
	}
	c.staged = c.staged[:0]
	return nil
}

// rootConstantStride is the byte stride between root-constant slots. 256 is the minimum
// uniform buffer offset alignment guaranteed by WebGPU.
const rootConstantStride = 256

// passComputeContext records dispatches on a wgpu compute pass. WebGPU core has no push
// constants, so root constants are emulated with one aligned slot per dispatch in a shared
// uniform buffer bound with a dynamic offset. Slot writes go through the queue and land
// before the encoded pass executes.
type passComputeContext struct {
	pass      *wgpu.ComputePassEncoder
	queue     *wgpu.Queue
	constants *wgpu.Buffer
	bindGroup *wgpu.BindGroup
	slot      uint32
}

var _ ComputeContext = &passComputeContext{}

// NewPassComputeContext creates a ComputeContext recording onto pass. The constants
// buffer must be large enough for one 256-byte slot per dispatch issued this frame,
// and bindGroup must bind it as a dynamic-offset uniform at group 0.
//
// Parameters:
//   - pass: the compute pass encoder to record into
//   - queue: the queue used to stage root constant slots
//   - constants: the shared root-constant uniform buffer
//   - bindGroup: the bind group exposing the constants buffer with a dynamic offset
//
// Returns:
//   - ComputeContext: the newly created context
func NewPassComputeContext(pass *wgpu.ComputePassEncoder, queue *wgpu.Queue, constants *wgpu.Buffer, bindGroup *wgpu.BindGroup) ComputeContext {
	return &passComputeContext{pass: pass, queue: queue, constants: constants, bindGroup: bindGroup}
}

func (c *passComputeContext) SetRootConstants(values []uint32) {
	data := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], v)
	}
	c.queue.WriteBuffer(c.constants, uint64(c.slot)*rootConstantStride, data)
}

func (c *passComputeContext) DispatchGroups(x, y, z uint32) {
	c.pass.SetBindGroup(0, c.bindGroup, []uint32{c.slot * rootConstantStride})
	c.pass.DispatchWorkgroups(x, y, z)
	c.slot++
}

// descriptorList is one GPU-visible table of texture views plus its pending refresh set.
type descriptorList struct {
	label   string
	entries map[uint32]*wgpu.TextureView
	pending common.IndexSet
}

// descriptorTable is the default ShaderResources implementation.
type descriptorTable struct {
	lists common.Bag[ListHandle, *descriptorList]
}

var _ ShaderResources = &descriptorTable{}

// NewDescriptorTable creates an empty ShaderResources implementation.
//
// Returns:
//   - ShaderResources: the newly created descriptor table
func NewDescriptorTable() ShaderResources {
	return &descriptorTable{}
}

func (t *descriptorTable) CreateList(label string) ListHandle {
	return t.lists.Push(&descriptorList{
		label:   label,
		entries: make(map[uint32]*wgpu.TextureView),
	})
}

func (t *descriptorTable) SetListEntry(list ListHandle, slot uint32, view *wgpu.TextureView) {
	l := t.lists.Get(list)
	if view == nil {
		delete(l.entries, slot)
		return
	}
	l.entries[slot] = view
}

func (t *descriptorTable) RequestListRefresh(list ListHandle, changed []uint32) {
	l := t.lists.Get(list)
	for _, slot := range changed {
		l.pending.Insert(int(slot))
	}
}

func (t *descriptorTable) ConsumeListRefresh(list ListHandle) []uint32 {
	l := t.lists.Get(list)
	if l.pending.IsEmpty() {
		return nil
	}
	out := make([]uint32, 0, l.pending.Count())
	for slot := range l.pending.All() {
		out = append(out, uint32(slot))
	}
	l.pending.Clear()
	return out
}
