// package mesh implements the spatial mesh drawable kind: a section of voxel geometry
// whose vertex data is staged CPU-side and uploaded into a retained GPU vertex buffer.
package mesh

import (
	"encoding/binary"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/jeanpmathes/voxelgfx/engine/drawable"
	"github.com/jeanpmathes/voxelgfx/engine/renderer/animator"
	"github.com/jeanpmathes/voxelgfx/engine/renderer/shader_resources"
)

// Vertex is one spatial mesh vertex: a position plus a packed data word the shader
// decodes into normal, texture index, and shading flags.
type Vertex struct {
	Position [3]float32
	Data     uint32
}

// VertexStride is the byte size of one packed Vertex.
const VertexStride = 16

// Mesh is a voxel section mesh. It embeds the shared drawable lifecycle and adds vertex
// staging, a bounding sphere for culling, an animation handle, and a GPU vertex buffer
// that is deliberately retained across pool reuse to avoid reallocation churn.
type Mesh struct {
	drawable.Base

	label    string
	vertices []Vertex

	boundingRadius  float32
	animationHandle animator.Handle

	// vertexBuffer is allocated by the renderer collaborator and survives Reset; a
	// returned mesh keeps its buffer so the next logical entity reusing the instance
	// skips the allocation.
	vertexBuffer   *wgpu.Buffer
	bufferCapacity uint64
}

var (
	_ drawable.Implementation = &Mesh{}
	_ drawable.MeshDrawable   = &Mesh{}
	_ animator.Animated       = &Mesh{}
)

// NewMesh creates a pooled mesh instance. Groups use this as their factory.
//
// Parameters:
//   - options: functional options to configure the mesh
//
// Returns:
//   - *Mesh: the newly created mesh
func NewMesh(options ...MeshBuilderOption) *Mesh {
	m := &Mesh{animationHandle: animator.HandleInvalid}
	m.Base = drawable.NewBase(m)
	for _, option := range options {
		option(m)
	}
	return m
}

// Label returns the mesh's debug label.
func (m *Mesh) Label() string {
	return m.label
}

// SetLabel sets the mesh's debug label.
//
// Parameters:
//   - label: the debug label
func (m *Mesh) SetLabel(label string) {
	m.label = label
}

// SetVertexData replaces the mesh's geometry and runs the modification protocol. When the
// new geometry is empty no upload is staged and the vertex slice is dropped.
//
// Parameters:
//   - vertices: the new geometry; the slice is retained until packed
func (m *Mesh) SetVertexData(vertices []Vertex) {
	if !m.HandleModification(uint32(len(vertices))) {
		m.vertices = nil
		return
	}
	m.vertices = vertices
}

// VertexCount returns the number of staged vertices.
func (m *Mesh) VertexCount() int {
	return len(m.vertices)
}

// PrepareUpload packs the staged vertices into upload bytes and recomputes the bounding
// sphere radius. CPU-only; safe to run in parallel across distinct meshes.
func (m *Mesh) PrepareUpload() {
	if len(m.vertices) == 0 {
		return
	}

	data := make([]byte, len(m.vertices)*VertexStride)
	radius := float32(0)
	for i, v := range m.vertices {
		offset := i * VertexStride
		binary.LittleEndian.PutUint32(data[offset+0:], math32.Float32bits(v.Position[0]))
		binary.LittleEndian.PutUint32(data[offset+4:], math32.Float32bits(v.Position[1]))
		binary.LittleEndian.PutUint32(data[offset+8:], math32.Float32bits(v.Position[2]))
		binary.LittleEndian.PutUint32(data[offset+12:], v.Data)

		lenSq := v.Position[0]*v.Position[0] + v.Position[1]*v.Position[1] + v.Position[2]*v.Position[2]
		if lenSq > radius {
			radius = lenSq
		}
	}

	m.boundingRadius = math32.Sqrt(radius)
	m.SetStagedData(data)
}

// BoundingRadius returns the object-space bounding sphere radius of the packed geometry.
//
// Returns:
//   - float32: the bounding sphere radius
func (m *Mesh) BoundingRadius() float32 {
	return m.boundingRadius
}

// VertexBuffer returns the retained GPU vertex buffer, or nil before the renderer
// collaborator has allocated one.
func (m *Mesh) VertexBuffer() *wgpu.Buffer {
	return m.vertexBuffer
}

// SetVertexBuffer stores the GPU vertex buffer allocated by the renderer collaborator.
//
// Parameters:
//   - buffer: the vertex buffer
//   - capacity: the buffer's byte capacity
func (m *Mesh) SetVertexBuffer(buffer *wgpu.Buffer, capacity uint64) {
	m.vertexBuffer = buffer
	m.bufferCapacity = capacity
}

// BufferCapacity returns the retained vertex buffer's byte capacity.
func (m *Mesh) BufferCapacity() uint64 {
	return m.bufferCapacity
}

// AnimationHandle returns the mesh's animation controller handle, or HandleInvalid.
func (m *Mesh) AnimationHandle() animator.Handle {
	return m.animationHandle
}

// SetAnimationHandle stores the animation controller handle.
//
// Parameters:
//   - h: the handle, or HandleInvalid on removal
func (m *Mesh) SetAnimationHandle(h animator.Handle) {
	m.animationHandle = h
}

// Accept dispatches to the mesh kind.
func (m *Mesh) Accept(v drawable.Visitor) {
	v.VisitMesh(m)
}

// DoDataUpload records the vertex data copy into the retained vertex buffer. Packs
// lazily when the frame driver's parallel prep phase did not run.
func (m *Mesh) DoDataUpload(ctx shader_resources.UploadContext) error {
	if m.StagedData() == nil {
		m.PrepareUpload()
	}
	ctx.WriteBuffer(m.vertexBuffer, 0, m.StagedData())
	return nil
}

// DoReset clears geometry state on return to the pool. The vertex buffer and its
// capacity survive so the next entity reusing this instance skips the allocation.
func (m *Mesh) DoReset() {
	m.label = ""
	m.vertices = nil
	m.boundingRadius = 0
	m.animationHandle = animator.HandleInvalid
}
