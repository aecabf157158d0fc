package mesh

import "github.com/cogentcore/webgpu/wgpu"

// MeshBuilderOption is a functional option for configuring a Mesh during construction.
type MeshBuilderOption func(*Mesh)

// WithLabel sets the mesh's debug label.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - MeshBuilderOption: functional option to set the label
func WithLabel(label string) MeshBuilderOption {
	return func(m *Mesh) {
		m.label = label
	}
}

// WithVertexBuffer pre-associates a GPU vertex buffer, for callers that allocate buffers
// ahead of pooling.
//
// Parameters:
//   - buffer: the vertex buffer
//   - capacity: the buffer's byte capacity
//
// Returns:
//   - MeshBuilderOption: functional option to set the vertex buffer
func WithVertexBuffer(buffer *wgpu.Buffer, capacity uint64) MeshBuilderOption {
	return func(m *Mesh) {
		m.vertexBuffer = buffer
		m.bufferCapacity = capacity
	}
}
