package mesh

import (
	"encoding/binary"
	"testing"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpmathes/voxelgfx/engine/drawable"
	"github.com/jeanpmathes/voxelgfx/engine/renderer/animator"
)

// recordingUploadContext captures staged buffer writes for inspection.
type recordingUploadContext struct {
	data    [][]byte
	submits int
}

func (c *recordingUploadContext) WriteBuffer(_ *wgpu.Buffer, _ uint64, data []byte) {
	c.data = append(c.data, data)
}

func (c *recordingUploadContext) Submit() error {
	c.submits++
	return nil
}

func newMeshGroup() *drawable.Group[*Mesh] {
	return drawable.NewGroup(drawable.NewRegistry(), func() *Mesh { return NewMesh() })
}

func TestPrepareUploadPacksVertices(t *testing.T) {
	g := newMeshGroup()
	m := g.Create(nil)

	m.SetVertexData([]Vertex{
		{Position: [3]float32{1, 2, 3}, Data: 0xDEADBEEF},
		{Position: [3]float32{-4, 0, 0.5}, Data: 42},
	})
	m.PrepareUpload()

	data := m.StagedData()
	require.Len(t, data, 2*VertexStride)

	assert.Equal(t, math32.Float32bits(1), binary.LittleEndian.Uint32(data[0:]))
	assert.Equal(t, math32.Float32bits(2), binary.LittleEndian.Uint32(data[4:]))
	assert.Equal(t, math32.Float32bits(3), binary.LittleEndian.Uint32(data[8:]))
	assert.Equal(t, uint32(0xDEADBEEF), binary.LittleEndian.Uint32(data[12:]))

	assert.Equal(t, math32.Float32bits(-4), binary.LittleEndian.Uint32(data[16:]))
	assert.Equal(t, uint32(42), binary.LittleEndian.Uint32(data[28:]))
}

func TestPrepareUploadComputesBoundingRadius(t *testing.T) {
	g := newMeshGroup()
	m := g.Create(nil)

	m.SetVertexData([]Vertex{
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{3, 4, 0}},
		{Position: [3]float32{0, 0, 2}},
	})
	m.PrepareUpload()

	assert.InDelta(t, 5.0, float64(m.BoundingRadius()), 1e-5,
		"the radius covers the farthest vertex")
}

func TestSetVertexDataDrivesLifecycle(t *testing.T) {
	g := newMeshGroup()
	m := g.Create(nil)

	m.SetVertexData(make([]Vertex, 6))
	assert.Equal(t, uint32(6), m.DataElementCount())
	assert.True(t, m.UploadRequired())
	assert.True(t, m.IsActive())

	m.SetVertexData(nil)
	assert.Zero(t, m.DataElementCount())
	assert.Zero(t, m.VertexCount(), "empty geometry drops the staged vertices")
	assert.False(t, m.UploadRequired())
	assert.False(t, m.IsActive())
}

func TestDoDataUploadPacksLazily(t *testing.T) {
	g := newMeshGroup()
	ctx := &recordingUploadContext{}
	m := g.Create(nil)

	// No PrepareUpload call; the enqueue path must pack on demand.
	m.SetVertexData([]Vertex{{Position: [3]float32{1, 1, 1}}})
	require.NoError(t, m.EnqueueDataUpload(ctx))

	require.Len(t, ctx.data, 1)
	assert.Len(t, ctx.data[0], VertexStride)
	m.CleanupDataUpload()
}

func TestResetRetainsVertexBuffer(t *testing.T) {
	g := newMeshGroup()
	buffer := &wgpu.Buffer{}

	m := g.Create(func(m *Mesh) {
		m.SetLabel("section (0, 0, 0)")
		m.SetVertexBuffer(buffer, 4096)
		m.SetAnimationHandle(7)
	})
	m.SetVertexData(make([]Vertex, 3))
	m.PrepareUpload()
	g.ClearModified()
	m.Return()

	reused := g.Create(nil)
	require.Same(t, m, reused)

	assert.Empty(t, reused.Label())
	assert.Zero(t, reused.VertexCount())
	assert.Zero(t, reused.BoundingRadius())
	assert.Equal(t, animator.HandleInvalid, reused.AnimationHandle())

	assert.Same(t, buffer, reused.VertexBuffer(), "the GPU allocation survives pool reuse")
	assert.Equal(t, uint64(4096), reused.BufferCapacity())
}

func TestMeshVisitorDispatch(t *testing.T) {
	g := newMeshGroup()
	m := g.Create(nil)

	var visited drawable.MeshDrawable
	m.Accept(visitorFunc(func(d drawable.MeshDrawable) { visited = d }))
	assert.Same(t, m, visited)
}

type visitorFunc func(drawable.MeshDrawable)

func (f visitorFunc) VisitMesh(d drawable.MeshDrawable) { f(d) }
func (f visitorFunc) VisitOther(drawable.Drawable)      {}
