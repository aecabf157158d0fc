// package draw2d implements the 2D overlay drawing pipeline: a texture registry mirrored
// into a GPU descriptor list via batched refresh requests, and per-frame accumulation of
// quad draw calls staged into a shared vertex buffer and the shared quad index buffer.
package draw2d

import (
	"encoding/binary"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"

	"github.com/jeanpmathes/voxelgfx/common"
	"github.com/jeanpmathes/voxelgfx/engine/renderer/shader_resources"
)

// TextureHandle identifies a registered overlay texture and its descriptor list slot.
type TextureHandle uint32

// Vertex is one overlay vertex in pixel coordinates. Submit converts positions to clip
// space using the configured screen size.
type Vertex struct {
	Position [2]float32
	UV       [2]float32
	Color    [4]float32
}

// vertexStride is the byte size of one packed Vertex (2+2+4 float32s).
const vertexStride = 32

// DrawCall is one accumulated overlay draw: a contiguous vertex range and whether it
// samples a texture or fills with vertex color only.
type DrawCall struct {
	Texture     TextureHandle
	UseTexture  bool
	FirstVertex uint32
	VertexCount uint32
}

// Pipeline accumulates overlay draw calls between BeginFrame and Submit. Texture
// registrations and replacements are batched into a single descriptor refresh request
// per frame, the same protocol the animation controller uses for its mesh list.
type Pipeline interface {
	// RegisterTexture adds a texture to the overlay's descriptor list.
	//
	// Parameters:
	//   - view: the texture view to register
	//
	// Returns:
	//   - TextureHandle: the handle identifying the texture's list slot
	RegisterTexture(view *wgpu.TextureView) TextureHandle

	// ReplaceTexture swaps the texture in an existing slot. Fatal on a stale handle.
	//
	// Parameters:
	//   - handle: the slot to replace
	//   - view: the new texture view
	ReplaceTexture(handle TextureHandle, view *wgpu.TextureView)

	// RemoveTexture frees a texture slot. Fatal on a stale handle.
	//
	// Parameters:
	//   - handle: the slot to free
	RemoveTexture(handle TextureHandle)

	// List returns the descriptor list mirroring the texture registry.
	List() shader_resources.ListHandle

	// SetScreenSize sets the pixel dimensions used to convert positions to clip space.
	//
	// Parameters:
	//   - width, height: the render target size in pixels, both positive
	SetScreenSize(width, height uint32)

	// BeginFrame folds pending texture changes into one descriptor refresh request and
	// resets the draw call accumulation. Call once per frame before pushing draw calls.
	BeginFrame()

	// PushSolid accumulates a color-only draw call. Vertex count must be a whole number
	// of quads.
	//
	// Parameters:
	//   - vertices: the quad vertices in pixel coordinates
	PushSolid(vertices []Vertex)

	// PushTextured accumulates a textured draw call. Fatal on a stale handle; vertex
	// count must be a whole number of quads.
	//
	// Parameters:
	//   - handle: the texture slot to sample
	//   - vertices: the quad vertices in pixel coordinates
	PushTextured(handle TextureHandle, vertices []Vertex)

	// Submit packs the accumulated vertices into the staged vertex buffer, grows the
	// shared index buffer to cover the largest draw call, and stages the GPU writes.
	//
	// Parameters:
	//   - ctx: the upload context for this frame's staged writes
	//
	// Returns:
	//   - []DrawCall: the accumulated draw calls, in push order, for the render pass
	//   - error: an error if no screen size is configured
	Submit(ctx shader_resources.UploadContext) ([]DrawCall, error)
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	resources shader_resources.ShaderResources
	list      shader_resources.ListHandle
	log       *zap.Logger

	textures common.Bag[TextureHandle, *wgpu.TextureView]
	// pendingTextures holds list slots whose descriptor entry changed since the last
	// BeginFrame; folded into one refresh request per frame.
	pendingTextures common.IndexSet

	width, height uint32
	pixelSnap     bool

	vertices []Vertex
	calls    []DrawCall
	indices  SharedIndexBuffer

	// vertexBuffer and indexBuffer are allocated by the renderer collaborator.
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
}

var _ Pipeline = &pipeline{}

// NewPipeline creates an overlay pipeline bound to a fresh descriptor list on resources.
//
// Parameters:
//   - resources: the descriptor-binding collaborator (must not be nil)
//   - options: functional options to configure the pipeline
//
// Returns:
//   - Pipeline: the newly created pipeline
func NewPipeline(resources shader_resources.ShaderResources, options ...PipelineBuilderOption) Pipeline {
	if resources == nil {
		panic("draw2d: NewPipeline requires non-nil ShaderResources")
	}
	p := &pipeline{
		resources: resources,
		log:       zap.NewNop(),
	}
	for _, option := range options {
		option(p)
	}
	p.list = resources.CreateList("Overlay Textures")
	return p
}

func (p *pipeline) RegisterTexture(view *wgpu.TextureView) TextureHandle {
	handle := p.textures.Push(view)
	p.resources.SetListEntry(p.list, uint32(handle), view)
	p.pendingTextures.Insert(int(handle))
	return handle
}

func (p *pipeline) ReplaceTexture(handle TextureHandle, view *wgpu.TextureView) {
	p.textures.Set(handle, view)
	p.resources.SetListEntry(p.list, uint32(handle), view)
	p.pendingTextures.Insert(int(handle))
}

func (p *pipeline) RemoveTexture(handle TextureHandle) {
	p.textures.Pop(handle)
	p.resources.SetListEntry(p.list, uint32(handle), nil)
	p.pendingTextures.Insert(int(handle))
}

func (p *pipeline) List() shader_resources.ListHandle {
	return p.list
}

func (p *pipeline) SetScreenSize(width, height uint32) {
	if width == 0 || height == 0 {
		panic("draw2d: screen size must be positive")
	}
	p.width = width
	p.height = height
}

func (p *pipeline) BeginFrame() {
	if !p.pendingTextures.IsEmpty() {
		slots := make([]uint32, 0, p.pendingTextures.Count())
		for slot := range p.pendingTextures.All() {
			slots = append(slots, uint32(slot))
		}
		p.resources.RequestListRefresh(p.list, slots)
		p.log.Debug("requested overlay texture list refresh", zap.Int("slots", len(slots)))
		p.pendingTextures.Clear()
	}

	p.vertices = p.vertices[:0]
	p.calls = p.calls[:0]
}

func (p *pipeline) PushSolid(vertices []Vertex) {
	p.push(DrawCall{UseTexture: false}, vertices)
}

func (p *pipeline) PushTextured(handle TextureHandle, vertices []Vertex) {
	if !p.textures.Contains(handle) {
		panic(fmt.Sprintf("draw2d: draw call references stale texture handle %d", handle))
	}
	p.push(DrawCall{Texture: handle, UseTexture: true}, vertices)
}

func (p *pipeline) push(call DrawCall, vertices []Vertex) {
	if len(vertices)%VerticesPerQuad != 0 {
		panic(fmt.Sprintf("draw2d: draw call vertex count %d is not a whole number of quads", len(vertices)))
	}
	if len(vertices) == 0 {
		return
	}
	call.FirstVertex = uint32(len(p.vertices))
	call.VertexCount = uint32(len(vertices))
	p.vertices = append(p.vertices, vertices...)
	p.calls = append(p.calls, call)
}

func (p *pipeline) Submit(ctx shader_resources.UploadContext) ([]DrawCall, error) {
	if p.width == 0 || p.height == 0 {
		return nil, fmt.Errorf("draw2d: submit without a configured screen size")
	}
	if len(p.calls) == 0 {
		return nil, nil
	}

	// Cover the largest draw call; all calls share the one index sequence.
	maxVertices := 0
	for _, call := range p.calls {
		if int(call.VertexCount) > maxVertices {
			maxVertices = int(call.VertexCount)
		}
	}
	indices := p.indices.Require(maxVertices)
	if p.indices.ConsumeDirty() && p.indexBuffer != nil {
		data := make([]byte, len(indices)*4)
		for i, index := range indices {
			binary.LittleEndian.PutUint32(data[i*4:], index)
		}
		ctx.WriteBuffer(p.indexBuffer, 0, data)
	}

	data := make([]byte, len(p.vertices)*vertexStride)
	for i, v := range p.vertices {
		x, y := v.Position[0], v.Position[1]
		if p.pixelSnap {
			x = math32.Round(x)
			y = math32.Round(y)
		}
		// Pixel coordinates to clip space, y-down to y-up.
		clipX := x/float32(p.width)*2 - 1
		clipY := 1 - y/float32(p.height)*2

		offset := i * vertexStride
		putFloat32(data[offset+0:], clipX)
		putFloat32(data[offset+4:], clipY)
		putFloat32(data[offset+8:], v.UV[0])
		putFloat32(data[offset+12:], v.UV[1])
		putFloat32(data[offset+16:], v.Color[0])
		putFloat32(data[offset+20:], v.Color[1])
		putFloat32(data[offset+24:], v.Color[2])
		putFloat32(data[offset+28:], v.Color[3])
	}
	ctx.WriteBuffer(p.vertexBuffer, 0, data)

	return p.calls, nil
}

func putFloat32(data []byte, value float32) {
	binary.LittleEndian.PutUint32(data, math32.Float32bits(value))
}
