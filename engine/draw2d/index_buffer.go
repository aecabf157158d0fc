package draw2d

import "fmt"

// Quad layout constants: every 2D draw call is made of quads, four vertices each,
// expanded into two triangles with a fixed clockwise winding.
const (
	VerticesPerQuad = 4
	IndicesPerQuad  = 6
)

// quadWinding is the index pattern for one quad, relative to its base vertex.
var quadWinding = [IndicesPerQuad]uint32{0, 1, 2, 0, 2, 3}

// SharedIndexBuffer is the quad index buffer shared by all 2D draw calls. Because the
// winding pattern is identical for every quad, one monotonically growing index sequence
// serves any draw call: a call using n quads simply reads the first 6n indices. The
// sequence only ever grows; growth marks the buffer for a GPU re-upload.
type SharedIndexBuffer struct {
	indices []uint32
	dirty   bool
}

// Require ensures the index sequence covers vertexCount vertices and returns the exact
// slice of indices a draw call over those vertices consumes. Fatal if vertexCount is not
// a whole number of quads.
//
// Parameters:
//   - vertexCount: the vertex count of the draw call, a multiple of 4
//
// Returns:
//   - []uint32: the first vertexCount/4*6 indices; valid until the next Require
func (b *SharedIndexBuffer) Require(vertexCount int) []uint32 {
	if vertexCount%VerticesPerQuad != 0 {
		panic(fmt.Sprintf("draw2d: vertex count %d is not a whole number of quads", vertexCount))
	}
	quads := vertexCount / VerticesPerQuad

	for haveQuads := len(b.indices) / IndicesPerQuad; haveQuads < quads; haveQuads++ {
		base := uint32(haveQuads * VerticesPerQuad)
		for _, offset := range quadWinding {
			b.indices = append(b.indices, base+offset)
		}
		b.dirty = true
	}

	return b.indices[:quads*IndicesPerQuad]
}

// IndexCount returns the number of generated indices.
func (b *SharedIndexBuffer) IndexCount() int {
	return len(b.indices)
}

// ConsumeDirty reports whether the sequence grew since the last call and resets the flag.
// The caller re-uploads the whole sequence when true; growth is rare after warmup.
//
// Returns:
//   - bool: true if the index data must be re-uploaded
func (b *SharedIndexBuffer) ConsumeDirty() bool {
	dirty := b.dirty
	b.dirty = false
	return dirty
}
