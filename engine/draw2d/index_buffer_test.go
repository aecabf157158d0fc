package draw2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireGeneratesQuadWinding(t *testing.T) {
	var b SharedIndexBuffer

	indices := b.Require(7 * VerticesPerQuad)
	require.Len(t, indices, 7*IndicesPerQuad, "seven quads need exactly 42 indices")

	for quad := 0; quad < 7; quad++ {
		base := uint32(quad * VerticesPerQuad)
		expected := []uint32{base, base + 1, base + 2, base, base + 2, base + 3}
		assert.Equal(t, expected, indices[quad*IndicesPerQuad:(quad+1)*IndicesPerQuad],
			"quad %d follows the fixed winding", quad)
	}
}

func TestRequireGrowsMonotonically(t *testing.T) {
	var b SharedIndexBuffer

	b.Require(2 * VerticesPerQuad)
	assert.True(t, b.ConsumeDirty(), "growth marks the buffer for re-upload")
	assert.Equal(t, 2*IndicesPerQuad, b.IndexCount())

	small := b.Require(VerticesPerQuad)
	assert.Len(t, small, IndicesPerQuad, "a smaller call reads a prefix of the sequence")
	assert.Equal(t, 2*IndicesPerQuad, b.IndexCount(), "the sequence never shrinks")
	assert.False(t, b.ConsumeDirty(), "no growth, no re-upload")

	b.Require(5 * VerticesPerQuad)
	assert.Equal(t, 5*IndicesPerQuad, b.IndexCount())
	assert.True(t, b.ConsumeDirty())
}

func TestRequireRejectsPartialQuads(t *testing.T) {
	var b SharedIndexBuffer

	assert.Panics(t, func() { b.Require(5) })
	assert.NotPanics(t, func() { b.Require(0) })
}
