package animator

// DefaultThreadGroupSize is the compute shader's thread group width. Dispatch counts are
// rounded up so every geometry element of a mesh is covered by exactly one invocation.
const DefaultThreadGroupSize uint32 = 64

// GPUMeshConstants is the root-constant block carried by each per-mesh animation dispatch.
// Layout must match the compute shader's constant declaration.
type GPUMeshConstants struct {
	// MeshIndex is the mesh's slot in the GPU-visible descriptor list.
	MeshIndex uint32
	// ElementCount is the number of geometry elements the dispatch animates.
	ElementCount uint32
}

// Pack flattens the constants into root-constant words.
//
// Returns:
//   - []uint32: the constant words in declaration order
func (c GPUMeshConstants) Pack() []uint32 {
	return []uint32{c.MeshIndex, c.ElementCount}
}
