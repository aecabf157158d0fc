package drawable

import "fmt"

// MeshDrawable is the narrow view of the mesh drawable kind, satisfied by engine/mesh.Mesh.
// It exists here so the Visitor can name the kind without a dependency cycle.
type MeshDrawable interface {
	Drawable

	// BoundingRadius returns the object-space bounding sphere radius of the packed geometry.
	BoundingRadius() float32
}

// Visitor dispatches over the closed set of concrete drawable kinds. Adding a kind means
// adding a method here, which turns every forgotten call site into a compile error instead
// of a silently wrong default branch.
type Visitor interface {
	// VisitMesh handles the mesh drawable kind.
	VisitMesh(d MeshDrawable)

	// VisitOther handles any kind without a dedicated method. Visitors that must be
	// exhaustive call FailUnhandled here.
	VisitOther(d Drawable)
}

// FailUnhandled aborts on an unhandled drawable kind. For visitors where falling through
// silently would hide a missing case.
//
// Parameters:
//   - d: the drawable whose kind was not handled
func FailUnhandled(d Drawable) {
	panic(fmt.Sprintf("drawable: unhandled drawable kind %T (entry %d)", d, d.EntryIndex()))
}
