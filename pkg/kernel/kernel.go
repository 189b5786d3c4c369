// Package kernel defines the abstract region kernel interface.
// Implementations (sdfx) provide planar boolean and offset operations
// behind this interface. The kernel abstraction keeps the overhang
// calculator and the tree builder independent of the geometry backend.
package kernel

import "github.com/chazu/lightning/pkg/geom"

// Region is an opaque handle to a planar region owned by a kernel.
// Implementations wrap their internal representation. Regions are
// immutable; every operation returns a new handle.
type Region interface {
	// BoundingBox returns a box enclosing the region. It may be looser than
	// the region itself; an empty box means the region is known to be empty.
	BoundingBox() geom.BBox
}

// Kernel is the abstract region kernel interface.
type Kernel interface {
	// Construction
	FromExPolygons(polys geom.ExPolygons) Region
	Empty() Region

	// Boolean operations
	Union(a, b Region) Region
	Difference(a, b Region) Region
	Intersection(a, b Region) Region

	// Offset grows the region by delta, or shrinks it when delta is negative.
	Offset(r Region, delta geom.Coord) Region

	// Queries
	Contains(r Region, p geom.Point) bool

	// Sample returns need points of r on the grid of the given spacing.
	// Every part of a non-empty region yields at least one point, including
	// parts narrower than the spacing.
	Sample(r Region, spacing geom.Coord) *Samples
}
