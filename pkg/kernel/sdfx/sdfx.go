// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
//
// Regions are 2D signed distance functions evaluated in scaled units. The
// kernel tracks bounding boxes itself so that emptiness and sampling bounds
// never depend on the SDF's own (sometimes loose) box.
package sdfx

import (
	"math"

	"github.com/chazu/lightning/pkg/geom"
	"github.com/chazu/lightning/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// sdfxRegion wraps an sdf.SDF2 to implement kernel.Region. A nil SDF marks
// the empty region.
type sdfxRegion struct {
	s  sdf.SDF2
	bb geom.BBox
}

// BoundingBox returns the tracked bounding box.
func (r *sdfxRegion) BoundingBox() geom.BBox {
	return r.bb
}

func (r *sdfxRegion) isEmpty() bool {
	return r.s == nil || r.bb.IsEmpty()
}

var emptyRegion = &sdfxRegion{bb: geom.EmptyBBox()}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying region from a kernel.Region.
func unwrap(r kernel.Region) *sdfxRegion {
	if r == nil {
		return emptyRegion
	}
	return r.(*sdfxRegion)
}

// wrap creates a kernel.Region from an sdf.SDF2 and its box.
func wrap(s sdf.SDF2, bb geom.BBox) kernel.Region {
	if s == nil || bb.IsEmpty() {
		return emptyRegion
	}
	return &sdfxRegion{s: s, bb: bb}
}

func toVec(p geom.Point) v2.Vec {
	return v2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

// polygonSDF converts a contour. Degenerate contours (fewer than three
// points, zero area, or rejected by sdfx) yield false and are treated as
// empty.
func polygonSDF(pg geom.Polygon) (sdf.SDF2, bool) {
	if pg.IsDegenerate() {
		return nil, false
	}
	verts := make([]v2.Vec, len(pg))
	for i, p := range pg {
		verts[i] = toVec(p)
	}
	s, err := sdf.Polygon2D(verts)
	if err != nil {
		return nil, false
	}
	return s, true
}

// FromExPolygons builds a region from polygons with holes.
func (k *SdfxKernel) FromExPolygons(polys geom.ExPolygons) kernel.Region {
	var parts []sdf.SDF2
	bb := geom.EmptyBBox()

	for _, e := range polys {
		outer, ok := polygonSDF(e.Contour)
		if !ok {
			continue
		}
		var holes []sdf.SDF2
		for _, h := range e.Holes {
			if hs, ok := polygonSDF(h); ok {
				holes = append(holes, hs)
			}
		}
		if len(holes) > 0 {
			outer = sdf.Difference2D(outer, sdf.Union2D(holes...))
		}
		parts = append(parts, outer)
		bb = bb.Union(e.Contour.BBox())
	}

	switch len(parts) {
	case 0:
		return emptyRegion
	case 1:
		return wrap(parts[0], bb)
	}
	return wrap(sdf.Union2D(parts...), bb)
}

// Empty returns the empty region.
func (k *SdfxKernel) Empty() kernel.Region {
	return emptyRegion
}

// Union returns the union of two regions.
func (k *SdfxKernel) Union(a, b kernel.Region) kernel.Region {
	ra, rb := unwrap(a), unwrap(b)
	switch {
	case ra.isEmpty():
		return rb
	case rb.isEmpty():
		return ra
	}
	return wrap(sdf.Union2D(ra.s, rb.s), ra.bb.Union(rb.bb))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Region) kernel.Region {
	ra, rb := unwrap(a), unwrap(b)
	if ra.isEmpty() {
		return emptyRegion
	}
	if rb.isEmpty() || ra.bb.Intersect(rb.bb).IsEmpty() {
		return ra
	}
	return wrap(sdf.Difference2D(ra.s, rb.s), ra.bb)
}

// Intersection returns the intersection of two regions.
func (k *SdfxKernel) Intersection(a, b kernel.Region) kernel.Region {
	ra, rb := unwrap(a), unwrap(b)
	if ra.isEmpty() || rb.isEmpty() {
		return emptyRegion
	}
	bb := ra.bb.Intersect(rb.bb)
	if bb.IsEmpty() {
		return emptyRegion
	}
	return wrap(sdf.Intersect2D(ra.s, rb.s), bb)
}

// Offset grows (delta > 0) or shrinks (delta < 0) a region.
func (k *SdfxKernel) Offset(r kernel.Region, delta geom.Coord) kernel.Region {
	rr := unwrap(r)
	if rr.isEmpty() || delta == 0 {
		return rr
	}
	bb := rr.bb.Grow(delta)
	if bb.IsEmpty() {
		return emptyRegion
	}
	return wrap(sdf.Offset2D(rr.s, float64(delta)), bb)
}

// Contains reports whether p lies inside the region (boundary included).
func (k *SdfxKernel) Contains(r kernel.Region, p geom.Point) bool {
	rr := unwrap(r)
	if rr.isEmpty() || !rr.bb.Contains(p) {
		return false
	}
	return rr.s.Evaluate(toVec(p)) <= 0
}

// Sample returns one need point per grid cell the region occupies. A cell
// whose centre lies inside contributes its centre. A cell the region only
// clips contributes a point pulled onto the region from its centre, but only
// where no neighbouring centre is inside or where it borders such a cell.
// Regions thinner than the spacing are sampled this way without adding
// points along the outline of wide ones.
func (k *SdfxKernel) Sample(r kernel.Region, spacing geom.Coord) *kernel.Samples {
	out := &kernel.Samples{Spacing: spacing}
	rr := unwrap(r)
	if rr.isEmpty() || spacing <= 0 {
		return out
	}

	lo, hi := kernel.CellRange(rr.bb, spacing)
	reach := float64(spacing) * math.Sqrt2 / 2
	inside := make(map[kernel.Cell]bool)
	clipped := make(map[kernel.Cell]bool)
	for j := lo.J; j <= hi.J; j++ {
		for i := lo.I; i <= hi.I; i++ {
			c := kernel.Cell{I: i, J: j}
			p := c.Center(spacing)
			switch d := rr.s.Evaluate(toVec(p)); {
			case d <= 0 && rr.bb.Contains(p):
				inside[c] = true
			case d <= reach:
				clipped[c] = true
			}
		}
	}
	seeded := seedCells(inside, clipped)

	for j := lo.J; j <= hi.J; j++ {
		for i := lo.I; i <= hi.I; i++ {
			c := kernel.Cell{I: i, J: j}
			switch {
			case inside[c]:
				out.Add(c, c.Center(spacing))
			case seeded[c]:
				if p, ok := pullInside(rr, c.Center(spacing), spacing); ok {
					out.Add(c, p)
				}
			}
		}
	}
	return out
}

// seedCells picks the clipped cells that get a sample: those without an
// inside neighbour, plus the clipped cells next to them.
func seedCells(inside, clipped map[kernel.Cell]bool) map[kernel.Cell]bool {
	isolated := make(map[kernel.Cell]bool)
	for c := range clipped {
		lonely := true
		for _, n := range c.Neighbours() {
			if inside[n] {
				lonely = false
				break
			}
		}
		if lonely {
			isolated[c] = true
		}
	}
	seeded := make(map[kernel.Cell]bool, len(isolated))
	for c := range isolated {
		seeded[c] = true
		for _, n := range c.Neighbours() {
			if clipped[n] {
				seeded[n] = true
			}
		}
	}
	return seeded
}

// pullInside walks p down the distance gradient until it lands a little
// inside the region. It fails when the walk strays more than one spacing
// from p.
func pullInside(rr *sdfxRegion, p geom.Point, spacing geom.Coord) (geom.Point, bool) {
	h := math.Max(float64(spacing)/256, 1)
	inset := float64(spacing) / 32
	v := toVec(p)
	for range 6 {
		d := rr.s.Evaluate(v)
		gx := (rr.s.Evaluate(v2.Vec{X: v.X + h, Y: v.Y}) - rr.s.Evaluate(v2.Vec{X: v.X - h, Y: v.Y})) / (2 * h)
		gy := (rr.s.Evaluate(v2.Vec{X: v.X, Y: v.Y + h}) - rr.s.Evaluate(v2.Vec{X: v.X, Y: v.Y - h})) / (2 * h)
		g := math.Hypot(gx, gy)
		if g == 0 || math.IsNaN(g) {
			return geom.Point{}, false
		}
		step := (d + inset) / g
		v = v2.Vec{X: v.X - gx/g*step, Y: v.Y - gy/g*step}
		q := geom.Pt(geom.Coord(math.Round(v.X)), geom.Coord(math.Round(v.Y)))
		if q.Distance(p) > float64(spacing) {
			return geom.Point{}, false
		}
		if rr.bb.Contains(q) && rr.s.Evaluate(toVec(q)) <= 0 {
			return q, true
		}
		inset /= 2
	}
	return geom.Point{}, false
}
