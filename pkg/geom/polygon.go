package geom

import "math"

// Polygon is a closed contour; the last point connects back to the first.
type Polygon []Point

// Area returns the signed area (positive for counter-clockwise contours).
func (pg Polygon) Area() float64 {
	var a float64
	for i := range pg {
		p, q := pg[i], pg[(i+1)%len(pg)]
		a += float64(p.X)*float64(q.Y) - float64(q.X)*float64(p.Y)
	}
	return a / 2
}

// IsDegenerate reports whether the contour has fewer than three points or
// encloses no area.
func (pg Polygon) IsDegenerate() bool {
	return len(pg) < 3 || pg.Area() == 0
}

// Contains reports whether p lies inside the contour using the crossing
// number rule. Points exactly on the boundary may go either way.
func (pg Polygon) Contains(p Point) bool {
	inside := false
	for i, j := 0, len(pg)-1; i < len(pg); j, i = i, i+1 {
		a, b := pg[i], pg[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := float64(b.X-a.X)*float64(p.Y-a.Y)/float64(b.Y-a.Y) + float64(a.X)
			if float64(p.X) < x {
				inside = !inside
			}
		}
	}
	return inside
}

// ClosestPoint returns the point on the contour closest to p and its
// distance. An empty contour yields an infinite distance.
func (pg Polygon) ClosestPoint(p Point) (Point, float64) {
	best, bestD := Point{}, math.Inf(1)
	for i := range pg {
		d, c := SegmentDistance(p, pg[i], pg[(i+1)%len(pg)])
		if d < bestD {
			best, bestD = c, d
		}
	}
	return best, bestD
}

// BBox returns the bounding box of the contour.
func (pg Polygon) BBox() BBox {
	b := EmptyBBox()
	for _, p := range pg {
		b = b.Extend(p)
	}
	return b
}

// Reversed returns a copy with the opposite orientation.
func (pg Polygon) Reversed() Polygon {
	out := make(Polygon, len(pg))
	for i, p := range pg {
		out[len(pg)-1-i] = p
	}
	return out
}

// ExPolygon is an outer contour with zero or more holes.
type ExPolygon struct {
	Contour Polygon
	Holes   []Polygon
}

// Rect returns an axis-aligned rectangular ExPolygon.
func Rect(minX, minY, maxX, maxY Coord) ExPolygon {
	return ExPolygon{Contour: Polygon{
		{X: minX, Y: minY}, {X: maxX, Y: minY}, {X: maxX, Y: maxY}, {X: minX, Y: maxY},
	}}
}

// Contains reports whether p lies inside the contour and outside every hole.
func (e ExPolygon) Contains(p Point) bool {
	if !e.Contour.Contains(p) {
		return false
	}
	for _, h := range e.Holes {
		if h.Contains(p) {
			return false
		}
	}
	return true
}

// ClosestBoundaryPoint returns the closest point on the contour or any hole.
func (e ExPolygon) ClosestBoundaryPoint(p Point) (Point, float64) {
	best, bestD := e.Contour.ClosestPoint(p)
	for _, h := range e.Holes {
		if c, d := h.ClosestPoint(p); d < bestD {
			best, bestD = c, d
		}
	}
	return best, bestD
}

// Area returns the unsigned contour area minus the hole areas.
func (e ExPolygon) Area() float64 {
	a := math.Abs(e.Contour.Area())
	for _, h := range e.Holes {
		a -= math.Abs(h.Area())
	}
	return a
}

// ExPolygons is a set of disjoint ExPolygons.
type ExPolygons []ExPolygon

// Contains reports whether any member contains p.
func (es ExPolygons) Contains(p Point) bool {
	for _, e := range es {
		if e.Contains(p) {
			return true
		}
	}
	return false
}

// ContainsWithin reports whether p lies inside the set or no farther than
// tol from its boundary.
func (es ExPolygons) ContainsWithin(p Point, tol float64) bool {
	if es.Contains(p) {
		return true
	}
	_, d, ok := es.ClosestBoundaryPoint(p)
	return ok && d <= tol
}

// ClosestBoundaryPoint returns the closest boundary point over all members.
// ok is false when the set is empty.
func (es ExPolygons) ClosestBoundaryPoint(p Point) (Point, float64, bool) {
	best, bestD := Point{}, math.Inf(1)
	for _, e := range es {
		if c, d := e.ClosestBoundaryPoint(p); d < bestD {
			best, bestD = c, d
		}
	}
	return best, bestD, !math.IsInf(bestD, 1)
}

// BBox returns the bounding box of all contours.
func (es ExPolygons) BBox() BBox {
	b := EmptyBBox()
	for _, e := range es {
		b = b.Union(e.Contour.BBox())
	}
	return b
}

// Area returns the total area of the set.
func (es ExPolygons) Area() float64 {
	var a float64
	for _, e := range es {
		a += e.Area()
	}
	return a
}
