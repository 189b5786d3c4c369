package geom

import "math"

// BBox is an axis-aligned bounding box. A box whose Min exceeds its Max on
// either axis is empty.
type BBox struct {
	Min, Max Point
}

// EmptyBBox returns a box that contains nothing and absorbs the first point
// passed to Extend.
func EmptyBBox() BBox {
	return BBox{
		Min: Point{X: math.MaxInt64, Y: math.MaxInt64},
		Max: Point{X: math.MinInt64, Y: math.MinInt64},
	}
}

// IsEmpty reports whether the box contains no points.
func (b BBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Extend returns the smallest box containing b and p.
func (b BBox) Extend(p Point) BBox {
	return BBox{
		Min: Point{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y)},
		Max: Point{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y)},
	}
}

// Union returns the smallest box containing both boxes.
func (b BBox) Union(o BBox) BBox {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Intersect returns the overlap of both boxes, possibly empty.
func (b BBox) Intersect(o BBox) BBox {
	return BBox{
		Min: Point{X: max(b.Min.X, o.Min.X), Y: max(b.Min.Y, o.Min.Y)},
		Max: Point{X: min(b.Max.X, o.Max.X), Y: min(b.Max.Y, o.Max.Y)},
	}
}

// Grow expands the box by d on every side. Negative d shrinks it and may
// leave it empty.
func (b BBox) Grow(d Coord) BBox {
	if b.IsEmpty() {
		return b
	}
	return BBox{
		Min: Point{X: b.Min.X - d, Y: b.Min.Y - d},
		Max: Point{X: b.Max.X + d, Y: b.Max.Y + d},
	}
}

// Contains reports whether p lies inside the closed box.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
