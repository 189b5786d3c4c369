package geom

import (
	"fmt"
	"math"
)

// Coord is a scaled integer coordinate.
type Coord = int64

// ScaleFactor is the number of Coord units per millimetre.
const ScaleFactor = 1_000_000.0

// Scale converts millimetres to scaled units, rounding to the nearest unit.
func Scale(mm float64) Coord {
	return Coord(math.Round(mm * ScaleFactor))
}

// Unscale converts scaled units back to millimetres.
func Unscale(c Coord) float64 {
	return float64(c) / ScaleFactor
}

// Point is a 2D point in scaled units.
type Point struct {
	X, Y Coord
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y Coord) Point {
	return Point{X: x, Y: y}
}

// PtMM builds a point from millimetre coordinates.
func PtMM(x, y float64) Point {
	return Point{X: Scale(x), Y: Scale(y)}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
}

// Less orders points by Y, then X (row-major).
func (p Point) Less(q Point) bool {
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.X < q.X
}

func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", Unscale(p.X), Unscale(p.Y))
}

// Lerp returns the point a + t*(b-a), rounded to the nearest unit.
func Lerp(a, b Point, t float64) Point {
	return Point{
		X: a.X + Coord(math.Round(t*float64(b.X-a.X))),
		Y: a.Y + Coord(math.Round(t*float64(b.Y-a.Y))),
	}
}

// SegmentDistance returns the distance from p to the segment ab and the
// closest point on that segment.
func SegmentDistance(p, a, b Point) (float64, Point) {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return p.Distance(a), a
	}
	t := (float64(p.X-a.X)*dx + float64(p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	cx := float64(a.X) + t*dx
	cy := float64(a.Y) + t*dy
	d := math.Hypot(float64(p.X)-cx, float64(p.Y)-cy)
	return d, Point{X: Coord(math.Round(cx)), Y: Coord(math.Round(cy))}
}

// Centroid returns the arithmetic mean of pts. It returns the zero point for
// an empty slice.
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, p := range pts {
		sx += float64(p.X)
		sy += float64(p.Y)
	}
	n := float64(len(pts))
	return Point{X: Coord(math.Round(sx / n)), Y: Coord(math.Round(sy / n))}
}
