package geom

import "math"

// Polyline is an open sequence of points.
type Polyline []Point

// Length returns the summed segment length.
func (pl Polyline) Length() float64 {
	var l float64
	for i := 1; i < len(pl); i++ {
		l += pl[i-1].Distance(pl[i])
	}
	return l
}

// Distance returns the distance from p to the nearest point of the polyline.
// A single-point polyline measures to that point; an empty one is infinitely
// far away.
func (pl Polyline) Distance(p Point) float64 {
	switch len(pl) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Distance(pl[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(pl); i++ {
		if d, _ := SegmentDistance(p, pl[i-1], pl[i]); d < best {
			best = d
		}
	}
	return best
}

// Simplify runs Douglas-Peucker over pts and returns the indices of the
// points to keep, in order. The first and last points are always kept and
// every dropped point lies within tol of the simplified polyline.
func Simplify(pts []Point, tol float64) []int {
	if len(pts) <= 2 {
		keep := make([]int, len(pts))
		for i := range keep {
			keep[i] = i
		}
		return keep
	}

	marked := make([]bool, len(pts))
	marked[0], marked[len(pts)-1] = true, true

	// Explicit stack of [first, last] spans keeps deep runs off the call stack.
	stack := [][2]int{{0, len(pts) - 1}}
	for len(stack) > 0 {
		span := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		first, last := span[0], span[1]

		worst, worstD := -1, tol
		for i := first + 1; i < last; i++ {
			if d, _ := SegmentDistance(pts[i], pts[first], pts[last]); d > worstD {
				worst, worstD = i, d
			}
		}
		if worst < 0 {
			continue
		}
		marked[worst] = true
		stack = append(stack, [2]int{first, worst}, [2]int{worst, last})
	}

	keep := make([]int, 0, len(pts))
	for i, m := range marked {
		if m {
			keep = append(keep, i)
		}
	}
	return keep
}

// SimplifyPolyline returns the Douglas-Peucker simplification of pl.
func SimplifyPolyline(pl Polyline, tol float64) Polyline {
	keep := Simplify(pl, tol)
	out := make(Polyline, len(keep))
	for i, k := range keep {
		out[i] = pl[k]
	}
	return out
}
