package lightning

import (
	"slices"

	"github.com/chazu/lightning/pkg/geom"
	"github.com/chazu/lightning/pkg/kernel"
)

// coverage tracks which need samples of a layer are already within reach of
// the forest. A sample stands for its grid cell, so it counts as covered
// once the forest passes within the supporting radius plus half a pitch.
type coverage struct {
	spacing   geom.Coord
	radius    float64
	points    []geom.Point
	keys      []kernel.Cell
	cells     map[kernel.Cell]int // cell -> index into points
	covered   []bool
	remaining int
}

func newCoverage(s *kernel.Samples, radius geom.Coord) *coverage {
	c := &coverage{
		radius: float64(radius),
		cells:  make(map[kernel.Cell]int, s.Len()),
	}
	if s.IsEmpty() {
		return c
	}
	c.spacing = s.Spacing
	c.radius += float64(s.Spacing) / 2
	c.points = s.Points
	c.keys = s.Cells
	c.covered = make([]bool, len(s.Points))
	c.remaining = len(s.Points)
	for i, cell := range s.Cells {
		c.cells[cell] = i
	}
	return c
}

// coverSegment marks every sample within the radius of segment ab. A point
// is the segment with a == b.
func (c *coverage) coverSegment(a, b geom.Point) {
	if c.remaining == 0 {
		return
	}
	// Samples may sit up to a pitch away from their cell centre.
	box := geom.EmptyBBox().Extend(a).Extend(b).Grow(geom.Coord(c.radius) + c.spacing + 1)
	lo, hi := kernel.CellRange(box, c.spacing)
	for j := lo.J; j <= hi.J; j++ {
		for i := lo.I; i <= hi.I; i++ {
			idx, ok := c.cells[kernel.Cell{I: i, J: j}]
			if !ok || c.covered[idx] {
				continue
			}
			if d, _ := geom.SegmentDistance(c.points[idx], a, b); d <= c.radius {
				c.covered[idx] = true
				c.remaining--
			}
		}
	}
}

// coverLayer marks everything the current forest of l covers.
func (c *coverage) coverLayer(l *Layer) {
	l.Walk(func(_ NodeID, n Node, _ int) {
		if n.Parent == NoNode {
			c.coverSegment(n.Pos, n.Pos)
			return
		}
		c.coverSegment(l.nodes[n.Parent].Pos, n.Pos)
	})
}

// islands returns the 8-connected components of all samples, covered or
// not, each in row-major order, ordered by their first sample.
func (c *coverage) islands() [][]int {
	var out [][]int
	seen := make([]bool, len(c.points))
	for start := range c.points {
		if seen[start] {
			continue
		}
		out = append(out, c.flood(start, seen, func(int) bool { return true }))
	}
	return out
}

// firstComponent returns the 8-connected component of uncovered samples
// that contains the first uncovered sample in row-major order. The result is
// in row-major order.
func (c *coverage) firstComponent() []int {
	start := slices.Index(c.covered, false)
	if start < 0 {
		return nil
	}
	seen := make([]bool, len(c.points))
	return c.flood(start, seen, func(idx int) bool { return !c.covered[idx] })
}

// flood collects the samples 8-connected to start through samples that
// pass keep, marking them in seen.
func (c *coverage) flood(start int, seen []bool, keep func(int) bool) []int {
	seen[start] = true
	members := []int{start}
	for k := 0; k < len(members); k++ {
		for _, cell := range c.keys[members[k]].Neighbours() {
			n, ok := c.cells[cell]
			if !ok || seen[n] || !keep(n) {
				continue
			}
			seen[n] = true
			members = append(members, n)
		}
	}
	slices.Sort(members)
	return members
}

// touched reports whether any sample of comp is covered.
func (c *coverage) touched(comp []int) bool {
	for _, idx := range comp {
		if c.covered[idx] {
			return true
		}
	}
	return false
}

// frontier returns the first sample of comp with a covered neighbour, or -1
// when the component borders nothing covered.
func (c *coverage) frontier(comp []int) int {
	for _, idx := range comp {
		for _, cell := range c.keys[idx].Neighbours() {
			if n, ok := c.cells[cell]; ok && c.covered[n] {
				return idx
			}
		}
	}
	return -1
}

// pointsOf returns the sample positions of comp.
func (c *coverage) pointsOf(comp []int) []geom.Point {
	out := make([]geom.Point, len(comp))
	for i, idx := range comp {
		out[i] = c.points[idx]
	}
	return out
}
