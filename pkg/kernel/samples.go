package kernel

import "github.com/chazu/lightning/pkg/geom"

// Cell addresses one square of the global sampling grid.
type Cell struct {
	I, J int64
}

// Samples is the set of grid points that fall inside a region, at most one
// per cell of a grid anchored at the origin. Most points sit at cell
// centres, so samples taken on different layers with the same spacing line
// up exactly. A cell the region only clips may carry a point off its centre.
type Samples struct {
	Spacing geom.Coord
	Points  []geom.Point // row-major by cell: ascending J, then ascending I
	Cells   []Cell       // cell of each point, parallel to Points
}

// Add appends p as the sample of cell c.
func (s *Samples) Add(c Cell, p geom.Point) {
	s.Points = append(s.Points, p)
	s.Cells = append(s.Cells, c)
}

// Len returns the number of sample points.
func (s *Samples) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// IsEmpty returns true if no point of the grid fell inside the region.
func (s *Samples) IsEmpty() bool {
	return s.Len() == 0
}

// CellOf returns the grid cell containing p.
func CellOf(p geom.Point, spacing geom.Coord) Cell {
	return Cell{I: floorDiv(p.X, spacing), J: floorDiv(p.Y, spacing)}
}

// Center returns the sample point of the cell.
func (c Cell) Center(spacing geom.Coord) geom.Point {
	return geom.Point{X: c.I*spacing + spacing/2, Y: c.J*spacing + spacing/2}
}

// Neighbours returns the eight cells around c.
func (c Cell) Neighbours() [8]Cell {
	var out [8]Cell
	k := 0
	for dj := int64(-1); dj <= 1; dj++ {
		for di := int64(-1); di <= 1; di++ {
			if di == 0 && dj == 0 {
				continue
			}
			out[k] = Cell{I: c.I + di, J: c.J + dj}
			k++
		}
	}
	return out
}

// CellRange returns the inclusive range of cells that intersect b.
func CellRange(b geom.BBox, spacing geom.Coord) (lo, hi Cell) {
	return CellOf(b.Min, spacing), CellOf(b.Max, spacing)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
