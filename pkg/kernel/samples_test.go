package kernel

import (
	"testing"

	"github.com/chazu/lightning/pkg/geom"
)

func TestCellOf(t *testing.T) {
	tests := []struct {
		p    geom.Point
		want Cell
	}{
		{geom.Pt(0, 0), Cell{0, 0}},
		{geom.Pt(99, 100), Cell{0, 1}},
		{geom.Pt(-1, -100), Cell{-1, -1}},
		{geom.Pt(-101, 250), Cell{-2, 2}},
	}
	for _, tt := range tests {
		if got := CellOf(tt.p, 100); got != tt.want {
			t.Errorf("CellOf(%v) = %+v, want %+v", tt.p, got, tt.want)
		}
	}
}

func TestCellCenterRoundTrip(t *testing.T) {
	for i := int64(-3); i <= 3; i++ {
		for j := int64(-3); j <= 3; j++ {
			c := Cell{i, j}
			if got := CellOf(c.Center(40), 40); got != c {
				t.Errorf("CellOf(Center(%+v)) = %+v", c, got)
			}
		}
	}
}

func TestSamplesNil(t *testing.T) {
	var s *Samples
	if s.Len() != 0 || !s.IsEmpty() {
		t.Error("nil samples should be empty")
	}
}

func TestNeighbours(t *testing.T) {
	c := Cell{2, -1}
	seen := map[Cell]bool{}
	for _, n := range c.Neighbours() {
		if n == c {
			t.Fatal("cell listed as its own neighbour")
		}
		if d := max(abs(n.I-c.I), abs(n.J-c.J)); d != 1 {
			t.Errorf("%+v is not adjacent to %+v", n, c)
		}
		seen[n] = true
	}
	if len(seen) != 8 {
		t.Errorf("got %d distinct neighbours, want 8", len(seen))
	}
}

func TestSamplesAdd(t *testing.T) {
	s := &Samples{Spacing: 10}
	s.Add(Cell{0, 0}, geom.Pt(5, 5))
	s.Add(Cell{1, 0}, geom.Pt(11, 2))
	if s.Len() != 2 || len(s.Cells) != 2 {
		t.Fatalf("got %d points and %d cells", s.Len(), len(s.Cells))
	}
	if s.Cells[1] != (Cell{1, 0}) || s.Points[1] != geom.Pt(11, 2) {
		t.Errorf("second sample = %+v at %v", s.Cells[1], s.Points[1])
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
