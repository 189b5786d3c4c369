package lightning

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/chazu/lightning/pkg/geom"
)

const mm = geom.Coord(geom.ScaleFactor)

func rectMM(x0, y0, x1, y1 float64) geom.ExPolygons {
	return geom.ExPolygons{geom.Rect(geom.Scale(x0), geom.Scale(y0), geom.Scale(x1), geom.Scale(y1))}
}

func quiet() Option {
	return WithLogger(log.New(io.Discard))
}

// testParams returns a 1 mm supporting radius on a 1 mm sampling grid with
// no wall support and no straightening.
func testParams() Params {
	return Params{
		InfillExtrusionWidth: geom.Scale(0.4),
		SupportingRadius:     mm,
		PruneLength:          2 * mm,
		SampleSpacing:        mm,
	}
}

// positions returns the live node positions of l in walk order.
func positions(l *Layer) []geom.Point {
	var out []geom.Point
	l.Walk(func(_ NodeID, n Node, _ int) {
		out = append(out, n.Pos)
	})
	return out
}

// checkForest returns a description of the first structural problem in l,
// or "" when every live node is reached once from exactly one root and
// parent and child links agree.
func checkForest(l *Layer) string {
	seen := make(map[NodeID]bool)
	problem := ""
	l.Walk(func(id NodeID, n Node, _ int) {
		if problem != "" {
			return
		}
		if seen[id] {
			problem = "node visited twice"
			return
		}
		seen[id] = true
		for _, c := range n.Children {
			if l.Node(c).Parent != id {
				problem = "child does not point back to parent"
				return
			}
		}
		if n.Parent != NoNode {
			count := 0
			for _, c := range l.Node(n.Parent).Children {
				if c == id {
					count++
				}
			}
			if count != 1 {
				problem = "node not owned exactly once by its parent"
			}
		}
	})
	if problem == "" && len(seen) != l.Len() {
		problem = "live nodes unreachable from roots"
	}
	return problem
}
