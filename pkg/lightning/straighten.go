package lightning

import "github.com/chazu/lightning/pkg/geom"

// straighten simplifies every non-branching run of the forest. A run goes
// from a node to the next node that is a leaf, a branch point or needed;
// its interior nodes have one child and no need. Kept nodes never move, so
// dropped ones stay within the straightening distance of the new path.
func (b *Builder) straighten(l *Layer, st *Stats) {
	tol := float64(b.params.StraighteningMaxDistance)
	if tol <= 0 {
		return
	}
	stack := append([]NodeID(nil), l.roots...)
	for len(stack) > 0 {
		start := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range append([]NodeID(nil), l.nodes[start].Children...) {
			run := l.run(start, c)
			st.Straightened += l.simplifyRun(run, tol)
			stack = append(stack, run[len(run)-1])
		}
	}
}

// run returns start, first and the chain of interior nodes following first
// up to and including the node that ends the run.
func (l *Layer) run(start, first NodeID) []NodeID {
	run := []NodeID{start, first}
	cur := first
	for {
		n := l.nodes[cur]
		if len(n.Children) != 1 || l.need(n.Pos) {
			return run
		}
		cur = n.Children[0]
		run = append(run, cur)
	}
}

// simplifyRun drops the interior nodes of run that Douglas-Peucker discards
// and relinks the survivors. It returns the number of nodes dropped.
func (l *Layer) simplifyRun(run []NodeID, tol float64) int {
	if len(run) < 3 {
		return 0
	}
	pts := make([]geom.Point, len(run))
	for i, id := range run {
		pts[i] = l.nodes[id].Pos
	}
	keep := geom.Simplify(pts, tol)
	if len(keep) == len(run) {
		return 0
	}
	for k := 1; k < len(keep); k++ {
		from, to := run[keep[k-1]], run[keep[k]]
		if keep[k]-keep[k-1] == 1 {
			continue
		}
		for _, dropped := range run[keep[k-1]+1 : keep[k]] {
			l.nodes[dropped].removed = true
			l.nodes[dropped].Children = nil
		}
		old := run[keep[k-1]+1]
		children := l.nodes[from].Children
		for i, c := range children {
			if c == old {
				children[i] = to
			}
		}
		l.nodes[to].Parent = from
	}
	l.dirty = true
	return len(run) - len(keep)
}
