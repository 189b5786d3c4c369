package lightning

import "github.com/chazu/lightning/pkg/geom"

// minCut is the shortest stub, in scaled units, that pruning leaves behind
// when it cuts a segment back.
const minCut = 1.0

// prune removes every node whose Dist exceeds the prune length. The first
// overshooting node of a branch is pulled back along its parent segment to
// the point at exactly the prune length; everything past it goes. Needed
// nodes further down are detached first and live on as roots.
func (b *Builder) prune(l *Layer, area geom.ExPolygons, st *Stats) {
	limit := float64(b.params.PruneLength)
	queue := append([]NodeID(nil), l.roots...)
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		if !l.valid(r) {
			continue
		}
		for _, n := range l.overshoots(r, limit) {
			if !l.valid(n) {
				continue
			}
			for _, m := range l.neededBelow(n) {
				l.detach(m)
				queue = append(queue, m)
			}
			st.Pruned += b.cutBack(l, n, limit, area)
		}
	}
}

// cutBack shortens the segment into n so that n sits at the prune length,
// dropping n's subtree. When the remaining stub is too short or the cut
// point falls outside the area, n is pruned outright. It returns the number
// of nodes removed or moved.
func (b *Builder) cutBack(l *Layer, n NodeID, limit float64, area geom.ExPolygons) int {
	node := l.nodes[n]
	if node.Parent == NoNode {
		return l.Prune(n)
	}
	parent := l.nodes[node.Parent]
	seg := parent.Pos.Distance(node.Pos)
	slack := limit - parent.Dist
	if slack < minCut || seg == 0 {
		return l.Prune(n)
	}
	cut := geom.Lerp(parent.Pos, node.Pos, slack/seg)
	if parent.Dist+parent.Pos.Distance(cut) > limit {
		cut = geom.Lerp(parent.Pos, node.Pos, (slack-minCut)/seg)
	}
	if !area.ContainsWithin(cut, boundaryTol) {
		return l.Prune(n)
	}
	removed := 1
	for _, c := range append([]NodeID(nil), node.Children...) {
		removed += l.removeSubtree(c)
	}
	moved := &l.nodes[n]
	moved.Pos = cut
	moved.Dist = parent.Dist + parent.Pos.Distance(cut)
	l.dirty = true
	return removed
}

// overshoots returns, in walk order, the nodes under root whose Dist exceeds
// limit while their parent's does not. The walk does not descend past them.
func (l *Layer) overshoots(root NodeID, limit float64) []NodeID {
	var out []NodeID
	stack := []NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := l.nodes[id]
		if n.Dist > limit {
			out = append(out, id)
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return out
}

// neededBelow returns the topmost needed nodes strictly below id.
func (l *Layer) neededBelow(id NodeID) []NodeID {
	var out []NodeID
	stack := append([]NodeID(nil), l.nodes[id].Children...)
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if l.need(l.nodes[c].Pos) {
			out = append(out, c)
			continue
		}
		stack = append(stack, l.nodes[c].Children...)
	}
	return out
}
