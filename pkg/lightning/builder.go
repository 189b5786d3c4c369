package lightning

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/chazu/lightning/pkg/errors"
	"github.com/chazu/lightning/pkg/geom"
	"github.com/chazu/lightning/pkg/kernel"
)

// boundaryTol absorbs the rounding of points snapped onto the area outline.
const boundaryTol = 1.0

// LayerInput is what one builder step needs about its layer.
type LayerInput struct {
	Index    int
	Overhang kernel.Region
	Area     geom.ExPolygons // printable area; nodes never leave it
}

// Builder grows the forest one layer at a time from the top down. It keeps
// the previously finished layer as the source of the next carry-down.
type Builder struct {
	k      kernel.Kernel
	params Params
	picker Representative
	logger *log.Logger

	above *Layer
	stats Stats
}

// NewBuilder validates p and returns a builder with no layer above.
func NewBuilder(k kernel.Kernel, p Params, opts ...Option) (*Builder, error) {
	if k == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil kernel")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	return &Builder{
		k:      k,
		params: p.withDefaults(),
		picker: o.picker,
		logger: o.logger,
	}, nil
}

// Stats returns the running totals over all steps so far.
func (b *Builder) Stats() Stats {
	return b.stats
}

// Step builds and freezes the forest of one layer. Steps must be taken from
// the top layer down.
func (b *Builder) Step(in LayerInput) *Layer {
	need := func(p geom.Point) bool {
		return b.k.Contains(in.Overhang, p)
	}
	l := NewLayer(in.Index, need)
	st := Stats{Layers: 1}

	b.carryDown(l, in, &st)
	b.grow(l, in, &st)
	b.accountDistances(l)
	b.prune(l, in.Area, &st)
	b.straighten(l, &st)
	b.accountDistances(l)
	l.Freeze()

	b.logger.Debug("layer built",
		"layer", in.Index,
		"nodes", l.Len(),
		"roots", len(l.roots),
		"spawned", st.RootsSpawned,
		"grown", st.Grown,
		"branched", st.Branched,
		"pruned", st.Pruned,
		"straightened", st.Straightened,
	)
	b.above = l
	b.stats.add(st)
	return l
}

// carryDown copies the layer above into l node by node, parents first.
// Nodes outside the printable area snap to its boundary when it is within
// the supporting radius and are dropped otherwise. Children of a dropped
// node become roots.
func (b *Builder) carryDown(l *Layer, in LayerInput, st *Stats) {
	if b.above == nil {
		return
	}
	reach := float64(b.params.SupportingRadius)
	remap := make([]NodeID, len(b.above.nodes))
	b.above.Walk(func(id NodeID, n Node, _ int) {
		remap[id] = NoNode
		pos := n.Pos
		if !in.Area.ContainsWithin(pos, boundaryTol) {
			c, d, ok := in.Area.ClosestBoundaryPoint(pos)
			if !ok || d > reach {
				st.Dropped++
				return
			}
			pos = c
			st.Snapped++
		}
		parent := NoNode
		if n.Parent != NoNode {
			parent = remap[n.Parent]
		}
		remap[id] = l.addNode(pos, parent, id, n.Dist)
	})
}

// grow adds nodes until every need sample is covered. Each island of need
// that the carried-down forest does not touch gets exactly one fresh tree.
// Every other uncovered sample branches off the forest.
func (b *Builder) grow(l *Layer, in LayerInput, st *Stats) {
	samples := b.k.Sample(in.Overhang, b.params.SampleSpacing)
	if samples.IsEmpty() {
		return
	}
	cov := newCoverage(samples, b.params.SupportingRadius)
	cov.coverLayer(l)

	var fresh [][]int
	for _, island := range cov.islands() {
		if !cov.touched(island) {
			fresh = append(fresh, island)
		}
	}
	for _, island := range fresh {
		b.plant(l, in, b.pickTarget(cov.pointsOf(island), l, cov.radius), cov, st)
	}

	reach := float64(b.params.BranchReach)
	for cov.remaining > 0 {
		comp := cov.firstComponent()
		target := b.pickTarget(cov.pointsOf(comp), l, cov.radius)
		if parent, ok := l.NearestNode(target, reach); ok {
			l.GrowChild(parent, target)
			st.Grown++
			cov.coverSegment(l.nodes[parent].Pos, target)
			continue
		}

		// Out of reach: grow from the sample that borders covered need.
		edge := cov.frontier(comp)
		if edge < 0 {
			b.plant(l, in, target, cov, st)
			continue
		}
		p := cov.points[edge]
		parent := b.attachPoint(l, p, in.Area, st)
		if parent == NoNode {
			b.plant(l, in, p, cov, st)
			continue
		}
		l.GrowChild(parent, p)
		st.Grown++
		cov.coverSegment(l.nodes[parent].Pos, p)
	}
}

// plant starts a fresh tree that supports target, anchored on the outline
// when wall grounding is on and the outline is in reach.
func (b *Builder) plant(l *Layer, in LayerInput, target geom.Point, cov *coverage, st *Stats) {
	st.RootsSpawned++
	if b.params.WallGrounding {
		anchor, d, ok := in.Area.ClosestBoundaryPoint(target)
		if ok && d > 0 && d <= float64(b.params.BranchReach) {
			root := l.AddRoot(anchor)
			l.GrowChild(root, target)
			st.Grown++
			cov.coverSegment(anchor, target)
			return
		}
	}
	l.AddRoot(target)
	cov.coverSegment(target, target)
}

// attachPoint returns the node closest to p over the whole forest. When a
// point inside the area between two nodes is closer than either node, the
// segment is split there and the new node is returned.
func (b *Builder) attachPoint(l *Layer, p geom.Point, area geom.ExPolygons, st *Stats) NodeID {
	best, bestD := NoNode, math.Inf(1)
	var at geom.Point
	split := false
	l.Walk(func(id NodeID, n Node, _ int) {
		if d := n.Pos.Distance(p); d < bestD {
			best, bestD, split = id, d, false
		}
		if n.Parent == NoNode {
			return
		}
		from := l.nodes[n.Parent].Pos
		d, q := geom.SegmentDistance(p, from, n.Pos)
		if d < bestD && q != from && q != n.Pos && area.ContainsWithin(q, boundaryTol) {
			best, bestD, at, split = id, d, q, true
		}
	})
	if !split {
		return best
	}
	st.Branched++
	return l.splitEdge(best, at)
}

// pickTarget asks the strategy for a point and falls back to the first
// sample so every insertion covers at least one sample.
func (b *Builder) pickTarget(comp []geom.Point, l *Layer, radius float64) geom.Point {
	p := b.picker.Pick(comp, l)
	if !l.need(p) {
		return comp[0]
	}
	for _, s := range comp {
		if s.Distance(p) <= radius {
			return p
		}
	}
	return comp[0]
}

// accountDistances recomputes Dist top-down. Needed nodes reset to zero,
// roots keep what they inherited and other nodes extend their parent's
// distance by the connecting segment.
func (b *Builder) accountDistances(l *Layer) {
	l.Walk(func(id NodeID, n Node, _ int) {
		node := &l.nodes[id]
		switch {
		case l.need(n.Pos):
			node.Dist = 0
		case n.Parent == NoNode:
			// inherited
		default:
			p := l.nodes[n.Parent]
			node.Dist = p.Dist + p.Pos.Distance(n.Pos)
		}
	})
}
