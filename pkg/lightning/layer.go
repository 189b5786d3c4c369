package lightning

import (
	"fmt"
	"math"
	"slices"

	"github.com/chazu/lightning/pkg/geom"
	"github.com/dhconnelly/rtreego"
)

// NeedFunc reports whether a point lies inside a layer's overhang region.
type NeedFunc func(p geom.Point) bool

// entryTolerance is the half-size of the box each node occupies in the
// spatial index.
const entryTolerance = 0.5

// Layer owns the forest of one layer: an arena of nodes addressed by NodeID,
// the list of roots, and an R-tree over node positions. A Layer is mutable
// while its builder step runs and immutable once frozen; frozen layers are
// safe for concurrent readers.
type Layer struct {
	index  int
	nodes  []Node
	roots  []NodeID
	need   NeedFunc
	tree   *rtreego.Rtree
	dirty  bool // index no longer matches node positions
	frozen bool
}

// NewLayer returns an empty layer. need classifies overhang points; nil
// means the layer has no overhang.
func NewLayer(index int, need NeedFunc) *Layer {
	if need == nil {
		need = func(geom.Point) bool { return false }
	}
	return &Layer{
		index: index,
		need:  need,
		tree:  newIndex(),
	}
}

// nodeEntry adapts a node to rtreego.Spatial.
type nodeEntry struct {
	id  NodeID
	box rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *nodeEntry) Bounds() rtreego.Rect {
	return e.box
}

func newIndex() *rtreego.Rtree {
	return rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node
}

// pointRect returns the index box of a node at p.
func pointRect(p geom.Point) rtreego.Rect {
	r, _ := rtreego.NewRect(
		rtreego.Point{float64(p.X) - entryTolerance, float64(p.Y) - entryTolerance},
		[]float64{2 * entryTolerance, 2 * entryTolerance},
	)
	return r
}

// Index returns the layer number.
func (l *Layer) Index() int {
	return l.index
}

// Len returns the number of live nodes.
func (l *Layer) Len() int {
	n := 0
	for i := range l.nodes {
		if !l.nodes[i].removed {
			n++
		}
	}
	return n
}

// Node returns a copy of the node with the given ID.
func (l *Layer) Node(id NodeID) Node {
	n := l.nodes[id]
	n.Children = slices.Clone(n.Children)
	return n
}

// Roots returns the root IDs in creation order.
func (l *Layer) Roots() []NodeID {
	return slices.Clone(l.roots)
}

// Frozen returns true once the builder has finished the layer.
func (l *Layer) Frozen() bool {
	return l.frozen
}

func (l *Layer) mustMutable() {
	if l.frozen {
		panic(fmt.Sprintf("lightning: layer %d is frozen", l.index))
	}
}

func (l *Layer) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(l.nodes) && !l.nodes[id].removed
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

// addNode appends a node to the arena and links it under parent.
func (l *Layer) addNode(p geom.Point, parent, above NodeID, dist float64) NodeID {
	id := NodeID(len(l.nodes))
	l.nodes = append(l.nodes, Node{Pos: p, Parent: parent, Above: above, Dist: dist})
	if parent == NoNode {
		l.roots = append(l.roots, id)
	} else {
		l.nodes[parent].Children = append(l.nodes[parent].Children, id)
	}
	if !l.dirty {
		l.tree.Insert(&nodeEntry{id: id, box: pointRect(p)})
	}
	return id
}

// AddRoot starts a new tree at p.
func (l *Layer) AddRoot(p geom.Point) NodeID {
	l.mustMutable()
	return l.addNode(p, NoNode, NoNode, 0)
}

// GrowChild creates a node at p under parent. The child's distance resets to
// zero when p needs support on this layer and otherwise extends the parent's
// distance by the new segment.
func (l *Layer) GrowChild(parent NodeID, p geom.Point) NodeID {
	l.mustMutable()
	if !l.valid(parent) {
		panic(fmt.Sprintf("lightning: grow from invalid node %d on layer %d", parent, l.index))
	}
	dist := 0.0
	if !l.need(p) {
		pn := l.nodes[parent]
		dist = pn.Dist + pn.Pos.Distance(p)
	}
	return l.addNode(p, parent, NoNode, dist)
}

// splitEdge inserts a node at p on the segment from child's parent to child
// and returns it. child keeps its place among its siblings.
func (l *Layer) splitEdge(child NodeID, p geom.Point) NodeID {
	l.mustMutable()
	if !l.valid(child) || l.nodes[child].Parent == NoNode {
		panic(fmt.Sprintf("lightning: split above root or invalid node %d on layer %d", child, l.index))
	}
	parent := l.nodes[child].Parent
	dist := 0.0
	if !l.need(p) {
		pn := l.nodes[parent]
		dist = pn.Dist + pn.Pos.Distance(p)
	}
	id := NodeID(len(l.nodes))
	l.nodes = append(l.nodes, Node{Pos: p, Parent: parent, Above: NoNode, Children: []NodeID{child}, Dist: dist})
	siblings := l.nodes[parent].Children
	siblings[slices.Index(siblings, child)] = id
	l.nodes[child].Parent = id
	if !l.dirty {
		l.tree.Insert(&nodeEntry{id: id, box: pointRect(p)})
	}
	return id
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func (l *Layer) ensureIndex() {
	if !l.dirty {
		return
	}
	l.tree = newIndex()
	for i := range l.nodes {
		if l.nodes[i].removed {
			continue
		}
		l.tree.Insert(&nodeEntry{id: NodeID(i), box: pointRect(l.nodes[i].Pos)})
	}
	l.dirty = false
}

// NearestNode returns the closest live node no farther than maxDistance from
// p. Equal distances resolve to the lower NodeID.
func (l *Layer) NearestNode(p geom.Point, maxDistance float64) (NodeID, bool) {
	if maxDistance < 0 || math.IsNaN(maxDistance) || len(l.nodes) == 0 {
		return NoNode, false
	}
	l.ensureIndex()

	half := math.Max(maxDistance, entryTolerance)
	rect, err := rtreego.NewRect(
		rtreego.Point{float64(p.X) - half, float64(p.Y) - half},
		[]float64{2 * half, 2 * half},
	)
	if err != nil {
		return NoNode, false
	}

	best, bestD := NoNode, math.Inf(1)
	for _, s := range l.tree.SearchIntersect(rect) {
		id := s.(*nodeEntry).id
		if l.nodes[id].removed {
			continue
		}
		d := l.nodes[id].Pos.Distance(p)
		if d > maxDistance {
			continue
		}
		if d < bestD || (d == bestD && id < best) {
			best, bestD = id, d
		}
	}
	return best, best != NoNode
}

// Walk visits every live node depth-first, roots in order, parents before
// children. depth is 0 for roots.
func (l *Layer) Walk(fn func(id NodeID, n Node, depth int)) {
	type frame struct {
		id    NodeID
		depth int
	}
	for _, r := range l.roots {
		stack := []frame{{r, 0}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n := l.nodes[f.id]
			fn(f.id, n, f.depth)
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{n.Children[i], f.depth + 1})
			}
		}
	}
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (l *Layer) Height() int {
	h := 0
	l.Walk(func(_ NodeID, _ Node, depth int) {
		h = max(h, depth+1)
	})
	return h
}

// ExportPaths flattens the forest into printable polylines. The walk is
// branch preserving: the first child continues the current polyline and
// every further child starts a new one at the branch point, so no segment is
// emitted twice. A lone root yields a single-point polyline.
func (l *Layer) ExportPaths() []geom.Polyline {
	var out []geom.Polyline
	for _, r := range l.roots {
		l.collectPaths(r, geom.Polyline{l.nodes[r].Pos}, &out)
	}
	return out
}

func (l *Layer) collectPaths(id NodeID, cur geom.Polyline, out *[]geom.Polyline) {
	n := l.nodes[id]
	if len(n.Children) == 0 {
		*out = append(*out, cur)
		return
	}
	for i, c := range n.Children {
		if i == 0 {
			l.collectPaths(c, append(cur, l.nodes[c].Pos), out)
			continue
		}
		l.collectPaths(c, geom.Polyline{n.Pos, l.nodes[c].Pos}, out)
	}
}

// ---------------------------------------------------------------------------
// Removal
// ---------------------------------------------------------------------------

// unlink detaches id from its parent's child list, or from the root list.
func (l *Layer) unlink(id NodeID) {
	n := &l.nodes[id]
	if n.Parent == NoNode {
		l.roots = slices.DeleteFunc(l.roots, func(r NodeID) bool { return r == id })
		return
	}
	p := &l.nodes[n.Parent]
	p.Children = slices.DeleteFunc(p.Children, func(c NodeID) bool { return c == id })
}

// removeSubtree unlinks id and marks it and all its descendants removed.
// It returns the number of nodes removed.
func (l *Layer) removeSubtree(id NodeID) int {
	l.unlink(id)
	count := 0
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		l.nodes[cur].removed = true
		count++
		stack = append(stack, l.nodes[cur].Children...)
	}
	l.dirty = true
	return count
}

// detach turns id into the root of its own tree.
func (l *Layer) detach(id NodeID) {
	if l.nodes[id].Parent == NoNode {
		return
	}
	l.unlink(id)
	l.nodes[id].Parent = NoNode
	l.roots = append(l.roots, id)
}

// Prune removes id together with its subtree, then removes each ancestor
// left without children that has no support need of its own. It stops at
// the first ancestor that still has a purpose and returns the number of
// nodes removed.
func (l *Layer) Prune(id NodeID) int {
	l.mustMutable()
	if !l.valid(id) {
		return 0
	}
	parent := l.nodes[id].Parent
	removed := l.removeSubtree(id)
	for parent != NoNode {
		pn := &l.nodes[parent]
		if len(pn.Children) > 0 || l.need(pn.Pos) {
			break
		}
		next := pn.Parent
		l.unlink(parent)
		pn.removed = true
		removed++
		parent = next
	}
	return removed
}

// ---------------------------------------------------------------------------
// Freezing
// ---------------------------------------------------------------------------

// Freeze compacts the arena into depth-first order, rebuilds the spatial
// index and makes the layer immutable.
func (l *Layer) Freeze() {
	if l.frozen {
		return
	}
	remap := make([]NodeID, len(l.nodes))
	for i := range remap {
		remap[i] = NoNode
	}
	var order []NodeID
	l.Walk(func(id NodeID, _ Node, _ int) {
		remap[id] = NodeID(len(order))
		order = append(order, id)
	})

	nodes := make([]Node, len(order))
	roots := make([]NodeID, 0, len(l.roots))
	for newID, oldID := range order {
		n := l.nodes[oldID]
		if n.Parent != NoNode {
			n.Parent = remap[n.Parent]
		} else {
			roots = append(roots, NodeID(newID))
		}
		children := make([]NodeID, len(n.Children))
		for i, c := range n.Children {
			children[i] = remap[c]
		}
		n.Children = children
		nodes[newID] = n
	}

	l.nodes = nodes
	l.roots = roots
	l.dirty = true
	l.ensureIndex()
	l.frozen = true
}
