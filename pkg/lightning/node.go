package lightning

import "github.com/chazu/lightning/pkg/geom"

// NodeID addresses a node inside its layer's arena.
type NodeID int32

// NoNode marks an absent parent or an absent upper-layer counterpart.
const NoNode NodeID = -1

// Node is one point of a support tree.
type Node struct {
	Pos      geom.Point
	Parent   NodeID   // NoNode for roots
	Children []NodeID // owned by this node
	// Dist is the distance travelled along the branch since it last passed
	// through a point of this layer's overhang region.
	Dist float64
	// Above is the node this one was carried down from, or NoNode when the
	// node was spawned on this layer.
	Above NodeID

	removed bool
}

// IsRoot returns true if the node has no parent.
func (n Node) IsRoot() bool {
	return n.Parent == NoNode
}

// IsLeaf returns true if the node has no children.
func (n Node) IsLeaf() bool {
	return len(n.Children) == 0
}
