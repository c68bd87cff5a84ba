// Package kdtree implements the SAH-built k-d tree acceleration structure:
// a node pool built once from a flat list of refined primitives, then
// walked with a bounded todo stack for both closest-hit and any-hit
// (shadow) queries.
package kdtree

import (
	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/geometry"
)

// node is one entry in the tree's node pool. Interior nodes store a split
// axis and position; the left child is always the next entry in the pool
// (the tree is built depth-first), and aboveChild indexes the right child.
// Leaf nodes instead hold the primitive indices they contain.
type node struct {
	splitAxis  int8 // 0, 1, 2 for an interior node; -1 for a leaf
	splitPos   float32
	aboveChild int32
	primNums   []int // leaf only: indices into Tree.prims
}

func (n *node) isLeaf() bool { return n.splitAxis < 0 }

// Tree is a built k-d tree over a fixed set of primitives. Build is a
// one-shot, single-threaded step; IntersectClosest/IntersectShadow are
// read-only and reentrant, safe to call concurrently from many render
// workers.
type Tree struct {
	nodes  []node
	prims  []geometry.Primitive
	bounds core.BBox
}

// Bounds returns the tree's root bounding box.
func (t *Tree) Bounds() core.BBox { return t.bounds }

// Len returns the number of primitives the tree indexes.
func (t *Tree) Len() int { return len(t.prims) }
