package kdtree

import (
	"math"
	"sort"

	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/geometry"
)

const (
	maxLeafObjs    = 1
	traversalCost  = float32(1)   // Ct
	intersectCost  = float32(80)  // Ci
	emptyBonus     = float32(0.2) // e
	maxBadRefines  = 3
	boundsEpsilon  = 1e-4
	todoStackDepth = 64
)

// edgeKind distinguishes the start and end of a primitive's extent along
// the sweep axis; edges sort by position with start before end at ties.
type edgeKind int8

const (
	edgeStart edgeKind = 0
	edgeEnd   edgeKind = 1
)

type boundEdge struct {
	t       float32
	primNum int
	kind    edgeKind
}

// Build constructs a k-d tree over prims (already-refined primitives —
// callers are expected to have called Refine on any Refiner first). Each
// primitive's bounds are dilated by boundsEpsilon so zero-thickness slabs
// (an axis-aligned disc or triangle) still have a valid split extent.
func Build(prims []geometry.Primitive) *Tree {
	t := &Tree{prims: prims}
	if len(prims) == 0 {
		return t
	}

	bounds := make([]core.BBox, len(prims))
	primNums := make([]int, len(prims))
	var rootBounds core.BBox
	for i, p := range prims {
		b := p.Bounds().Expand(boundsEpsilon)
		bounds[i] = b
		primNums[i] = i
		if i == 0 {
			rootBounds = b
		} else {
			rootBounds = rootBounds.Union(b)
		}
	}
	t.bounds = rootBounds

	maxDepth := int(math.Round(8 + 1.3*math.Log2(float64(len(prims)))))
	if maxDepth < 1 {
		maxDepth = 1
	}

	edges := [3][]boundEdge{
		make([]boundEdge, 0, 2*len(prims)),
		make([]boundEdge, 0, 2*len(prims)),
		make([]boundEdge, 0, 2*len(prims)),
	}

	t.build(primNums, bounds, rootBounds, maxDepth, 0, edges)
	return t
}

// build recursively appends nodes to t.nodes and returns the index of the
// node it created. edges is reused scratch space across the recursion
// (pre-allocated to the tree's total primitive count) to avoid repeated
// allocation at every level.
func (t *Tree) build(primNums []int, bounds []core.BBox, nodeBounds core.BBox, depth, badRefines int, edges [3][]boundEdge) int {
	nodeIndex := len(t.nodes)
	t.nodes = append(t.nodes, node{})

	n := len(primNums)
	if n <= maxLeafObjs || depth == 0 {
		t.makeLeaf(nodeIndex, primNums)
		return nodeIndex
	}

	leafCost := intersectCost * float32(n)

	axis := nodeBounds.LongestAxis()
	bestAxis := -1
	bestOffset := -1
	bestCost := float32(math.Inf(1))

	for attempt := 0; attempt < 3; attempt++ {
		tryAxis := (axis + attempt) % 3
		lo, hi := nodeBounds.AxisExtent(tryAxis)
		if hi <= lo {
			continue
		}

		axisEdges := edges[tryAxis][:0]
		for _, pn := range primNums {
			elo, ehi := bounds[pn].AxisExtent(tryAxis)
			axisEdges = append(axisEdges, boundEdge{t: elo, primNum: pn, kind: edgeStart})
			axisEdges = append(axisEdges, boundEdge{t: ehi, primNum: pn, kind: edgeEnd})
		}
		sort.Slice(axisEdges, func(i, j int) bool {
			if axisEdges[i].t == axisEdges[j].t {
				return axisEdges[i].kind < axisEdges[j].kind
			}
			return axisEdges[i].t < axisEdges[j].t
		})

		invTotalSA := 1 / nodeBounds.SurfaceArea()
		otherAxis0, otherAxis1 := (tryAxis+1)%3, (tryAxis+2)%3
		_, e0hi := nodeBounds.AxisExtent(otherAxis0)
		e0lo, _ := nodeBounds.AxisExtent(otherAxis0)
		_, e1hi := nodeBounds.AxisExtent(otherAxis1)
		e1lo, _ := nodeBounds.AxisExtent(otherAxis1)
		d0 := e0hi - e0lo
		d1 := e1hi - e1lo

		nBelow, nAbove := 0, n
		for i, edge := range axisEdges {
			if edge.kind == edgeEnd {
				nAbove--
			}
			if edge.t > lo && edge.t < hi {
				belowSA := 2 * (d0*d1 + (edge.t-lo)*(d0+d1))
				aboveSA := 2 * (d0*d1 + (hi-edge.t)*(d0+d1))
				pBelow := belowSA * invTotalSA
				pAbove := aboveSA * invTotalSA
				eb := float32(0)
				if nAbove == 0 || nBelow == 0 {
					eb = emptyBonus
				}
				cost := traversalCost + intersectCost*(1-eb)*(pBelow*float32(nBelow)+pAbove*float32(nAbove))
				if cost < bestCost {
					bestCost = cost
					bestAxis = tryAxis
					bestOffset = i
				}
			}
			if edge.kind == edgeStart {
				nBelow++
			}
		}
		if bestAxis == tryAxis {
			// Keep this axis's edge slice alive for partitioning below.
			edges[tryAxis] = axisEdges
			break
		}
	}

	if bestCost > leafCost {
		badRefines++
	}
	if bestAxis == -1 || badRefines == maxBadRefines || (bestCost > 4*leafCost && n < 16) {
		t.makeLeaf(nodeIndex, primNums)
		return nodeIndex
	}

	splitPos := edges[bestAxis][bestOffset].t

	var belowNums, aboveNums []int
	for i := 0; i <= bestOffset; i++ {
		if edges[bestAxis][i].kind == edgeStart {
			belowNums = append(belowNums, edges[bestAxis][i].primNum)
		}
	}
	for i := bestOffset + 1; i < len(edges[bestAxis]); i++ {
		if edges[bestAxis][i].kind == edgeEnd {
			aboveNums = append(aboveNums, edges[bestAxis][i].primNum)
		}
	}

	belowBounds, aboveBounds := nodeBounds, nodeBounds
	switch bestAxis {
	case 0:
		belowBounds.Max.X, aboveBounds.Min.X = splitPos, splitPos
	case 1:
		belowBounds.Max.Y, aboveBounds.Min.Y = splitPos, splitPos
	default:
		belowBounds.Max.Z, aboveBounds.Min.Z = splitPos, splitPos
	}

	t.build(belowNums, bounds, belowBounds, depth-1, badRefines, edges)
	aboveChild := t.build(aboveNums, bounds, aboveBounds, depth-1, badRefines, edges)

	t.nodes[nodeIndex] = node{
		splitAxis:  int8(bestAxis),
		splitPos:   splitPos,
		aboveChild: int32(aboveChild),
	}
	return nodeIndex
}

func (t *Tree) makeLeaf(nodeIndex int, primNums []int) {
	nums := make([]int, len(primNums))
	copy(nums, primNums)
	t.nodes[nodeIndex] = node{splitAxis: -1, primNums: nums}
}
