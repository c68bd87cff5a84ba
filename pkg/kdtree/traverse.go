package kdtree

import (
	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/geometry"
)

type todoEntry struct {
	nodeIndex  int32
	tmin, tmax float32
}

// IntersectClosest returns the closest-hit intersection along ray within
// [tMin, tMax] and the primitive it hit, or (core.NoIntersection, nil,
// false) if nothing is hit.
func (t *Tree) IntersectClosest(ray core.Ray, tMin, tMax float32) (core.Intersection, geometry.Primitive, bool) {
	if len(t.nodes) == 0 {
		return core.NoIntersection, nil, false
	}
	rtMin, rtMax, hitBounds := t.bounds.Hit(ray, tMin, tMax)
	if !hitBounds {
		return core.NoIntersection, nil, false
	}

	invDir := core.NewVec3(invOrZero(ray.Direction.X), invOrZero(ray.Direction.Y), invOrZero(ray.Direction.Z))

	var todo [todoStackDepth]todoEntry
	todoPos := 0

	best := core.NoIntersection
	var bestPrim geometry.Primitive
	hitAny := false

	nodeIndex := int32(0)
	curTMin, curTMax := rtMin, rtMax

	for {
		if best.Hit() && best.Distance < curTMin {
			break
		}

		n := &t.nodes[nodeIndex]
		if !n.isLeaf() {
			axis := int(n.splitAxis)
			origin := axisComponent(ray.Origin, axis)
			dir := axisComponent(ray.Direction, axis)
			invD := axisComponent(invDir, axis)

			tplane := (n.splitPos - origin) * invD

			belowFirst := origin < n.splitPos || (origin == n.splitPos && dir <= 0)

			var first, second int32
			if belowFirst {
				first, second = nodeIndex+1, n.aboveChild
			} else {
				first, second = n.aboveChild, nodeIndex+1
			}

			switch {
			case tplane > curTMax || tplane <= 0:
				nodeIndex = first
			case tplane < curTMin:
				nodeIndex = second
			default:
				if todoPos < todoStackDepth {
					todo[todoPos] = todoEntry{nodeIndex: second, tmin: tplane, tmax: curTMax}
					todoPos++
				}
				nodeIndex = first
				curTMax = tplane
			}
			continue
		}

		for _, pn := range n.primNums {
			isect, hit := t.prims[pn].Intersect(ray, tMin, curTMax)
			if hit && isect.Distance < best.Distance {
				best = isect
				bestPrim = t.prims[pn]
				hitAny = true
				curTMax = best.Distance
			}
		}

		if todoPos == 0 {
			break
		}
		todoPos--
		nodeIndex = todo[todoPos].nodeIndex
		curTMin = todo[todoPos].tmin
		curTMax = todo[todoPos].tmax
	}

	return best, bestPrim, hitAny
}

// IntersectShadow returns true iff any primitive is hit within (eps,
// maxDist) along ray — the any-hit walk, short-circuiting on first hit.
func (t *Tree) IntersectShadow(ray core.Ray, eps, maxDist float32) bool {
	if len(t.nodes) == 0 {
		return false
	}
	rtMin, rtMax, hitBounds := t.bounds.Hit(ray, eps, maxDist)
	if !hitBounds {
		return false
	}

	invDir := core.NewVec3(invOrZero(ray.Direction.X), invOrZero(ray.Direction.Y), invOrZero(ray.Direction.Z))

	var todo [todoStackDepth]todoEntry
	todoPos := 0

	nodeIndex := int32(0)
	curTMin, curTMax := rtMin, rtMax

	for {
		n := &t.nodes[nodeIndex]
		if !n.isLeaf() {
			axis := int(n.splitAxis)
			origin := axisComponent(ray.Origin, axis)
			dir := axisComponent(ray.Direction, axis)
			invD := axisComponent(invDir, axis)

			tplane := (n.splitPos - origin) * invD
			belowFirst := origin < n.splitPos || (origin == n.splitPos && dir <= 0)

			var first, second int32
			if belowFirst {
				first, second = nodeIndex+1, n.aboveChild
			} else {
				first, second = n.aboveChild, nodeIndex+1
			}

			switch {
			case tplane > curTMax || tplane <= 0:
				nodeIndex = first
			case tplane < curTMin:
				nodeIndex = second
			default:
				if todoPos < todoStackDepth {
					todo[todoPos] = todoEntry{nodeIndex: second, tmin: tplane, tmax: curTMax}
					todoPos++
				}
				nodeIndex = first
				curTMax = tplane
			}
			continue
		}

		for _, pn := range n.primNums {
			if t.prims[pn].IntersectShadow(ray, eps, maxDist) {
				return true
			}
		}

		if todoPos == 0 {
			return false
		}
		todoPos--
		nodeIndex = todo[todoPos].nodeIndex
		curTMin = todo[todoPos].tmin
		curTMax = todo[todoPos].tmax
	}
}

func invOrZero(x float32) float32 {
	if x == 0 {
		return 0
	}
	return 1 / x
}

func axisComponent(v core.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
