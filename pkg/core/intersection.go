package core

import "math"

// Intersection describes where a ray hit a surface. NoIntersection, with
// Distance == +Inf, means "no hit" (the zero value has Distance 0 and is
// not that sentinel) — callers seed a running best Intersection with
// NoIntersection and keep whichever candidate has the smallest positive
// Distance.
type Intersection struct {
	Point    Vec3
	Normal   Vec3
	Distance float32

	// U, V are surface parameterization coordinates in [0,1], populated by
	// primitives that support texture lookups (currently Quad). Zero for
	// primitives that don't compute one.
	U, V float32
}

// NoIntersection is the "nothing hit yet" sentinel.
var NoIntersection = Intersection{Distance: float32(math.Inf(1))}

// Hit reports whether this Intersection represents an actual hit.
func (i Intersection) Hit() bool {
	return !math.IsInf(float64(i.Distance), 1)
}
