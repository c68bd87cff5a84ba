package geometry

import (
	"math"

	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/light"
	"github.com/solraven/kdtrace/pkg/material"
)

// Triangle is a single triangle with optional per-vertex normals for
// Phong (barycentric) normal interpolation. N0/N1/N2 default to the flat
// face normal when not supplied.
type Triangle struct {
	V0, V1, V2 core.Vec3
	N0, N1, N2 core.Vec3
	BSDF       material.BSDF
	Light      *light.AreaLight

	faceNormal core.Vec3
	bounds     core.BBox
}

// NewTriangle creates a flat-shaded triangle (all three normals equal to
// the face normal).
func NewTriangle(v0, v1, v2 core.Vec3, bsdf material.BSDF) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2, BSDF: bsdf}
	t.computeFaceNormal()
	t.N0, t.N1, t.N2 = t.faceNormal, t.faceNormal, t.faceNormal
	t.bounds = core.NewBBoxFromPoints(v0, v1, v2)
	return t
}

// NewTriangleWithNormals creates a smooth-shaded triangle with per-vertex
// normals, interpolated at hit time via barycentric weights.
func NewTriangleWithNormals(v0, v1, v2, n0, n1, n2 core.Vec3, bsdf material.BSDF) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2, N0: n0, N1: n1, N2: n2, BSDF: bsdf}
	t.computeFaceNormal()
	t.bounds = core.NewBBoxFromPoints(v0, v1, v2)
	return t
}

func (t *Triangle) computeFaceNormal() {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	t.faceNormal = edge1.Cross(edge2).Normalize()
}

// Intersect implements Primitive via Möller–Trumbore, interpolating the
// per-vertex normal via barycentric weights (1-u-v, u, v) and renormalizing.
func (t *Triangle) Intersect(ray core.Ray, tMin, tMax float32) (core.Intersection, bool) {
	const epsilon = 1e-8

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return core.NoIntersection, false
	}

	f := 1 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return core.NoIntersection, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return core.NoIntersection, false
	}

	dist := f * edge2.Dot(q)
	if dist < tMin || dist > tMax {
		return core.NoIntersection, false
	}

	w := 1 - u - v
	normal := t.N0.Multiply(w).Add(t.N1.Multiply(u)).Add(t.N2.Multiply(v)).Normalize()
	point := ray.At(dist)
	return core.Intersection{Point: point, Normal: normal, Distance: dist}, true
}

// IntersectShadow implements Primitive.
func (t *Triangle) IntersectShadow(ray core.Ray, tMin, tMax float32) bool {
	_, hit := t.Intersect(ray, tMin, tMax)
	return hit
}

// Bounds implements Primitive.
func (t *Triangle) Bounds() core.BBox { return t.bounds }

// SamplePoint draws a uniform point via the standard triangle area warp
// (1-√ξ1, √ξ1(1-ξ2), √ξ1·ξ2).
func (t *Triangle) SamplePoint(rng *core.RNG) core.Vec3 {
	u := rng.Float2()
	sqrtU := float32(math.Sqrt(float64(u.X)))
	b0 := 1 - sqrtU
	b1 := sqrtU * (1 - u.Y)
	b2 := sqrtU * u.Y
	return t.V0.Multiply(b0).Add(t.V1.Multiply(b1)).Add(t.V2.Multiply(b2))
}

// Area implements Primitive: half the magnitude of the edge cross product.
func (t *Triangle) Area() float32 {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	return 0.5 * edge1.Cross(edge2).Length()
}

// Material implements Primitive.
func (t *Triangle) Material() material.BSDF { return t.BSDF }

// AreaLight implements Primitive.
func (t *Triangle) AreaLight() *light.AreaLight { return t.Light }
