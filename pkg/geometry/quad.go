package geometry

import (
	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/light"
	"github.com/solraven/kdtrace/pkg/material"
)

// Quad is a rectangular surface defined by a corner and two edge vectors,
// normal computed from their cross product. Supplements spec.md's
// Sphere/Disc/Triangle primitive set with the teacher's parallelogram
// light shape; the bounding-sphere cone-sampling algorithm in package
// light works over any Primitive's bounding sphere, so Quad needs no
// special-cased light sampling.
type Quad struct {
	Corner core.Vec3
	U, V   core.Vec3
	Normal core.Vec3
	BSDF   material.BSDF
	Light  *light.AreaLight

	// Texture, when set, overrides BSDF's albedo per-hit using the quad's
	// (u,v) surface parameterization instead of a single fixed color.
	Texture material.Texture

	d core.Vec3 // cached cross product u x v, for barycentric coords
}

// NewQuad creates a quad with the given material.
func NewQuad(corner, u, v core.Vec3, bsdf material.BSDF) *Quad {
	q := &Quad{Corner: corner, U: u, V: v, BSDF: bsdf}
	q.init()
	return q
}

// NewEmissiveQuad creates a quad that is also an area light.
func NewEmissiveQuad(corner, u, v core.Vec3, emission core.Vec3) *Quad {
	q := &Quad{Corner: corner, U: u, V: v}
	q.init()
	q.Light = light.NewAreaLight(emission, q)
	return q
}

func (q *Quad) init() {
	q.d = q.U.Cross(q.V)
	q.Normal = q.d.Normalize()
}

// Intersect implements Primitive: plane intersection then a barycentric
// bounds test against the corner/U/V parallelogram.
func (q *Quad) Intersect(ray core.Ray, tMin, tMax float32) (core.Intersection, bool) {
	denom := ray.Direction.Dot(q.Normal)
	if denom > -1e-8 && denom < 1e-8 {
		return core.NoIntersection, false
	}

	planeD := q.Normal.Dot(q.Corner)
	t := (planeD - ray.Origin.Dot(q.Normal)) / denom
	if t < tMin || t > tMax {
		return core.NoIntersection, false
	}

	point := ray.At(t)
	hitVector := point.Subtract(q.Corner)

	w := q.Normal.Multiply(1 / q.Normal.Dot(q.d))
	alpha := w.Dot(hitVector.Cross(q.V))
	beta := w.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return core.NoIntersection, false
	}

	return core.Intersection{Point: point, Normal: q.Normal, Distance: t, U: alpha, V: beta}, true
}

// IntersectShadow implements Primitive.
func (q *Quad) IntersectShadow(ray core.Ray, tMin, tMax float32) bool {
	_, hit := q.Intersect(ray, tMin, tMax)
	return hit
}

// Bounds implements Primitive.
func (q *Quad) Bounds() core.BBox {
	corners := []core.Vec3{
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	}
	return core.NewBBoxFromPoints(corners...).Expand(1e-4)
}

// SamplePoint draws a uniform point on the quad's area.
func (q *Quad) SamplePoint(rng *core.RNG) core.Vec3 {
	u := rng.Float2()
	return q.Corner.Add(q.U.Multiply(u.X)).Add(q.V.Multiply(u.Y))
}

// Area implements Primitive: |u x v|.
func (q *Quad) Area() float32 { return q.d.Length() }

// Material implements Primitive.
func (q *Quad) Material() material.BSDF { return q.BSDF }

// MaterialAt implements TexturedPrimitive: when Texture is set, it rebuilds
// a Lambert BSDF with the albedo sampled at the hit's (u,v) instead of
// q.BSDF's fixed color. Any other BSDF kind (or a nil Texture) is returned
// unchanged, since only Lambert carries a single flat albedo to override.
func (q *Quad) MaterialAt(u, v float32) material.BSDF {
	if q.Texture == nil {
		return q.BSDF
	}
	if _, ok := q.BSDF.(*material.Lambert); ok {
		return material.NewLambert(q.Texture.At(u, v))
	}
	return q.BSDF
}

// AreaLight implements Primitive.
func (q *Quad) AreaLight() *light.AreaLight { return q.Light }
