package geometry

import (
	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/light"
	"github.com/solraven/kdtrace/pkg/material"
)

// Inverted wraps a Primitive and negates its surface normal, for
// inside-out emissive shells (e.g. a sphere lighting the interior it
// encloses rather than the exterior).
type Inverted struct {
	Inner Primitive
	light *light.AreaLight
}

// NewInverted wraps inner with a negated normal. If inner is emissive, the
// wrapper gets its own AreaLight over itself (not inner) so that emission
// sidedness is evaluated against the inverted normal.
func NewInverted(inner Primitive) *Inverted {
	i := &Inverted{Inner: inner}
	if innerLight := inner.AreaLight(); innerLight != nil {
		i.light = light.NewAreaLight(innerLight.Emission, i)
	}
	return i
}

// Intersect implements Primitive, negating the inner normal.
func (i *Inverted) Intersect(ray core.Ray, tMin, tMax float32) (core.Intersection, bool) {
	isect, hit := i.Inner.Intersect(ray, tMin, tMax)
	if !hit {
		return core.NoIntersection, false
	}
	isect.Normal = isect.Normal.Negate()
	return isect, true
}

// IntersectShadow implements Primitive.
func (i *Inverted) IntersectShadow(ray core.Ray, tMin, tMax float32) bool {
	return i.Inner.IntersectShadow(ray, tMin, tMax)
}

// Bounds implements Primitive.
func (i *Inverted) Bounds() core.BBox { return i.Inner.Bounds() }

// SamplePoint implements Primitive.
func (i *Inverted) SamplePoint(rng *core.RNG) core.Vec3 { return i.Inner.SamplePoint(rng) }

// Area implements Primitive.
func (i *Inverted) Area() float32 { return i.Inner.Area() }

// Material implements Primitive.
func (i *Inverted) Material() material.BSDF { return i.Inner.Material() }

// AreaLight implements Primitive.
func (i *Inverted) AreaLight() *light.AreaLight { return i.light }
