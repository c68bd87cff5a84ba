// Package geometry implements the ray-intersectable surfaces the
// acceleration structure indexes: spheres, discs, triangles, an inverted
// wrapper for inside-out emissive shells, and triangle meshes that refine
// into their constituent triangles.
package geometry

import (
	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/light"
	"github.com/solraven/kdtrace/pkg/material"
)

// Primitive is anything the acceleration structure can hold directly: a
// finite surface with a bounding box, closest-hit and any-hit (shadow)
// intersection, uniform surface sampling, and an area measure. Material
// and AreaLight may both be nil — AreaLight is non-nil only for emissive
// primitives the integrator samples via next-event estimation.
type Primitive interface {
	Intersect(ray core.Ray, tMin, tMax float32) (core.Intersection, bool)
	IntersectShadow(ray core.Ray, tMin, tMax float32) bool
	Bounds() core.BBox
	SamplePoint(rng *core.RNG) core.Vec3
	Area() float32
	Material() material.BSDF
	AreaLight() *light.AreaLight
}

// Refiner is a composite Primitive that cannot be intersected directly —
// only the primitives it refines into are inserted into the acceleration
// structure.
type Refiner interface {
	Refine() []Primitive
}

// TexturedPrimitive is an optional capability: a Primitive whose material
// varies across its surface. The integrator type-asserts for this after an
// ordinary Material() lookup, passing the hit's Intersection.U/V.
type TexturedPrimitive interface {
	MaterialAt(u, v float32) material.BSDF
}
