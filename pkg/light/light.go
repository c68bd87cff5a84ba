// Package light implements area-light emission and direction sampling via
// bounding-sphere solid-angle cones, per spec.md §4.4.
package light

import (
	"math"

	"github.com/solraven/kdtrace/pkg/core"
)

// Emitter is the narrow slice of geometry.Primitive an AreaLight needs:
// enough to find its bounding sphere and to confirm a sampled ray actually
// lands on its own surface. Defined here (rather than importing geometry)
// so that geometry can hold an *AreaLight without creating an import
// cycle — any geometry.Primitive automatically satisfies this interface.
type Emitter interface {
	Bounds() core.BBox
	Intersect(ray core.Ray, tMin, tMax float32) (core.Intersection, bool)
}

// Sample is the result of sampling a direction toward a light from a point.
type Sample struct {
	Point     core.Vec3
	Normal    core.Vec3
	Direction core.Vec3
	Distance  float32
	Emission  core.Vec3
	PDF       float32
}

// AreaLight emits a constant color from one side of an emissive primitive's
// surface (no emission when the incoming ray approaches from the back, i.e.
// incoming.Direction . normal > 0).
type AreaLight struct {
	Emission core.Vec3
	Geometry Emitter

	// Weight biases this light's selection probability under a
	// WeightedSampler (scene-file geometry entries' `weight` field);
	// NewUniformSampler ignores it entirely. Defaults to 1 so a light built
	// without an explicit weight behaves like every other light once
	// normalized.
	Weight float32
}

// NewAreaLight builds an AreaLight over the given emitter geometry.
func NewAreaLight(emission core.Vec3, geom Emitter) *AreaLight {
	return &AreaLight{Emission: emission, Geometry: geom, Weight: 1}
}

// boundingSphere returns the center and radius of a sphere bounding the
// light's geometry, used by both Sample and PDF for the solid-angle cone.
func (al *AreaLight) boundingSphere() (center core.Vec3, radius float32) {
	b := al.Geometry.Bounds()
	center = b.Center()
	radius = b.Max.Subtract(center).Length()
	return center, radius
}

// Sample draws a direction from point toward the light, per spec.md §4.4:
// a solid-angle cone around the bounding sphere when point is outside it,
// or a uniform sphere direction when point is inside it. The returned
// sample's Distance/Normal/Emission come from actually intersecting the
// light's geometry along the sampled direction; occlusion by other scene
// geometry is the caller's responsibility (a shadow ray against the scene's
// acceleration structure), matching the separation of concerns the
// integrator's direct-illumination step performs.
func (al *AreaLight) Sample(point core.Vec3, rng *core.RNG) (Sample, bool) {
	center, radius := al.boundingSphere()
	toCenter := center.Subtract(point)
	distToCenter := toCenter.Length()

	var dir core.Vec3
	var pdf float32

	if distToCenter <= radius || radius == 0 {
		dir, pdf = core.UniformSampleSphere(rng.Float2())
	} else {
		w := toCenter.Normalize()
		frame := core.NewFrameFromNormal(w)
		sinThetaMax := radius / distToCenter
		cosThetaMax := float32(math.Sqrt(math.Max(0, float64(1-sinThetaMax*sinThetaMax))))
		local, coneP := core.UniformSampleCone(rng.Float2(), cosThetaMax)
		dir = frame.ToWorld(local)
		pdf = coneP
	}

	const eps = 1e-3
	const maxDist = float32(1e30)
	isect, hit := al.Geometry.Intersect(core.NewRay(point, dir), eps, maxDist)
	if !hit {
		return Sample{}, false
	}

	emission := al.emittedColor(dir, isect.Normal)
	return Sample{
		Point:     isect.Point,
		Normal:    isect.Normal,
		Direction: dir,
		Distance:  isect.Distance,
		Emission:  emission,
		PDF:       pdf,
	}, true
}

// PDF returns the probability density (solid angle measure) of sampling
// direction dir from point via Sample, without re-sampling.
func (al *AreaLight) PDF(point core.Vec3, dir core.Vec3) float32 {
	center, radius := al.boundingSphere()
	distToCenter := center.Subtract(point).Length()

	if distToCenter <= radius || radius == 0 {
		return 1 / (4 * float32(math.Pi))
	}

	sinThetaMax := radius / distToCenter
	cosThetaMax := float32(math.Sqrt(math.Max(0, float64(1-sinThetaMax*sinThetaMax))))
	return 1 / (2 * float32(math.Pi) * (1 - cosThetaMax))
}

// Eval returns (emittedColor, pdf, distance) for direction dir from point,
// consistent with Sample/PDF above — the triple MIS needs to weight a
// BSDF-sampled direction that happens to land on this light, and to bound
// a shadow ray testing the rest of the scene for occlusion up to the
// light's own surface.
func (al *AreaLight) Eval(point core.Vec3, dir core.Vec3) (core.Vec3, float32, float32) {
	const eps = 1e-3
	const maxDist = float32(1e30)
	isect, hit := al.Geometry.Intersect(core.NewRay(point, dir), eps, maxDist)
	if !hit {
		return core.Vec3{}, 0, 0
	}
	emission := al.emittedColor(dir, isect.Normal)
	if emission.IsZero() {
		return core.Vec3{}, 0, 0
	}
	return emission, al.PDF(point, dir), isect.Distance
}

// emittedColor applies the one-sided emission rule: no emission when the
// ray approaches the surface from its back side.
func (al *AreaLight) emittedColor(rayDir core.Vec3, normal core.Vec3) core.Vec3 {
	if rayDir.Dot(normal) > 0 {
		return core.Vec3{}
	}
	return al.Emission
}

