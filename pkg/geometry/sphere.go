package geometry

import (
	"math"

	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/light"
	"github.com/solraven/kdtrace/pkg/material"
)

// Sphere is a quadratic-intersection primitive.
type Sphere struct {
	Center core.Vec3
	Radius float32
	BSDF   material.BSDF
	Light  *light.AreaLight
}

// NewSphere creates a sphere with the given material.
func NewSphere(center core.Vec3, radius float32, bsdf material.BSDF) *Sphere {
	return &Sphere{Center: center, Radius: radius, BSDF: bsdf}
}

// NewEmissiveSphere creates a sphere that is also an area light.
func NewEmissiveSphere(center core.Vec3, radius float32, emission core.Vec3) *Sphere {
	s := &Sphere{Center: center, Radius: radius}
	s.Light = light.NewAreaLight(emission, s)
	return s
}

// Intersect implements Primitive: return the smaller positive root.
func (s *Sphere) Intersect(ray core.Ray, tMin, tMax float32) (core.Intersection, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return core.NoIntersection, false
	}
	sqrtD := float32(math.Sqrt(float64(discriminant)))

	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return core.NoIntersection, false
		}
	}

	point := ray.At(root)
	normal := point.Subtract(s.Center).Multiply(1 / s.Radius)
	return core.Intersection{Point: point, Normal: normal, Distance: root}, true
}

// IntersectShadow implements Primitive without computing surface data.
func (s *Sphere) IntersectShadow(ray core.Ray, tMin, tMax float32) bool {
	_, hit := s.Intersect(ray, tMin, tMax)
	return hit
}

// Bounds implements Primitive.
func (s *Sphere) Bounds() core.BBox {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewBBox(s.Center.Subtract(r), s.Center.Add(r))
}

// SamplePoint draws a uniform point on the sphere's surface.
func (s *Sphere) SamplePoint(rng *core.RNG) core.Vec3 {
	dir, _ := core.UniformSampleSphere(rng.Float2())
	return s.Center.Add(dir.Multiply(s.Radius))
}

// Area implements Primitive: 4πr².
func (s *Sphere) Area() float32 {
	return 4 * float32(math.Pi) * s.Radius * s.Radius
}

// Material implements Primitive.
func (s *Sphere) Material() material.BSDF { return s.BSDF }

// AreaLight implements Primitive.
func (s *Sphere) AreaLight() *light.AreaLight { return s.Light }
