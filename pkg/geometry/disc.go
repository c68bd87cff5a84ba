package geometry

import (
	"math"

	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/light"
	"github.com/solraven/kdtrace/pkg/material"
)

// Disc is a one-sided circular disc, normal fixed at construction.
type Disc struct {
	Center core.Vec3
	Normal core.Vec3
	Radius float32
	BSDF   material.BSDF
	Light  *light.AreaLight

	right, up core.Vec3
}

// NewDisc creates a disc with the given material.
func NewDisc(center, normal core.Vec3, radius float32, bsdf material.BSDF) *Disc {
	d := &Disc{Center: center, Normal: normal.Normalize(), Radius: radius, BSDF: bsdf}
	d.buildBasis()
	return d
}

// NewEmissiveDisc creates a disc that is also an area light.
func NewEmissiveDisc(center, normal core.Vec3, radius float32, emission core.Vec3) *Disc {
	d := &Disc{Center: center, Normal: normal.Normalize(), Radius: radius}
	d.buildBasis()
	d.Light = light.NewAreaLight(emission, d)
	return d
}

func (d *Disc) buildBasis() {
	frame := core.NewFrameFromNormal(d.Normal)
	d.right, d.up = frame.X, frame.Y
}

// Intersect implements Primitive: plane intersection then a radial test.
func (d *Disc) Intersect(ray core.Ray, tMin, tMax float32) (core.Intersection, bool) {
	denom := d.Normal.Dot(ray.Direction)
	if denom > -1e-6 && denom < 1e-6 {
		return core.NoIntersection, false
	}

	t := d.Normal.Dot(d.Center.Subtract(ray.Origin)) / denom
	if t < tMin || t > tMax {
		return core.NoIntersection, false
	}

	point := ray.At(t)
	if point.Subtract(d.Center).LengthSquared() > d.Radius*d.Radius {
		return core.NoIntersection, false
	}

	return core.Intersection{Point: point, Normal: d.Normal, Distance: t}, true
}

// IntersectShadow implements Primitive.
func (d *Disc) IntersectShadow(ray core.Ray, tMin, tMax float32) bool {
	_, hit := d.Intersect(ray, tMin, tMax)
	return hit
}

// Bounds implements Primitive.
func (d *Disc) Bounds() core.BBox {
	rightExtent := d.right.Multiply(d.Radius)
	upExtent := d.up.Multiply(d.Radius)
	c1 := d.Center.Add(rightExtent).Add(upExtent)
	c2 := d.Center.Add(rightExtent).Subtract(upExtent)
	c3 := d.Center.Subtract(rightExtent).Add(upExtent)
	c4 := d.Center.Subtract(rightExtent).Subtract(upExtent)
	return core.NewBBoxFromPoints(c1, c2, c3, c4)
}

// SamplePoint draws a uniform point on the disc via a unit-disc warp
// rotated into the disc's plane.
func (d *Disc) SamplePoint(rng *core.RNG) core.Vec3 {
	uv := core.UniformSampleDisc(rng.Float2())
	x := uv.X * d.Radius
	y := uv.Y * d.Radius
	return d.Center.Add(d.right.Multiply(x)).Add(d.up.Multiply(y))
}

// Area implements Primitive: πr².
func (d *Disc) Area() float32 {
	return float32(math.Pi) * d.Radius * d.Radius
}

// Material implements Primitive.
func (d *Disc) Material() material.BSDF { return d.BSDF }

// AreaLight implements Primitive.
func (d *Disc) AreaLight() *light.AreaLight { return d.Light }
