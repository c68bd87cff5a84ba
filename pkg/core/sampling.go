package core

import "math"

// BBox is an axis-aligned bounding box. The zero value is degenerate
// (Min == Max == origin); callers build one via NewBBox or Union chains.
type BBox struct {
	Min, Max Vec3
}

// NewBBox builds a BBox from explicit min/max corners.
func NewBBox(min, max Vec3) BBox {
	return BBox{Min: min, Max: max}
}

// NewBBoxFromPoints builds the smallest BBox containing all given points.
func NewBBoxFromPoints(points ...Vec3) BBox {
	if len(points) == 0 {
		return BBox{}
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = Vec3{minF(min.X, p.X), minF(min.Y, p.Y), minF(min.Z, p.Z)}
		max = Vec3{maxF(max.X, p.X), maxF(max.Y, p.Y), maxF(max.Z, p.Z)}
	}
	return BBox{Min: min, Max: max}
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Union returns the smallest BBox containing both b and other.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		Min: Vec3{minF(b.Min.X, other.Min.X), minF(b.Min.Y, other.Min.Y), minF(b.Min.Z, other.Min.Z)},
		Max: Vec3{maxF(b.Max.X, other.Max.X), maxF(b.Max.Y, other.Max.Y), maxF(b.Max.Z, other.Max.Z)},
	}
}

// Expand returns b grown by amount in every direction. Used at k-d tree
// build time to dilate each object's bounds by an epsilon so that
// zero-thickness slabs (an axis-aligned triangle or disc) still have a
// valid split extent.
func (b BBox) Expand(amount float32) BBox {
	e := NewVec3(amount, amount, amount)
	return BBox{Min: b.Min.Subtract(e), Max: b.Max.Add(e)}
}

// Center returns the midpoint of the box.
func (b BBox) Center() Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// Extent returns the size of the box along each axis.
func (b BBox) Extent() Vec3 {
	return b.Max.Subtract(b.Min)
}

// SurfaceArea returns the total surface area of the box.
func (b BBox) SurfaceArea() float32 {
	e := b.Extent()
	return 2 * (e.X*e.Y + e.Y*e.Z + e.Z*e.X)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the largest extent.
func (b BBox) LongestAxis() int {
	e := b.Extent()
	if e.X > e.Y && e.X > e.Z {
		return 0
	}
	if e.Y > e.Z {
		return 1
	}
	return 2
}

// AxisExtent returns (min, max) of the box along the given axis (0=X,1=Y,2=Z).
func (b BBox) AxisExtent(axis int) (float32, float32) {
	switch axis {
	case 0:
		return b.Min.X, b.Max.X
	case 1:
		return b.Min.Y, b.Max.Y
	default:
		return b.Min.Z, b.Max.Z
	}
}

func axisComponent(v Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// IsValid reports whether Min <= Max on every axis.
func (b BBox) IsValid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Hit intersects a ray against the box using the slab method, returning the
// parametric interval [t0, t1] clipped to the input [tMin, tMax] and
// whether any such interval exists.
func (b BBox) Hit(ray Ray, tMin, tMax float32) (t0, t1 float32, hit bool) {
	t0, t1 = tMin, tMax
	for axis := 0; axis < 3; axis++ {
		lo, hi := b.AxisExtent(axis)
		origin := axisComponent(ray.Origin, axis)
		dir := axisComponent(ray.Direction, axis)

		if dir == 0 {
			if origin < lo || origin > hi {
				return 0, 0, false
			}
			continue
		}

		invDir := 1 / dir
		tNear := (lo - origin) * invDir
		tFar := (hi - origin) * invDir
		if tNear > tFar {
			tNear, tFar = tFar, tNear
		}
		if tNear > t0 {
			t0 = tNear
		}
		if tFar < t1 {
			t1 = tFar
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}

// --- Sampling warps ---

// CosineSampleHemisphere returns a direction in the hemisphere around
// (0,0,1) distributed proportionally to cos(theta), and its pdf (cos(theta)/pi).
func CosineSampleHemisphere(u Vec2) (dir Vec3, pdf float32) {
	r := float32(math.Sqrt(float64(u.X)))
	phi := 2 * math.Pi * float64(u.Y)
	x := r * float32(math.Cos(phi))
	y := r * float32(math.Sin(phi))
	z := float32(math.Sqrt(math.Max(0, 1-float64(u.X))))
	return NewVec3(x, y, z), z / float32(math.Pi)
}

// UniformSampleSphere returns a direction uniformly distributed over the
// unit sphere, and its pdf (1/4pi).
func UniformSampleSphere(u Vec2) (dir Vec3, pdf float32) {
	z := 1 - 2*u.X
	r := float32(math.Sqrt(math.Max(0, float64(1-z*z))))
	phi := 2 * math.Pi * float64(u.Y)
	x := r * float32(math.Cos(phi))
	y := r * float32(math.Sin(phi))
	return NewVec3(x, y, z), 1 / (4 * float32(math.Pi))
}

// UniformSampleDisc returns a point in the unit disc (z=0 plane), uniformly
// distributed by area.
func UniformSampleDisc(u Vec2) Vec2 {
	r := float32(math.Sqrt(float64(u.X)))
	phi := 2 * math.Pi * float64(u.Y)
	return NewVec2(r*float32(math.Cos(phi)), r*float32(math.Sin(phi)))
}

// UniformSampleCone samples a direction uniformly inside a cone around
// (0,0,1) with half-angle such that cos(halfAngle) == cosThetaMax, and
// returns the pdf for that cone (1 / (2*pi*(1-cosThetaMax))).
func UniformSampleCone(u Vec2, cosThetaMax float32) (dir Vec3, pdf float32) {
	cosTheta := 1 - u.X*(1-cosThetaMax)
	sinTheta := float32(math.Sqrt(math.Max(0, float64(1-cosTheta*cosTheta))))
	phi := 2 * math.Pi * float64(u.Y)
	x := sinTheta * float32(math.Cos(phi))
	y := sinTheta * float32(math.Sin(phi))
	return NewVec3(x, y, cosTheta), 1 / (2 * float32(math.Pi) * (1 - cosThetaMax))
}

// PowerHeuristic combines two sampling strategies' pdfs (one sample each)
// with the beta=2 power heuristic used throughout the integrator's MIS.
func PowerHeuristic(pdfA, pdfB float32) float32 {
	if pdfA == 0 {
		return 0
	}
	a2 := pdfA * pdfA
	b2 := pdfB * pdfB
	if a2+b2 == 0 {
		return 0
	}
	return a2 / (a2 + b2)
}
