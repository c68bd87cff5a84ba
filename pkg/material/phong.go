package material

import (
	"math"

	"github.com/solraven/kdtrace/pkg/core"
)

// Phong is a modified-Phong glossy BSDF, lobed around the perfect mirror
// direction of incoming rather than around the surface normal.
type Phong struct {
	Color    core.Vec3
	Exponent float32
}

// NewPhong creates a Phong BSDF with the given color and exponent.
func NewPhong(color core.Vec3, exponent float32) *Phong {
	return &Phong{Color: color, Exponent: exponent}
}

// mirrorDirection reflects incoming (pointing away from the surface, toward
// the viewer) about the local normal to get the outgoing mirror direction.
func mirrorDirection(incoming core.Vec3) core.Vec3 {
	return core.NewVec3(-incoming.X, -incoming.Y, incoming.Z)
}

// Sample draws a direction from a lobe centered on the mirror direction of
// incoming, with cosθ_α = ξ^(1/(n+1)).
func (p *Phong) Sample(rng *core.RNG, incoming core.Vec3) (core.Vec3, core.Vec3, float32) {
	mirror := mirrorDirection(incoming)
	u := rng.Float2()
	cosAlpha := float32(math.Pow(float64(u.X), 1/float64(p.Exponent+1)))
	sinAlpha := float32(math.Sqrt(math.Max(0, 1-float64(cosAlpha)*float64(cosAlpha))))
	phi := 2 * math.Pi * u.Y
	local := core.NewVec3(sinAlpha*float32(math.Cos(float64(phi))), sinAlpha*float32(math.Sin(float64(phi))), cosAlpha)

	frame := core.NewFrameFromNormal(mirror)
	outgoing := frame.ToWorld(local)

	if !sameHemisphere(incoming, outgoing) {
		return core.Vec3{}, core.Vec3{}, 0
	}

	pdf := p.pdfAroundMirror(mirror, outgoing)
	if pdf <= 0 {
		return core.Vec3{}, core.Vec3{}, 0
	}
	return outgoing, p.Eval(incoming, outgoing), pdf
}

func (p *Phong) cosAlphaOf(mirror, outgoing core.Vec3) float32 {
	c := mirror.Dot(outgoing)
	if c < 0 {
		return 0
	}
	return c
}

func (p *Phong) pdfAroundMirror(mirror, outgoing core.Vec3) float32 {
	cosAlpha := p.cosAlphaOf(mirror, outgoing)
	if cosAlpha <= 0 {
		return 0
	}
	return (p.Exponent + 1) / (2 * float32(math.Pi)) * float32(math.Pow(float64(cosAlpha), float64(p.Exponent)))
}

// Eval returns c·(n+2)/(2π)·cos^n α, zero outside incoming's hemisphere.
func (p *Phong) Eval(incoming, outgoing core.Vec3) core.Vec3 {
	if !sameHemisphere(incoming, outgoing) {
		return core.Vec3{}
	}
	mirror := mirrorDirection(incoming)
	cosAlpha := p.cosAlphaOf(mirror, outgoing)
	if cosAlpha <= 0 {
		return core.Vec3{}
	}
	scale := (p.Exponent + 2) / (2 * float32(math.Pi)) * float32(math.Pow(float64(cosAlpha), float64(p.Exponent)))
	return p.Color.Multiply(scale)
}

// PDF returns (n+1)/(2π)·cos^n α around the mirror direction of incoming.
func (p *Phong) PDF(incoming, outgoing core.Vec3) float32 {
	if !sameHemisphere(incoming, outgoing) {
		return 0
	}
	mirror := mirrorDirection(incoming)
	return p.pdfAroundMirror(mirror, outgoing)
}

// ShouldDirectIlluminate implements BSDF.
func (p *Phong) ShouldDirectIlluminate() bool { return true }
