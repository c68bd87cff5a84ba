package material

import (
	"math"

	"github.com/solraven/kdtrace/pkg/core"
)

// Lambert is a perfectly diffuse BSDF.
type Lambert struct {
	Albedo core.Vec3
}

// NewLambert creates a Lambert BSDF with the given albedo.
func NewLambert(albedo core.Vec3) *Lambert {
	return &Lambert{Albedo: albedo}
}

// Sample draws a cosine-weighted direction in the hemisphere incoming lies
// in (local +Z, mirrored to -Z when incoming.Z < 0) — a Lambert surface
// always scatters back out the side it was hit from.
func (l *Lambert) Sample(rng *core.RNG, incoming core.Vec3) (core.Vec3, core.Vec3, float32) {
	local, pdf := core.CosineSampleHemisphere(rng.Float2())
	outgoing := local
	if incoming.Z < 0 {
		outgoing = core.NewVec3(local.X, local.Y, -local.Z)
	}
	if pdf <= 0 {
		return core.Vec3{}, core.Vec3{}, 0
	}
	return outgoing, l.Eval(incoming, outgoing), pdf
}

// Eval returns albedo/π when incoming and outgoing share a hemisphere, 0
// otherwise.
func (l *Lambert) Eval(incoming, outgoing core.Vec3) core.Vec3 {
	if !sameHemisphere(incoming, outgoing) {
		return core.Vec3{}
	}
	return l.Albedo.Multiply(1 / float32(math.Pi))
}

// PDF returns cosθ/π for outgoing in the same hemisphere as incoming.
func (l *Lambert) PDF(incoming, outgoing core.Vec3) float32 {
	if !sameHemisphere(incoming, outgoing) {
		return 0
	}
	return absCosTheta(outgoing) / float32(math.Pi)
}

// ShouldDirectIlluminate implements BSDF.
func (l *Lambert) ShouldDirectIlluminate() bool { return true }
