// Package material implements BSDFs (bidirectional scattering distribution
// functions) per spec.md §4.3. Every BSDF works entirely in a local frame
// where the surface normal is +Z; the integrator is responsible for
// building that frame from a hit's world-space normal and transforming
// directions in and out of it (see core.Frame).
package material

import "github.com/solraven/kdtrace/pkg/core"

// BSDF is the sample/eval/pdf triple every material implements. incoming
// is the direction toward the viewer (i.e. back along the ray that hit the
// surface); outgoing is the direction toward the next bounce. Both are
// expressed in the surface's local frame.
type BSDF interface {
	// Sample draws an outgoing direction from the BSDF's own distribution.
	// pdf == 0 signals failure — the caller must treat this as "no
	// contribution", not as an error.
	Sample(rng *core.RNG, incoming core.Vec3) (outgoing core.Vec3, f core.Vec3, pdf float32)

	// Eval returns the BSDF value at (incoming, outgoing). Must return the
	// zero vector for a delta distribution.
	Eval(incoming, outgoing core.Vec3) core.Vec3

	// PDF returns the probability density of outgoing given incoming, on
	// the unit sphere measure. Must return 0 for a delta distribution.
	PDF(incoming, outgoing core.Vec3) float32

	// ShouldDirectIlluminate reports whether next-event estimation makes
	// sense for this BSDF. False iff Sample is a delta distribution (no
	// continuous density to combine with a light sample via MIS).
	ShouldDirectIlluminate() bool
}

// sameHemisphere reports whether a and b (both in a local frame where Z is
// the surface normal) are on the same side of the surface.
func sameHemisphere(a, b core.Vec3) bool {
	return a.Z*b.Z > 0
}

func cosTheta(v core.Vec3) float32 { return v.Z }

func absCosTheta(v core.Vec3) float32 {
	c := v.Z
	if c < 0 {
		return -c
	}
	return c
}
