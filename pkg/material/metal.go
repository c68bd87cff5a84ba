package material

import "github.com/solraven/kdtrace/pkg/core"

// Metal is a delta-distribution BSDF for specular (optionally fuzzy)
// reflection. Supplements the three BSDFs spec.md names, grounded on the
// same perturbed-mirror idiom the teacher's metal material used.
type Metal struct {
	Albedo    core.Vec3
	Fuzziness float32 // 0 = perfect mirror, 1 = very fuzzy
}

// NewMetal creates a Metal BSDF, clamping fuzziness to [0, 1].
func NewMetal(albedo core.Vec3, fuzziness float32) *Metal {
	return &Metal{Albedo: albedo, Fuzziness: clampF32(fuzziness, 0, 1)}
}

// Sample reflects incoming about the local normal, perturbed by fuzziness.
func (m *Metal) Sample(rng *core.RNG, incoming core.Vec3) (core.Vec3, core.Vec3, float32) {
	normal := core.NewVec3(0, 0, 1)
	reflected := reflectVector(incoming.Negate(), normal)

	if m.Fuzziness > 0 {
		perturbation, _ := core.UniformSampleSphere(rng.Float2())
		reflected = reflected.Add(perturbation.Multiply(m.Fuzziness)).Normalize()
	}

	if reflected.Dot(normal) <= 0 {
		return core.Vec3{}, core.Vec3{}, 0
	}

	cosOut := absCosTheta(reflected)
	f := m.Albedo.Multiply(1 / cosOut)
	return reflected, f, cosOut
}

// Eval is zero: Metal is a delta distribution.
func (m *Metal) Eval(incoming, outgoing core.Vec3) core.Vec3 { return core.Vec3{} }

// PDF is zero: Metal is a delta distribution.
func (m *Metal) PDF(incoming, outgoing core.Vec3) float32 { return 0 }

// ShouldDirectIlluminate implements BSDF: false, sampling is a delta
// distribution with no continuous density to combine via MIS.
func (m *Metal) ShouldDirectIlluminate() bool { return false }
