package material

import (
	"math"

	"github.com/solraven/kdtrace/pkg/core"
)

// Dielectric is a delta-distribution BSDF for transparent materials like
// glass, handling both reflection and refraction via Schlick's Fresnel
// approximation.
type Dielectric struct {
	Color           core.Vec3
	RefractiveIndex float32
}

// NewDielectric creates a Dielectric BSDF with the given tint and index of
// refraction (e.g. 1.5 for glass).
func NewDielectric(color core.Vec3, refractiveIndex float32) *Dielectric {
	return &Dielectric{Color: color, RefractiveIndex: refractiveIndex}
}

// reflectance computes Fresnel reflectance via Schlick's approximation.
func reflectance(cosine, eta float32) float32 {
	r0 := (1 - eta) / (1 + eta)
	r0 = r0 * r0
	return r0 + (1-r0)*float32(math.Pow(float64(1-cosine), 5))
}

// Sample casts either a mirror reflection or a refraction, choosing between
// them with Fresnel probability p (clamped to [0.25, 0.75]); total internal
// reflection forces p = 1.
func (d *Dielectric) Sample(rng *core.RNG, incoming core.Vec3) (core.Vec3, core.Vec3, float32) {
	entering := incoming.Z > 0
	var eta float32
	if entering {
		eta = 1 / d.RefractiveIndex
	} else {
		eta = d.RefractiveIndex
	}

	// incoming points toward the viewer; the ray traveled in -incoming.
	rayDir := incoming.Negate()
	normal := core.NewVec3(0, 0, 1)
	if !entering {
		normal = core.NewVec3(0, 0, -1)
	}
	cosTheta := minF32(-rayDir.Dot(normal), 1)
	sinTheta := float32(math.Sqrt(math.Max(0, 1-float64(cosTheta)*float64(cosTheta))))

	cannotRefract := eta*sinTheta > 1
	R := reflectance(cosTheta, eta)

	p := clampF32(0.25+0.5*R, 0.25, 0.75)
	if cannotRefract {
		p = 1
	}

	reflectDir := reflectVector(rayDir, normal)

	var outgoing core.Vec3
	var throughputColor float32
	var chosenP float32

	if cannotRefract || rng.Float() < p {
		outgoing = reflectDir
		throughputColor = R
		chosenP = p
	} else {
		outgoing = refractVector(rayDir, normal, eta)
		if outgoing.IsZero() {
			outgoing = reflectDir
			throughputColor = R
			chosenP = p
		} else {
			T := 1 - R
			throughputColor = T
			chosenP = 1 - p
		}
	}

	if chosenP <= 0 {
		return core.Vec3{}, core.Vec3{}, 0
	}

	// f·|cosθ|/pdf must equal color·throughputColor/chosenP (spec.md
	// §4.3). Choosing pdf = |cosθ| makes f itself exactly that ratio,
	// with no division by a possibly-tiny cosine.
	cosOut := absCosTheta(outgoing)
	if cosOut <= 1e-6 {
		return core.Vec3{}, core.Vec3{}, 0
	}
	f := d.Color.Multiply(throughputColor / chosenP)
	return outgoing, f, cosOut
}

// Eval is zero: Dielectric is a delta distribution.
func (d *Dielectric) Eval(incoming, outgoing core.Vec3) core.Vec3 { return core.Vec3{} }

// PDF is zero: Dielectric is a delta distribution.
func (d *Dielectric) PDF(incoming, outgoing core.Vec3) float32 { return 0 }

// ShouldDirectIlluminate implements BSDF: false, sampling is a delta
// distribution with no continuous density to combine via MIS.
func (d *Dielectric) ShouldDirectIlluminate() bool { return false }

// reflectVector reflects v about normal n: r = v - 2(v·n)n.
func reflectVector(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// refractVector refracts uv through normal n with relative index eta via
// Snell's law. Returns the zero vector on total internal reflection.
func refractVector(uv, n core.Vec3, eta float32) core.Vec3 {
	cosTheta := minF32(-uv.Dot(n), 1)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(eta)
	lenSq := 1 - rOutPerp.LengthSquared()
	if lenSq < 0 {
		return core.Vec3{}
	}
	rOutParallel := n.Multiply(-float32(math.Sqrt(float64(lenSq))))
	return rOutPerp.Add(rOutParallel)
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
