package integrator

import (
	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/geometry"
	"github.com/solraven/kdtrace/pkg/light"
	"github.com/solraven/kdtrace/pkg/material"
	"github.com/solraven/kdtrace/pkg/scene"
)

const shadowEpsilon = 1e-3

// RayColor estimates the radiance arriving back along ray from sc, using
// rng for every stochastic decision along the path.
func (pt *PathTracer) RayColor(ray core.Ray, sc *scene.Scene, rng *core.RNG) core.Vec3 {
	L := core.Vec3{}
	beta := core.NewVec3(1, 1, 1)
	specularBounce := true

	r := ray
	for depth := 1; ; depth++ {
		isect, prim, hit := sc.Tree.IntersectClosest(r, shadowEpsilon, float32(1e30))
		if !hit {
			break
		}

		mat := prim.Material()
		if tp, ok := prim.(geometry.TexturedPrimitive); ok {
			mat = tp.MaterialAt(isect.U, isect.V)
		}

		// A hit whose own material has no continuous scattering density
		// (Dielectric, Metal) can never be reached by NEE from the prior
		// vertex either, since mat.ShouldDirectIlluminate() there would also
		// be false — so its emission must be counted here or lost entirely,
		// same as a specular bounce or the camera ray itself.
		deltaHit := mat != nil && !mat.ShouldDirectIlluminate()
		if al := prim.AreaLight(); al != nil && (specularBounce || depth == 1 || deltaHit) && r.Direction.Dot(isect.Normal) <= 0 {
			L = L.Add(beta.MultiplyVec(al.Emission))
		}

		if mat == nil {
			break
		}

		frame := core.NewFrameFromNormal(isect.Normal)
		incoming := frame.ToLocal(r.Direction.Normalize().Negate())

		if mat.ShouldDirectIlluminate() && len(sc.Lights) > 0 {
			if chosen, idx, ok := sc.LightSampler.Sample(rng.Float()); ok {
				if p := sc.LightSampler.Probability(idx); p > 0 {
					direct := pt.directIlluminate(rng, sc, isect.Point, frame, incoming, mat, chosen)
					L = L.Add(beta.MultiplyVec(direct).Multiply(1 / p))
				}
			}
		}

		outLocal, f, pdf := mat.Sample(rng, incoming)
		if pdf == 0 || f.IsZero() {
			break
		}
		outgoing := frame.ToWorld(outLocal)

		cosine := absF32(outLocal.Z)
		beta = beta.MultiplyVec(f).Multiply(cosine / pdf)
		specularBounce = !mat.ShouldDirectIlluminate()

		r = core.NewRay(isect.Point.Add(outgoing.Multiply(shadowEpsilon)), outgoing)

		q := float32(1)
		applyRR := false
		if depth > RussianRouletteStage1 {
			q = clampF32(beta.MaxComponent(), RussianRouletteMinSurvival, 1)
			applyRR = true
		}
		if depth > RussianRouletteStage2 {
			q = clampF32(beta.Luminance(), 0, 1)
			applyRR = true
		}
		if applyRR {
			if rng.Float() > q || q <= 0 {
				break
			}
			beta = beta.Multiply(1 / q)
		}
		if depth >= MaxDepth {
			break
		}
	}

	return clampFirefly(L)
}

// directIlluminate estimates the direct-lighting contribution at a hit
// point by combining one light-distribution sample and one material-
// distribution sample via the power heuristic, per spec.md §4.5.
func (pt *PathTracer) directIlluminate(rng *core.RNG, sc *scene.Scene, point core.Vec3, frame core.Frame, incoming core.Vec3, mat material.BSDF, chosen *light.AreaLight) core.Vec3 {
	contribution := core.Vec3{}

	if sample, ok := chosen.Sample(point, rng); ok && sample.PDF > 0 && !sample.Emission.IsZero() {
		wLocal := frame.ToLocal(sample.Direction)
		if wLocal.Z > 0 {
			f := mat.Eval(incoming, wLocal)
			pdfM := mat.PDF(incoming, wLocal)
			if !f.IsZero() && !sc.Tree.IntersectShadow(shadowRay(point, sample.Direction), shadowEpsilon, sample.Distance-shadowEpsilon) {
				w := core.PowerHeuristic(sample.PDF, pdfM)
				term := f.MultiplyVec(sample.Emission).Multiply(wLocal.Z * w / sample.PDF)
				contribution = contribution.Add(clampFirefly(term))
			}
		}
	}

	outLocal, f, pdfM := mat.Sample(rng, incoming)
	if pdfM > 0 && !f.IsZero() && outLocal.Z > 0 {
		outgoing := frame.ToWorld(outLocal)
		emission, pdfL, lightDist := chosen.Eval(point, outgoing)
		if pdfL > 0 && !emission.IsZero() && !sc.Tree.IntersectShadow(shadowRay(point, outgoing), shadowEpsilon, lightDist-shadowEpsilon) {
			w := core.PowerHeuristic(pdfM, pdfL)
			term := f.MultiplyVec(emission).Multiply(outLocal.Z * w / pdfM)
			contribution = contribution.Add(clampFirefly(term))
		}
	}

	return contribution
}

func shadowRay(point, dir core.Vec3) core.Ray {
	return core.NewRay(point.Add(dir.Multiply(shadowEpsilon)), dir)
}

func absF32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clampF32(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
