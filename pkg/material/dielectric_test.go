package material

import (
	"testing"

	"github.com/solraven/kdtrace/pkg/core"
)

func TestDielectric_DeltaDistribution(t *testing.T) {
	d := NewDielectric(core.NewVec3(1, 1, 1), 1.5)
	incoming := core.NewVec3(0, 0, 1)
	outgoing := core.NewVec3(0, 0, 1)

	if f := d.Eval(incoming, outgoing); !f.IsZero() {
		t.Errorf("Eval() = %v, want zero (delta distribution)", f)
	}
	if pdf := d.PDF(incoming, outgoing); pdf != 0 {
		t.Errorf("PDF() = %v, want 0 (delta distribution)", pdf)
	}
	if d.ShouldDirectIlluminate() {
		t.Error("Dielectric must not request direct illumination (delta distribution)")
	}
}

func TestDielectric_TotalInternalReflectionForcesReflect(t *testing.T) {
	d := NewDielectric(core.NewVec3(1, 1, 1), 1.5)
	rng := core.NewRNG(7)
	// Grazing incoming from inside the medium (entering=false since Z<0)
	// at an angle steep enough that eta*sinTheta > 1 for eta = 1.5.
	incoming := core.NewVec3(0.99, 0, -0.1411).Normalize()

	outgoing, f, pdf := d.Sample(rng, incoming)
	if pdf <= 0 {
		t.Fatalf("expected a valid sample under TIR, got pdf=%v", pdf)
	}
	reflected := reflectVector(incoming.Negate(), core.NewVec3(0, 0, -1))
	if !outgoing.Equals(reflected) {
		t.Errorf("outgoing = %v, want mirror reflection %v under TIR", outgoing, reflected)
	}
	if f.IsZero() {
		t.Error("expected nonzero f under TIR reflection")
	}
}

func TestDielectric_NormalIncidenceSplitsReflectRefract(t *testing.T) {
	d := NewDielectric(core.NewVec3(1, 1, 1), 1.5)
	rng := core.NewRNG(99)
	incoming := core.NewVec3(0, 0, 1)

	sawReflect, sawRefract := false, false
	for i := 0; i < 200; i++ {
		outgoing, _, pdf := d.Sample(rng, incoming)
		if pdf <= 0 {
			continue
		}
		if outgoing.Z > 0 {
			sawReflect = true
		} else {
			sawRefract = true
		}
	}
	if !sawReflect || !sawRefract {
		t.Errorf("expected both reflection and refraction at normal incidence, sawReflect=%v sawRefract=%v", sawReflect, sawRefract)
	}
}
