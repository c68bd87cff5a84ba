package material

import (
	"math"
	"testing"

	"github.com/solraven/kdtrace/pkg/core"
)

func TestPhong_SampleConcentratesNearMirrorDirection(t *testing.T) {
	p := NewPhong(core.NewVec3(1, 1, 1), 100)
	rng := core.NewRNG(3)
	incoming := core.NewVec3(0, 0, 1)
	mirror := mirrorDirection(incoming)

	var minCos float32 = 1
	for i := 0; i < 500; i++ {
		outgoing, _, pdf := p.Sample(rng, incoming)
		if pdf <= 0 {
			continue
		}
		c := outgoing.Dot(mirror)
		if c < minCos {
			minCos = c
		}
	}
	if minCos < 0.5 {
		t.Errorf("high-exponent Phong lobe spread too wide, min cos to mirror = %v", minCos)
	}
}

func TestPhong_EvalZeroAcrossHemispheres(t *testing.T) {
	p := NewPhong(core.NewVec3(1, 1, 1), 10)
	incoming := core.NewVec3(0, 0, 1)
	outgoing := core.NewVec3(0, 0, -1)

	if f := p.Eval(incoming, outgoing); !f.IsZero() {
		t.Errorf("Eval() across hemispheres = %v, want zero", f)
	}
}

func TestPhong_PDFMatchesEvalDerivedConstant(t *testing.T) {
	p := NewPhong(core.NewVec3(2, 2, 2), 5)
	incoming := core.NewVec3(0, 0, 1)
	mirror := mirrorDirection(incoming)

	pdf := p.PDF(incoming, mirror)
	want := (p.Exponent + 1) / (2 * float32(math.Pi))
	if math.Abs(float64(pdf-want)) > 1e-4 {
		t.Errorf("PDF() at mirror direction = %v, want %v", pdf, want)
	}
}

func TestPhong_ShouldDirectIlluminate(t *testing.T) {
	p := NewPhong(core.NewVec3(1, 1, 1), 50)
	if !p.ShouldDirectIlluminate() {
		t.Error("Phong should support direct illumination")
	}
}
