package material

import (
	"math"
	"testing"

	"github.com/solraven/kdtrace/pkg/core"
)

func TestLambert_SampleStaysInIncomingHemisphere(t *testing.T) {
	l := NewLambert(core.NewVec3(0.5, 0.5, 0.5))
	rng := core.NewRNG(1)
	incoming := core.NewVec3(0, 0, 1)

	for i := 0; i < 100; i++ {
		outgoing, f, pdf := l.Sample(rng, incoming)
		if pdf <= 0 {
			t.Fatalf("sample %d: expected positive pdf, got %v", i, pdf)
		}
		if outgoing.Z <= 0 {
			t.Errorf("sample %d: outgoing %v not in incoming hemisphere", i, outgoing)
		}
		if f.X <= 0 {
			t.Errorf("sample %d: expected positive f, got %v", i, f)
		}
	}
}

func TestLambert_EvalMatchesAlbedoOverPi(t *testing.T) {
	l := NewLambert(core.NewVec3(0.8, 0.2, 0.4))
	incoming := core.NewVec3(0, 0, 1)
	outgoing := core.NewVec3(0.1, 0.2, 0.9).Normalize()

	got := l.Eval(incoming, outgoing)
	want := l.Albedo.Multiply(1 / float32(math.Pi))
	if !got.Equals(want) {
		t.Errorf("Eval() = %v, want %v", got, want)
	}
}

func TestLambert_EvalZeroAcrossHemispheres(t *testing.T) {
	l := NewLambert(core.NewVec3(1, 1, 1))
	incoming := core.NewVec3(0, 0, 1)
	outgoing := core.NewVec3(0, 0, -1)

	got := l.Eval(incoming, outgoing)
	if !got.IsZero() {
		t.Errorf("Eval() across hemispheres = %v, want zero", got)
	}
}

func TestLambert_PDFMatchesCosineOverPi(t *testing.T) {
	l := NewLambert(core.NewVec3(1, 1, 1))
	incoming := core.NewVec3(0, 0, 1)
	outgoing := core.NewVec3(0, 0, 1)

	got := l.PDF(incoming, outgoing)
	want := float32(1 / math.Pi)
	if math.Abs(float64(got-want)) > 1e-4 {
		t.Errorf("PDF() = %v, want %v", got, want)
	}
}

func TestLambert_EnergyConservation(t *testing.T) {
	l := NewLambert(core.NewVec3(0.9, 0.9, 0.9))
	rng := core.NewRNG(42)
	incoming := core.NewVec3(0, 0, 1)

	const n = 20000
	var sum float32
	for i := 0; i < n; i++ {
		outgoing, f, pdf := l.Sample(rng, incoming)
		if pdf <= 0 {
			continue
		}
		sum += f.X * absCosTheta(outgoing) / pdf
	}
	estimate := sum / float32(n)
	if estimate > 0.92 {
		t.Errorf("energy estimate %v exceeds albedo (not conservative)", estimate)
	}
}

func TestLambert_ShouldDirectIlluminate(t *testing.T) {
	l := NewLambert(core.NewVec3(1, 1, 1))
	if !l.ShouldDirectIlluminate() {
		t.Error("Lambert should support direct illumination")
	}
}
