package geometry

import (
	"math"
	"testing"

	"github.com/solraven/kdtrace/pkg/core"
)

func TestTriangle_IntersectInsideAndOutside(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(-1, -1, 0),
		core.NewVec3(1, -1, 0),
		core.NewVec3(0, 1, 0),
		nil,
	)

	inside := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	if _, hit := tri.Intersect(inside, 0.001, 1000); !hit {
		t.Error("expected hit for ray through triangle interior")
	}

	outside := core.NewRay(core.NewVec3(5, 5, 5), core.NewVec3(0, 0, -1))
	if _, hit := tri.Intersect(outside, 0.001, 1000); hit {
		t.Error("expected miss for ray outside triangle")
	}
}

func TestTriangle_FlatNormal(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(-1, -1, 0),
		core.NewVec3(1, -1, 0),
		core.NewVec3(0, 1, 0),
		nil,
	)
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	isect, _ := tri.Intersect(ray, 0.001, 1000)
	want := core.NewVec3(0, 0, 1)
	if !isect.Normal.Equals(want) && !isect.Normal.Equals(want.Negate()) {
		t.Errorf("Normal = %v, want ±%v", isect.Normal, want)
	}
}

func TestTriangle_InterpolatesPerVertexNormals(t *testing.T) {
	tri := NewTriangleWithNormals(
		core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0).Normalize(),
		nil,
	)
	// Ray through the centroid should yield a normal blending all three.
	centroid := tri.V0.Add(tri.V1).Add(tri.V2).Multiply(1.0 / 3.0)
	ray := core.NewRay(centroid.Add(core.NewVec3(0, 0, 5)), core.NewVec3(0, 0, -1))
	isect, hit := tri.Intersect(ray, 0.001, 1000)
	if !hit {
		t.Fatal("expected hit at centroid")
	}
	if isect.Normal.Equals(tri.N0) {
		t.Error("expected interpolated normal to differ from a single vertex normal")
	}
}

func TestTriangle_Area(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), nil,
	)
	want := float32(2.0)
	if math.Abs(float64(tri.Area()-want)) > 1e-4 {
		t.Errorf("Area() = %v, want %v", tri.Area(), want)
	}
}

func TestTriangle_SamplePointInsideTriangle(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0), nil,
	)
	rng := core.NewRNG(31)
	for i := 0; i < 50; i++ {
		p := tri.SamplePoint(rng)
		ray := core.NewRay(p.Add(core.NewVec3(0, 0, 5)), core.NewVec3(0, 0, -1))
		if _, hit := tri.Intersect(ray, 0.001, 1000); !hit {
			t.Errorf("sample %d at %v not inside triangle", i, p)
		}
	}
}
