package geometry

import (
	"testing"

	"github.com/solraven/kdtrace/pkg/core"
)

func quadMeshFixture() *Mesh {
	vertices := []core.Vec3{
		core.NewVec3(-1, -1, 0),
		core.NewVec3(1, -1, 0),
		core.NewVec3(1, 1, 0),
		core.NewVec3(-1, 1, 0),
	}
	faces := []int{0, 1, 2, 0, 2, 3}
	return NewMesh(vertices, nil, faces, nil)
}

func TestMesh_RefineYieldsTriangles(t *testing.T) {
	m := quadMeshFixture()
	tris := m.Refine()
	if len(tris) != 2 {
		t.Fatalf("Refine() yielded %d triangles, want 2", len(tris))
	}
}

func TestMesh_RefineIsCached(t *testing.T) {
	m := quadMeshFixture()
	first := m.Refine()
	second := m.Refine()
	if len(first) != len(second) {
		t.Fatal("Refine() should return a stable triangle set across calls")
	}
}

func TestMesh_IntersectOnUnrefinedMeshPanics(t *testing.T) {
	m := quadMeshFixture()
	defer func() {
		if recover() == nil {
			t.Error("expected Intersect on a Mesh to panic")
		}
	}()
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	m.Intersect(ray, 0.001, 1000)
}

func TestMesh_AreaSumsTriangles(t *testing.T) {
	m := quadMeshFixture()
	area := m.Area()
	want := float32(4.0) // 2x2 quad split into two unit-area-2 triangles
	if area < want-1e-3 || area > want+1e-3 {
		t.Errorf("Area() = %v, want %v", area, want)
	}
}

func TestMesh_FaceIndicesMustBeTriple(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected NewMesh to panic on non-multiple-of-3 face indices")
		}
	}()
	NewMesh([]core.Vec3{{}, {}, {}}, nil, []int{0, 1}, nil)
}
