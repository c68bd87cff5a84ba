package geometry

import (
	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/light"
	"github.com/solraven/kdtrace/pkg/material"
)

// Mesh is a composite of triangles sharing a vertex buffer. It is a
// Refiner; although it has the Primitive methods, the acceleration
// structure never intersects a Mesh directly, only the triangles Refine returns. Calling Intersect on
// an un-refined Mesh is a programming error — every Mesh in a built scene
// must have gone through refinement before the kdtree package sees it.
type Mesh struct {
	Vertices  []core.Vec3
	Normals   []core.Vec3 // per-vertex normals, nil if flat-shaded
	Faces     []int       // triangle indices, len%3==0
	BSDF      material.BSDF
	triangles []Primitive
}

// NewMesh builds a Mesh from a shared vertex buffer and triangulated face
// indices, with a default material for every triangle. If normals is nil,
// each triangle uses its flat face normal (computed at Refine time).
// vertices, faces and normals come from an importer (pkg/meshimport),
// which accepts only triangular faces (it does not triangulate n-gons) and
// passes normals as nil when the source file has none.
func NewMesh(vertices []core.Vec3, normals []core.Vec3, faces []int, bsdf material.BSDF) *Mesh {
	if len(faces)%3 != 0 {
		panic("geometry: mesh face indices must be a multiple of 3")
	}
	return &Mesh{Vertices: vertices, Normals: normals, Faces: faces, BSDF: bsdf}
}

// Refine implements Refiner: builds (and caches) one Triangle per face.
func (m *Mesh) Refine() []Primitive {
	if m.triangles != nil {
		return m.triangles
	}
	numTriangles := len(m.Faces) / 3
	triangles := make([]Primitive, numTriangles)
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := m.Faces[i*3], m.Faces[i*3+1], m.Faces[i*3+2]
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]
		if m.Normals != nil {
			triangles[i] = NewTriangleWithNormals(v0, v1, v2, m.Normals[i0], m.Normals[i1], m.Normals[i2], m.BSDF)
		} else {
			triangles[i] = NewTriangle(v0, v1, v2, m.BSDF)
		}
	}
	m.triangles = triangles
	return triangles
}

// Intersect panics: a Mesh must be refined into the acceleration structure
// before anything tries to intersect it directly.
func (m *Mesh) Intersect(ray core.Ray, tMin, tMax float32) (core.Intersection, bool) {
	panic("geometry: Mesh.Intersect called on an un-refined mesh")
}

// IntersectShadow panics for the same reason as Intersect.
func (m *Mesh) IntersectShadow(ray core.Ray, tMin, tMax float32) bool {
	panic("geometry: Mesh.IntersectShadow called on an un-refined mesh")
}

// Bounds implements Primitive by unioning every vertex (cheap and exact
// enough for the acceleration structure's pre-refinement bookkeeping; the
// refined triangles carry the bounds actually used for traversal).
func (m *Mesh) Bounds() core.BBox {
	return core.NewBBoxFromPoints(m.Vertices...)
}

// SamplePoint is not supported directly on an un-refined mesh; sampling
// happens against one of its refined triangles instead.
func (m *Mesh) SamplePoint(rng *core.RNG) core.Vec3 {
	panic("geometry: Mesh.SamplePoint called on an un-refined mesh")
}

// Area sums the area of every refined triangle.
func (m *Mesh) Area() float32 {
	var total float32
	for _, tri := range m.Refine() {
		total += tri.Area()
	}
	return total
}

// Material implements Primitive.
func (m *Mesh) Material() material.BSDF { return m.BSDF }

// AreaLight implements Primitive: meshes are not area lights themselves
// (individual refined triangles may be, if the scene wraps them).
func (m *Mesh) AreaLight() *light.AreaLight { return nil }
