package meshimport

import (
	"github.com/solraven/kdtrace/pkg/geometry"
	"github.com/solraven/kdtrace/pkg/material"
)

// ToMesh builds a geometry.Mesh from imported data, assigning bsdf to every
// triangle.
func (d *MeshData) ToMesh(bsdf material.BSDF) *geometry.Mesh {
	return geometry.NewMesh(d.Vertices, d.Normals, d.Faces, bsdf)
}
