package geom

import (
	"fmt"

	"github.com/jkrueger/phosphorus/vecmath"
)

func vec3(p [3]float64) vecmath.Vec3 { return vecmath.Vec3{X: p[0], Y: p[1], Z: p[2]} }

// MeshBuilder fills a Mesh's arrays incrementally and freezes it into an
// immutable Mesh, mirroring the initialize-then-configure idiom of
// imop.InitOp / Composite.Set.
type MeshBuilder struct {
	mesh *Mesh
}

// NewMeshBuilder starts building a new mesh.
func NewMeshBuilder() *MeshBuilder {
	return &MeshBuilder{mesh: &Mesh{}}
}

// AddVertex appends a vertex position and returns its index.
func (b *MeshBuilder) AddVertex(p [3]float64) int32 {
	idx := int32(len(b.mesh.Positions))
	b.mesh.Positions = append(b.mesh.Positions, vec3(p))
	return idx
}

// SetNormals replaces the mesh's per-vertex normal array wholesale. Length
// must equal the current vertex count at Freeze time.
func (b *MeshBuilder) SetNormals(normals [][3]float64) {
	b.mesh.Normals = make([]vecmath.Vec3, len(normals))
	for i, n := range normals {
		b.mesh.Normals[i] = vec3(n)
	}
}

// SetUVs replaces the mesh's per-vertex UV array wholesale.
func (b *MeshBuilder) SetUVs(uvs [][2]float64) {
	b.mesh.UVs = uvs
}

// AddFace appends a triangle referencing three vertex indices.
func (b *MeshBuilder) AddFace(i0, i1, i2 int32) {
	b.mesh.Faces = append(b.mesh.Faces, i0, i1, i2)
}

// AddFaceSet declares that the next faceCount faces (starting at the
// mesh's current face count) belong to materialID.
func (b *MeshBuilder) AddFaceSet(faceCount int, materialID int) {
	start := len(b.mesh.Faces) / 3
	b.mesh.FaceSets = append(b.mesh.FaceSets, FaceSet{
		FaceStart:  start,
		FaceCount:  faceCount,
		MaterialID: materialID,
	})
}

// Freeze validates and finalizes the mesh, enforcing the per-vertex
// normal/UV layout invariant: per-vertex only, asserted here as a
// construction bug if violated.
func (b *MeshBuilder) Freeze() (*Mesh, error) {
	m := b.mesh
	if len(m.Faces)%3 != 0 {
		return nil, fmt.Errorf("geom: face index array length %d is not a multiple of 3", len(m.Faces))
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Positions) {
		panic(fmt.Sprintf("geom: per-corner normal layout is not supported; got %d normals for %d vertices", len(m.Normals), len(m.Positions)))
	}
	if len(m.UVs) != 0 && len(m.UVs) != len(m.Positions) {
		panic(fmt.Sprintf("geom: per-corner UV layout is not supported; got %d uvs for %d vertices", len(m.UVs), len(m.Positions)))
	}
	for _, idx := range m.Faces {
		if int(idx) < 0 || int(idx) >= len(m.Positions) {
			return nil, fmt.Errorf("geom: face references out-of-range vertex index %d", idx)
		}
	}
	m.frozen = true
	return m, nil
}
