// Package geom implements the renderer's geometry representation: flat
// vertex/normal/uv/face arrays grouped into face-sets, and the triangle
// view used by both BVH construction and area-light preprocessing.
//
// Mesh indexing follows a flat-array-plus-stride idiom from carver.go's
// energy grid (c.Points[x+y*c.Width]), generalized from a 2-D pixel grid
// to 3-per-face vertex indices.
package geom

import "github.com/jkrueger/phosphorus/vecmath"

// FaceSet groups a contiguous run of faces under a single material.
type FaceSet struct {
	// FaceStart/FaceCount index into the mesh's Faces array in units of
	// faces (3 indices each), not raw ints.
	FaceStart, FaceCount int
	MaterialID           int
}

// Mesh is an immutable-after-Freeze triangle mesh: flat position/normal/uv
// arrays and face-sets linking faces to materials.
//
// This renderer enforces a single convention: normals and UVs, when
// present, are per-vertex (indexed the same way as positions), never
// per-face-corner. Freeze asserts this invariant rather than silently
// tolerating either layout.
type Mesh struct {
	Positions []vecmath.Vec3
	Normals   []vecmath.Vec3 // optional; len == len(Positions) or 0
	UVs       [][2]float64   // optional; len == len(Positions) or 0

	// Faces holds 3 vertex indices per triangle, flattened.
	Faces []int32

	FaceSets []FaceSet

	frozen bool
}

// FaceCount returns the number of triangles in the mesh.
func (m *Mesh) FaceCount() int { return len(m.Faces) / 3 }

// HasNormals reports whether the mesh carries per-vertex shading normals.
func (m *Mesh) HasNormals() bool { return len(m.Normals) > 0 }

// HasUVs reports whether the mesh carries per-vertex texture coordinates.
func (m *Mesh) HasUVs() bool { return len(m.UVs) > 0 }

// FaceVertexIndices returns the three vertex indices of face i.
func (m *Mesh) FaceVertexIndices(face int) (i0, i1, i2 int32) {
	base := face * 3
	return m.Faces[base], m.Faces[base+1], m.Faces[base+2]
}

// FaceVertices returns the three world-space vertex positions of face i.
func (m *Mesh) FaceVertices(face int) (v0, v1, v2 vecmath.Vec3) {
	i0, i1, i2 := m.FaceVertexIndices(face)
	return m.Positions[i0], m.Positions[i1], m.Positions[i2]
}

// FaceBounds returns the AABB of face i's three vertices.
func (m *Mesh) FaceBounds(face int) vecmath.AABB {
	v0, v1, v2 := m.FaceVertices(face)
	b := vecmath.AABB{Min: v0, Max: v0}
	b = b.GrowPoint(v1)
	b = b.GrowPoint(v2)
	return b
}

// MaterialForFace resolves the material ID governing face i by scanning
// the mesh's face-sets. Returns -1 if no face-set claims the face.
func (m *Mesh) MaterialForFace(face int) int {
	for _, fs := range m.FaceSets {
		if face >= fs.FaceStart && face < fs.FaceStart+fs.FaceCount {
			return fs.MaterialID
		}
	}
	return -1
}

// ShadingParameters interpolates position, shading normal, and UV at a hit
// described by face index and barycentric (u, v), using barycentric
// weights (1-u-v, u, v).
func (m *Mesh) ShadingParameters(face int, u, v float64) (pos, normal vecmath.Vec3, uv [2]float64) {
	w0, w1, w2 := 1-u-v, u, v
	i0, i1, i2 := m.FaceVertexIndices(face)

	p0, p1, p2 := m.Positions[i0], m.Positions[i1], m.Positions[i2]
	pos = p0.Mul(w0).Add(p1.Mul(w1)).Add(p2.Mul(w2))

	if m.HasNormals() {
		n0, n1, n2 := m.Normals[i0], m.Normals[i1], m.Normals[i2]
		normal = n0.Mul(w0).Add(n1.Mul(w1)).Add(n2.Mul(w2)).Normalize()
	} else {
		normal = p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
	}

	if m.HasUVs() {
		uv0, uv1, uv2 := m.UVs[i0], m.UVs[i1], m.UVs[i2]
		uv = [2]float64{
			uv0[0]*w0 + uv1[0]*w1 + uv2[0]*w2,
			uv0[1]*w0 + uv1[1]*w1 + uv2[1]*w2,
		}
	}
	return
}

// GeometricNormal returns the unnormalized-then-normalized face-plane
// normal of face i, independent of shading normals — used for NEE shadow
// ray offsetting.
func (m *Mesh) GeometricNormal(face int) vecmath.Vec3 {
	v0, v1, v2 := m.FaceVertices(face)
	return v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
}
