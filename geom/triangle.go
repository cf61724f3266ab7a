package geom

import "github.com/jkrueger/phosphorus/vecmath"

// TriangleRef is the lightweight record used during BVH build and area
// light preprocessing: a reference to one triangle in one mesh's face-set,
// not a copy of its vertex data.
type TriangleRef struct {
	MeshID     int
	FaceSet    int
	Face       int
	V0, V1, V2 vecmath.Vec3
}

// Bounds returns the AABB of the triangle's three vertices.
func (t TriangleRef) Bounds() vecmath.AABB {
	b := vecmath.AABB{Min: t.V0, Max: t.V0}
	b = b.GrowPoint(t.V1)
	b = b.GrowPoint(t.V2)
	return b
}

// Centroid returns the triangle's vertex centroid (not its area centroid),
// used as the BVH build's per-primitive split key.
func (t TriangleRef) Centroid() vecmath.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Mul(1.0 / 3.0)
}

// Area returns the triangle's surface area: half the cross-product
// magnitude of its edge vectors.
func (t TriangleRef) Area() float64 {
	e1 := t.V1.Sub(t.V0)
	e2 := t.V2.Sub(t.V0)
	return 0.5 * e1.Cross(e2).Length()
}

// Sample warps a uniform unit-square sample to a point on the triangle's
// surface via the canonical barycentric warp, returning the point and its
// geometric normal.
func (t TriangleRef) Sample(uv [2]float64) (p, n vecmath.Vec3) {
	b0, b1, b2 := vecmath.SampleTriangle(uv)
	p = t.V0.Mul(b0).Add(t.V1.Mul(b1)).Add(t.V2.Mul(b2))
	n = t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).Normalize()
	return
}

// CollectTriangles enumerates every triangle referenced by mesh m, tagged
// with mesh ID meshID, in face order.
func CollectTriangles(meshID int, m *Mesh) []TriangleRef {
	refs := make([]TriangleRef, 0, m.FaceCount())
	for fsIdx, fs := range m.FaceSets {
		for f := fs.FaceStart; f < fs.FaceStart+fs.FaceCount; f++ {
			v0, v1, v2 := m.FaceVertices(f)
			refs = append(refs, TriangleRef{
				MeshID:  meshID,
				FaceSet: fsIdx,
				Face:    f,
				V0:      v0, V1: v1, V2: v2,
			})
		}
	}
	return refs
}
