package geom

import (
	"math"
	"testing"

	"github.com/jkrueger/phosphorus/vecmath"
)

func buildQuad(t *testing.T) *Mesh {
	t.Helper()
	b := NewMeshBuilder()
	b.AddVertex([3]float64{0, 0, 0})
	b.AddVertex([3]float64{1, 0, 0})
	b.AddVertex([3]float64{1, 1, 0})
	b.AddVertex([3]float64{0, 1, 0})
	b.AddFace(0, 1, 2)
	b.AddFace(0, 2, 3)
	b.AddFaceSet(2, 7)
	m, err := b.Freeze()
	if err != nil {
		t.Fatalf("freeze failed: %v", err)
	}
	return m
}

func TestFreezeRejectsBadFaceIndices(t *testing.T) {
	b := NewMeshBuilder()
	b.AddVertex([3]float64{0, 0, 0})
	b.AddFace(0, 1, 2)
	if _, err := b.Freeze(); err == nil {
		t.Fatalf("expected error for out-of-range face index")
	}
}

func TestFreezePanicsOnPerCornerNormals(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for mismatched normal count")
		}
	}()
	b := NewMeshBuilder()
	b.AddVertex([3]float64{0, 0, 0})
	b.AddVertex([3]float64{1, 0, 0})
	b.AddVertex([3]float64{0, 1, 0})
	b.AddFace(0, 1, 2)
	b.SetNormals([][3]float64{{0, 0, 1}, {0, 0, 1}}) // 2 normals, 3 verts
	b.Freeze()
}

func TestMaterialForFace(t *testing.T) {
	m := buildQuad(t)
	if id := m.MaterialForFace(0); id != 7 {
		t.Fatalf("expected material 7, got %d", id)
	}
	if id := m.MaterialForFace(5); id != -1 {
		t.Fatalf("expected -1 for unclaimed face, got %d", id)
	}
}

func TestShadingParametersInterpolation(t *testing.T) {
	m := buildQuad(t)
	pos, normal, _ := m.ShadingParameters(0, 0, 0)
	if pos != (vecmath.Vec3{0, 0, 0}) {
		t.Fatalf("expected w0 vertex at u=v=0, got %+v", pos)
	}
	if math.Abs(normal.Z-1) > 1e-9 {
		t.Fatalf("expected +Z normal for XY-plane quad, got %+v", normal)
	}
}

func TestTriangleAreaAndSampleOnPlane(t *testing.T) {
	tri := TriangleRef{
		V0: vecmath.Vec3{0, 0, 0},
		V1: vecmath.Vec3{1, 0, 0},
		V2: vecmath.Vec3{0, 1, 0},
	}
	if got := tri.Area(); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected area 0.5, got %v", got)
	}
	p, n := tri.Sample([2]float64{0.3, 0.6})
	if p.Z != 0 {
		t.Fatalf("expected sampled point on z=0 plane, got %+v", p)
	}
	if n.Z != 1 {
		t.Fatalf("expected +Z normal, got %+v", n)
	}
}
