package bvh

import (
	"math"
	"testing"

	"github.com/jkrueger/phosphorus/geom"
	"github.com/jkrueger/phosphorus/pipeline"
	"github.com/jkrueger/phosphorus/vecmath"
)

// gridMesh builds n unit quads (2n triangles) spread out along X so
// the BVH has real spatial structure to split on.
func gridMesh(t *testing.T, n int) *geom.Mesh {
	t.Helper()
	b := geom.NewMeshBuilder()
	for i := 0; i < n; i++ {
		x := float64(i) * 3
		base := int32(i * 4)
		b.AddVertex([3]float64{x, 0, 0})
		b.AddVertex([3]float64{x + 1, 0, 0})
		b.AddVertex([3]float64{x + 1, 1, 0})
		b.AddVertex([3]float64{x, 1, 0})
		b.AddFace(base, base+1, base+2)
		b.AddFace(base, base+2, base+3)
	}
	b.AddFaceSet(n*2, 0)
	m, err := b.Freeze()
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}
	return m
}

func allChildBoundsContained(t *testing.T, b *BVH, nodeIdx int32) {
	node := &b.Nodes[nodeIdx]
	parent := node.bounds()
	for c := int32(0); c < node.NumChildren; c++ {
		cb := node.ChildBounds(c)
		if !parent.Contains(cb, 1e-6) {
			t.Fatalf("node %d child %d bounds %+v not contained in parent %+v", nodeIdx, c, cb, parent)
		}
		if !node.isLeaf(c) {
			allChildBoundsContained(t, b, node.Child[c])
		}
	}
}

func TestBuildChildBoundsContainedInParent(t *testing.T) {
	m := gridMesh(t, 40)
	refs := geom.CollectTriangles(0, m)
	tree := Build(refs)
	allChildBoundsContained(t, tree, 0)
}

// naiveClosestHit intersects a ray against every triangle ref directly,
// used as the ground truth traversal must match or beat (never exceed).
func naiveClosestHit(refs []geom.TriangleRef, o, d vecmath.Vec3) (float64, bool) {
	best := math.Inf(1)
	hit := false
	for _, r := range refs {
		e0 := r.V1.Sub(r.V0)
		e1 := r.V2.Sub(r.V0)
		p := d.Cross(e1)
		det := e0.Dot(p)
		if math.Abs(det) < 1e-9 {
			continue
		}
		invDet := 1 / det
		tv := o.Sub(r.V0)
		u := tv.Dot(p) * invDet
		if u < 0 || u > 1 {
			continue
		}
		q := tv.Cross(e0)
		v := d.Dot(q) * invDet
		if v < 0 || u+v > 1 {
			continue
		}
		dist := e1.Dot(q) * invDet
		if dist > 0 && dist < best {
			best = dist
			hit = true
		}
	}
	return best, hit
}

func TestTraverseMatchesNaiveClosestHit(t *testing.T) {
	m := gridMesh(t, 25)
	refs := geom.CollectTriangles(0, m)
	tree := Build(refs)

	pkt := pipeline.New(4)
	active := pipeline.NewActiveSet(4)

	cases := []struct{ o, d vecmath.Vec3 }{
		{vecmath.Vec3{X: 0.5, Y: 0.5, Z: -5}, vecmath.Vec3{X: 0, Y: 0, Z: 1}},
		{vecmath.Vec3{X: 10.5, Y: 0.5, Z: -5}, vecmath.Vec3{X: 0, Y: 0, Z: 1}},
		{vecmath.Vec3{X: 100, Y: 100, Z: -5}, vecmath.Vec3{X: 0, Y: 0, Z: 1}}, // miss
		{vecmath.Vec3{X: 48.5, Y: 0.5, Z: -5}, vecmath.Vec3{X: 0, Y: 0, Z: 1}},
	}
	for i, c := range cases {
		pkt.SetRay(i, c.o.X, c.o.Y, c.o.Z, c.d.X, c.d.Y, c.d.Z, math.Inf(1))
		pkt.ClearBounceOutputs(i)
	}
	active.Fill(len(cases))
	Traverse(tree, pkt, active)

	for i, c := range cases {
		wantDist, wantHit := naiveClosestHit(refs, c.o, c.d)
		if pkt.Hit[i] != wantHit {
			t.Fatalf("case %d: hit=%v want=%v", i, pkt.Hit[i], wantHit)
		}
		if wantHit && math.Abs(pkt.TMax[i]-wantDist) > 1e-6 {
			t.Fatalf("case %d: dist=%v want=%v", i, pkt.TMax[i], wantDist)
		}
	}
}

func TestBuildEmptySceneProducesNoHits(t *testing.T) {
	tree := Build(nil)
	pkt := pipeline.New(1)
	active := pipeline.NewActiveSet(1)
	pkt.SetRay(0, 0, 0, -5, 0, 0, 1, math.Inf(1))
	pkt.ClearBounceOutputs(0)
	active.Fill(1)
	Traverse(tree, pkt, active)
	if pkt.Hit[0] {
		t.Fatalf("expected no hit against an empty scene")
	}
}
