package bvh

import (
	"sort"

	"github.com/jkrueger/phosphorus/pipeline"
	"github.com/jkrueger/phosphorus/vecmath"
)

// boxEpsilon is the slab-test tMin, keeping a ray from re-hitting the box
// it just left at a shared face.
const boxEpsilon = 1e-6

// task is one entry on the traversal stack: a lane queue of ray indices
// waiting to descend into a node (internal) or be tested against a leaf's
// packed triangle records.
type task struct {
	rays      []int32
	leaf      bool
	nodeIdx   int32
	triFirst  int32
	triCount  int32
	nearOrder float64
}

// Traverse intersects every ray named by active against the hierarchy,
// writing the closest hit per ray into pkt's traversal-output arrays.
// Callers must have already cleared pkt's per-bounce outputs and set
// pkt.TMax to each ray's current max distance.
func Traverse(bvh *BVH, pkt *pipeline.Packet, active *pipeline.ActiveSet) {
	if len(bvh.Nodes) == 0 || bvh.Nodes[0].NumChildren == 0 {
		return
	}
	root := make([]int32, len(active.Indices))
	copy(root, active.Indices)

	stack := make([]task, 0, 256)
	stack = append(stack, task{rays: root, nodeIdx: 0})

	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if t.leaf {
			traverseLeaf(bvh, pkt, t)
			continue
		}
		traverseInternal(bvh, pkt, t, &stack)
	}
}

// traverseInternal drains t's ray queue against the node's N child boxes in
// one pass, buckets each ray into the child lane queues its box test hits,
// and pushes the resulting child tasks ordered so the nearest-on-average
// child is popped first.
func traverseInternal(bvh *BVH, pkt *pipeline.Packet, t task, stack *[]task) {
	node := &bvh.Nodes[t.nodeIdx]
	if node.NumChildren == 0 {
		return
	}

	queues := make([][]int32, node.NumChildren)
	nearSum := make([]float64, node.NumChildren)

	for _, r := range t.rays {
		o := vecmath.Vec3{X: pkt.OX[r], Y: pkt.OY[r], Z: pkt.OZ[r]}
		invD := vecmath.Vec3{X: 1 / pkt.DX[r], Y: 1 / pkt.DY[r], Z: 1 / pkt.DZ[r]}
		for c := int32(0); c < node.NumChildren; c++ {
			hit, near := node.ChildBounds(c).Hit(o, invD, boxEpsilon, pkt.TMax[r])
			if hit {
				queues[c] = append(queues[c], r)
				nearSum[c] += near
			}
		}
	}

	type pendingChild struct {
		slot int32
		t    task
	}
	pending := make([]pendingChild, 0, node.NumChildren)
	for c := int32(0); c < node.NumChildren; c++ {
		if len(queues[c]) == 0 {
			continue
		}
		ct := task{rays: queues[c], nearOrder: nearSum[c] / float64(len(queues[c]))}
		if node.isLeaf(c) {
			ct.leaf = true
			ct.triFirst = node.Child[c]
			ct.triCount = node.Count[c]
		} else {
			ct.nodeIdx = node.Child[c]
		}
		pending = append(pending, pendingChild{slot: c, t: ct})
	}

	// Descending near-order so the closest child, pushed last, pops first.
	sort.Slice(pending, func(i, j int) bool { return pending[i].t.nearOrder > pending[j].t.nearOrder })
	for _, p := range pending {
		*stack = append(*stack, p.t)
	}
}

// traverseLeaf intersects every ray in t's queue against the leaf's packed
// N-wide triangle records, keeping the closest hit per ray.
func traverseLeaf(bvh *BVH, pkt *pipeline.Packet, t task) {
	for _, r := range t.rays {
		ox, oy, oz := pkt.OX[r], pkt.OY[r], pkt.OZ[r]
		dx, dy, dz := pkt.DX[r], pkt.DY[r], pkt.DZ[r]
		for i := int32(0); i < t.triCount; i++ {
			rec := &bvh.Tris[t.triFirst+i]
			intersectRecord(rec, ox, oy, oz, dx, dy, dz, pkt.TMax[r],
				func(d, u, v float64, mesh, faceSet, face int32) float64 {
					pkt.TMax[r] = d
					pkt.Hit[r] = true
					pkt.U[r], pkt.V[r] = u, v
					pkt.MeshID[r], pkt.FaceSetIdx[r], pkt.Face[r] = mesh, faceSet, face
					return d
				})
		}
	}
}
