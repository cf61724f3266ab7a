package bvh

import (
	"math"

	"github.com/jkrueger/phosphorus/geom"
	"github.com/jkrueger/phosphorus/vecmath"
)

const sahBins = 12

// buildPrim is one primitive as seen by the builder: a reference back to
// its source triangle plus its precomputed bounds and centroid.
type buildPrim struct {
	ref      geom.TriangleRef
	bounds   vecmath.AABB
	centroid vecmath.Vec3
}

// candidate is a not-yet-finalized node child during the promotion loop:
// a run of primitives that may still become a leaf or be split further.
type candidate struct {
	prims []buildPrim
}

func boundsOf(prims []buildPrim) vecmath.AABB {
	b := vecmath.EmptyAABB()
	for _, p := range prims {
		b = b.Union(p.bounds)
	}
	return b
}

func centroidBoundsOf(prims []buildPrim) vecmath.AABB {
	b := vecmath.EmptyAABB()
	for _, p := range prims {
		b = b.GrowPoint(p.centroid)
	}
	return b
}

// Build constructs an N-wide BVH over the given triangle references using
// binned SAH splitting.
func Build(refs []geom.TriangleRef) *BVH {
	prims := make([]buildPrim, len(refs))
	for i, r := range refs {
		prims[i] = buildPrim{ref: r, bounds: r.Bounds(), centroid: r.Centroid()}
	}
	bd := &builder{bvh: &BVH{}}
	if len(prims) == 0 {
		bd.bvh.Nodes = append(bd.bvh.Nodes, Node{})
		return bd.bvh
	}
	bd.buildNode(prims)
	return bd.bvh
}

type builder struct {
	bvh *BVH
}

// buildNode builds one N-wide node over prims, appends it to bd.bvh.Nodes,
// and returns its index.
func (bd *builder) buildNode(prims []buildPrim) int32 {
	nodeIdx := int32(len(bd.bvh.Nodes))
	bd.bvh.Nodes = append(bd.bvh.Nodes, Node{})

	children := []candidate{{prims: prims}}
	for len(children) < WideFactor {
		bestIdx := -1
		bestArea := -1.0
		var bestAxis int
		var bestBin int
		for i, c := range children {
			ok, axis, bin := isSplittable(c.prims)
			if !ok {
				continue
			}
			area := boundsOf(c.prims).SurfaceArea()
			if area > bestArea {
				bestArea, bestIdx, bestAxis, bestBin = area, i, axis, bin
			}
		}
		if bestIdx < 0 {
			break
		}
		left, right := partitionByBin(children[bestIdx].prims, bestAxis, bestBin)
		if len(left) == 0 || len(right) == 0 {
			// Degenerate split (e.g. all centroids coincide on this
			// axis): treat as unsplittable and stop trying this
			// candidate again by leaving it in place.
			break
		}
		next := make([]candidate, 0, len(children)+1)
		next = append(next, children[:bestIdx]...)
		next = append(next, candidate{prims: left}, candidate{prims: right})
		next = append(next, children[bestIdx+1:]...)
		children = next
	}

	node := Node{NumChildren: int32(len(children))}
	for i, c := range children {
		slot := int32(i)
		node.setChildBounds(slot, boundsOf(c.prims))
		if ok, _, _ := isSplittable(c.prims); ok {
			childIdx := bd.buildNode(c.prims)
			node.Child[slot] = childIdx
			node.Flags[slot] = 0
		} else {
			first, count := bd.emitLeaf(c.prims)
			node.Child[slot] = first
			node.Count[slot] = count
			node.Flags[slot] = leafFlag
		}
	}
	bd.bvh.Nodes[nodeIdx] = node
	return nodeIdx
}

// emitLeaf packs prims into ceil(len/WideFactor) N-wide triangle records,
// padding the final record's unused lanes with a degenerate triangle, and
// returns (first record index, record count).
func (bd *builder) emitLeaf(prims []buildPrim) (first, count int32) {
	first = int32(len(bd.bvh.Tris))
	for i := 0; i < len(prims); i += WideFactor {
		var rec TriRecord
		end := i + WideFactor
		if end > len(prims) {
			end = len(prims)
		}
		for lane := 0; lane < WideFactor; lane++ {
			if i+lane >= end {
				// Degenerate: zero edges so e0 x e1-derived det is zero
				// and the lane can never report a hit.
				continue
			}
			p := prims[i+lane]
			v0, v1, v2 := p.ref.V0, p.ref.V1, p.ref.V2
			e0 := v1.Sub(v0)
			e1 := v2.Sub(v0)
			rec.V0X[lane], rec.V0Y[lane], rec.V0Z[lane] = v0.X, v0.Y, v0.Z
			rec.E0X[lane], rec.E0Y[lane], rec.E0Z[lane] = e0.X, e0.Y, e0.Z
			rec.E1X[lane], rec.E1Y[lane], rec.E1Z[lane] = e1.X, e1.Y, e1.Z
			rec.MeshID[lane] = int32(p.ref.MeshID)
			rec.FaceSet[lane] = int32(p.ref.FaceSet)
			rec.Face[lane] = int32(p.ref.Face)
			rec.Valid[lane] = true
		}
		bd.bvh.Tris = append(bd.bvh.Tris, rec)
	}
	count = int32(len(bd.bvh.Tris)) - first
	return
}

// isSplittable reports whether prims should be split further, and if so,
// the winning axis and bin boundary from the binned SAH search. Splitting
// stops once count <= N, or leafCost <= 1+splitCost.
func isSplittable(prims []buildPrim) (ok bool, axis, bin int) {
	if len(prims) <= 1 || len(prims) <= WideFactor {
		return false, 0, 0
	}
	axis, bin, cost, found := bestBinnedSplit(prims)
	if !found {
		return false, 0, 0
	}
	if float64(len(prims)) <= 1+cost {
		return false, 0, 0
	}
	return true, axis, bin
}

// bestBinnedSplit evaluates 12 equal-width centroid bins per axis and
// returns the axis/bin-boundary minimizing the surface-area-heuristic cost
// (|L|*A(L) + |R|*A(R)) / A(parent).
func bestBinnedSplit(prims []buildPrim) (axis, bin int, cost float64, ok bool) {
	parentArea := boundsOf(prims).SurfaceArea()
	if parentArea <= 0 {
		return 0, 0, 0, false
	}
	best := math.Inf(1)
	for a := 0; a < 3; a++ {
		cb := centroidBoundsOf(prims)
		lo := axisComponent(cb.Min, a)
		hi := axisComponent(cb.Max, a)
		extent := hi - lo
		if extent <= 1e-12 {
			continue
		}

		type binData struct {
			bounds vecmath.AABB
			count  int
		}
		bins := make([]binData, sahBins)
		for i := range bins {
			bins[i].bounds = vecmath.EmptyAABB()
		}
		binOf := func(p buildPrim) int {
			t := (axisComponent(p.centroid, a) - lo) / extent
			idx := int(t * float64(sahBins))
			if idx < 0 {
				idx = 0
			}
			if idx >= sahBins {
				idx = sahBins - 1
			}
			return idx
		}
		for _, p := range prims {
			b := &bins[binOf(p)]
			b.bounds = b.bounds.Union(p.bounds)
			b.count++
		}

		// Prefix/suffix sweep over the 11 internal boundaries.
		leftBounds := make([]vecmath.AABB, sahBins)
		leftCount := make([]int, sahBins)
		acc := vecmath.EmptyAABB()
		accCount := 0
		for i := 0; i < sahBins; i++ {
			acc = acc.Union(bins[i].bounds)
			accCount += bins[i].count
			leftBounds[i] = acc
			leftCount[i] = accCount
		}
		rightBounds := make([]vecmath.AABB, sahBins)
		rightCount := make([]int, sahBins)
		acc = vecmath.EmptyAABB()
		accCount = 0
		for i := sahBins - 1; i >= 0; i-- {
			acc = acc.Union(bins[i].bounds)
			accCount += bins[i].count
			rightBounds[i] = acc
			rightCount[i] = accCount
		}

		for k := 0; k < sahBins-1; k++ {
			lc, rc := leftCount[k], rightCount[k+1]
			if lc == 0 || rc == 0 {
				continue
			}
			c := (float64(lc)*leftBounds[k].SurfaceArea() + float64(rc)*rightBounds[k+1].SurfaceArea()) / parentArea
			if c < best {
				best, axis, bin, ok = c, a, k, true
			}
		}
	}
	return axis, bin, best, ok
}

// partitionByBin splits prims into (left, right) using the same binning
// rule bestBinnedSplit used to find (axis, bin).
func partitionByBin(prims []buildPrim, axis, bin int) (left, right []buildPrim) {
	cb := centroidBoundsOf(prims)
	lo := axisComponent(cb.Min, axis)
	hi := axisComponent(cb.Max, axis)
	extent := hi - lo
	if extent <= 1e-12 {
		extent = 1
	}
	for _, p := range prims {
		t := (axisComponent(p.centroid, axis) - lo) / extent
		idx := int(t * float64(sahBins))
		if idx < 0 {
			idx = 0
		}
		if idx >= sahBins {
			idx = sahBins - 1
		}
		if idx <= bin {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}
	return
}

func axisComponent(v vecmath.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
