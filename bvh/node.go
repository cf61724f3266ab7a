// Package bvh implements the renderer's spatial index: an N-wide
// bounding-volume hierarchy built with binned surface-area-heuristic
// splitting, and a stream traversal kernel that intersects a tile's ray
// packet against it using packed N-wide Möller–Trumbore triangle tests.
//
// The algorithmic shape is grounded on carver.go's ComputeSeams (a
// top-to-bottom per-row scan that aggregates a cost over bins and picks the
// minimum — the same shape as binned SAH cost evaluation) and
// FindLowestEnergySeams (a nearest-neighbour weighted walk — the same shape
// as near-distance-ordered child descent during traversal).
package bvh

import "github.com/jkrueger/phosphorus/vecmath"

// WideFactor is the branching factor N of the hierarchy: each internal
// node holds up to WideFactor children, loadable as WideFactor SIMD lanes.
const WideFactor = 8

// leafFlag marks a child slot as pointing into the packed-triangle array
// rather than into the node array.
const leafFlag = 1

// Node is one N-wide node: child bounds in structure-of-arrays layout (6
// planes of WideFactor floats), per-child offsets/counts/flags, and the
// number of occupied child slots.
type Node struct {
	MinX, MinY, MinZ [WideFactor]float64
	MaxX, MaxY, MaxZ [WideFactor]float64

	// Child holds, for a leaf slot, the index of the first packed
	// N-wide triangle record; for an internal slot, the index of the
	// child Node in the tree's Nodes array.
	Child [WideFactor]int32
	// Count holds, for a leaf slot, the number of packed N-wide triangle
	// records at Child; it is unused (0) for internal slots.
	Count [WideFactor]int32
	Flags [WideFactor]uint8

	NumChildren int32
}

func (n *Node) isLeaf(slot int32) bool { return n.Flags[slot]&leafFlag != 0 }

// ChildBounds returns slot i's AABB.
func (n *Node) ChildBounds(i int32) vecmath.AABB {
	return vecmath.AABB{
		Min: vecmath.Vec3{X: n.MinX[i], Y: n.MinY[i], Z: n.MinZ[i]},
		Max: vecmath.Vec3{X: n.MaxX[i], Y: n.MaxY[i], Z: n.MaxZ[i]},
	}
}

func (n *Node) setChildBounds(i int32, b vecmath.AABB) {
	n.MinX[i], n.MinY[i], n.MinZ[i] = b.Min.X, b.Min.Y, b.Min.Z
	n.MaxX[i], n.MaxY[i], n.MaxZ[i] = b.Max.X, b.Max.Y, b.Max.Z
}

// bounds returns the union of a node's occupied child bounds, i.e. the
// node's own AABB as seen from its parent.
func (n *Node) bounds() vecmath.AABB {
	b := vecmath.EmptyAABB()
	for i := int32(0); i < n.NumChildren; i++ {
		b = b.Union(n.ChildBounds(i))
	}
	return b
}

// TriRecord is a packed N-wide triangle record: base vertex v0 and edge
// vectors e0 = v1-v0, e1 = v2-v0 per lane (matching the Möller–Trumbore
// formulation used at traversal), plus per-lane mesh/face-set/face IDs.
// Lanes beyond a leaf's real triangle count are degenerate (zero edges, so
// det is always ~0 and the lane can never produce a hit).
type TriRecord struct {
	V0X, V0Y, V0Z [WideFactor]float64
	E0X, E0Y, E0Z [WideFactor]float64
	E1X, E1Y, E1Z [WideFactor]float64

	MeshID, FaceSet, Face [WideFactor]int32
	Valid                 [WideFactor]bool
}

// BVH is the built hierarchy: a flat node array (index 0 is the root) and
// a flat packed-triangle array referenced by leaf child slots.
type BVH struct {
	Nodes []Node
	Tris  []TriRecord
}

// Bounds returns the root node's AABB, the bounds of the whole hierarchy.
func (b *BVH) Bounds() vecmath.AABB {
	if len(b.Nodes) == 0 {
		return vecmath.EmptyAABB()
	}
	return b.Nodes[0].bounds()
}
