package vecmath

import "math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// EmptyAABB returns a degenerate box suitable as the identity element of
// Union (Min > Max on every axis).
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Union returns the smallest box containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: Vec3{math.Min(a.Min.X, b.Min.X), math.Min(a.Min.Y, b.Min.Y), math.Min(a.Min.Z, b.Min.Z)},
		Max: Vec3{math.Max(a.Max.X, b.Max.X), math.Max(a.Max.Y, b.Max.Y), math.Max(a.Max.Z, b.Max.Z)},
	}
}

// GrowPoint returns the smallest box containing a and point p.
func (a AABB) GrowPoint(p Vec3) AABB {
	return AABB{
		Min: Vec3{math.Min(a.Min.X, p.X), math.Min(a.Min.Y, p.Y), math.Min(a.Min.Z, p.Z)},
		Max: Vec3{math.Max(a.Max.X, p.X), math.Max(a.Max.Y, p.Y), math.Max(a.Max.Z, p.Z)},
	}
}

// Contains reports whether b lies fully within a, within eps slack. Used by
// the BVH invariant test that a parent's bounds contain the union of its
// children's bounds.
func (a AABB) Contains(b AABB, eps float64) bool {
	return b.Min.X >= a.Min.X-eps && b.Min.Y >= a.Min.Y-eps && b.Min.Z >= a.Min.Z-eps &&
		b.Max.X <= a.Max.X+eps && b.Max.Y <= a.Max.Y+eps && b.Max.Z <= a.Max.Z+eps
}

// Centroid returns the box's center point.
func (a AABB) Centroid() Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Extent returns the box's per-axis size.
func (a AABB) Extent() Vec3 {
	return a.Max.Sub(a.Min)
}

// SurfaceArea returns the box's total surface area, the weight term in the
// binned SAH cost function.
func (a AABB) SurfaceArea() float64 {
	e := a.Extent()
	if e.X < 0 || e.Y < 0 || e.Z < 0 {
		return 0
	}
	return 2 * (e.X*e.Y + e.Y*e.Z + e.Z*e.X)
}

// LargestAxis returns 0, 1, or 2 for the box's longest axis (X, Y, Z).
func (a AABB) LargestAxis() int {
	e := a.Extent()
	if e.X > e.Y && e.X > e.Z {
		return 0
	}
	if e.Y > e.Z {
		return 1
	}
	return 2
}

// Hit intersects a ray (origin o, direction inverse invD, valid parametric
// range [tMin, tMax]) against the box using the slab method. It returns
// whether the ray enters the box within range and the near-distance used
// only as a traversal-order heuristic by the stream kernel.
func (a AABB) Hit(o, invD Vec3, tMin, tMax float64) (hit bool, near float64) {
	t1 := (a.Min.X - o.X) * invD.X
	t2 := (a.Max.X - o.X) * invD.X
	tNear, tFar := math.Min(t1, t2), math.Max(t1, t2)

	t1 = (a.Min.Y - o.Y) * invD.Y
	t2 = (a.Max.Y - o.Y) * invD.Y
	tNear = math.Max(tNear, math.Min(t1, t2))
	tFar = math.Min(tFar, math.Max(t1, t2))

	t1 = (a.Min.Z - o.Z) * invD.Z
	t2 = (a.Max.Z - o.Z) * invD.Z
	tNear = math.Max(tNear, math.Min(t1, t2))
	tFar = math.Min(tFar, math.Max(t1, t2))

	tNear = math.Max(tNear, tMin)
	tFar = math.Min(tFar, tMax)

	return tNear <= tFar, tNear
}
