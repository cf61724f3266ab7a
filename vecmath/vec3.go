// Package vecmath provides the SIMD-aware numeric primitives the renderer
// is built on: 3-vectors, 4x4 matrices, wide (structure-of-arrays) float
// lanes, axis-aligned bounding boxes, and the sampling warps used by the
// camera, sampler, and light packages.
//
// Wide-lane helpers are generic over github.com/ajroetker/go-highway/hwy's
// Floats constraint, following the loop-over-a-slice style the go-highway
// matmul kernels use: one generic definition intended to be specialized
// per architecture by a SIMD-aware compiler backend, not hand-vectorized
// here.
package vecmath

import "math"

// Vec3 is a 3-component vector used for positions, directions, and colors.
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Mul(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) MulV(b Vec3) Vec3   { return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z} }
func (a Vec3) Neg() Vec3          { return Vec3{-a.X, -a.Y, -a.Z} }

func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) LengthSq() float64 { return a.Dot(a) }
func (a Vec3) Length() float64   { return math.Sqrt(a.LengthSq()) }

// Normalize returns a unit vector in the direction of a. The zero vector
// normalizes to the zero vector rather than NaN.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return Vec3{}
	}
	return a.Mul(1 / l)
}

// MaxComponent returns the largest of the three components, used by the
// integrator's Russian-roulette survival probability.
func (a Vec3) MaxComponent() float64 {
	m := a.X
	if a.Y > m {
		m = a.Y
	}
	if a.Z > m {
		m = a.Z
	}
	return m
}

// IsFinite reports whether every component is finite (no NaN or Inf).
func (a Vec3) IsFinite() bool {
	return !math.IsNaN(a.X) && !math.IsNaN(a.Y) && !math.IsNaN(a.Z) &&
		!math.IsInf(a.X, 0) && !math.IsInf(a.Y, 0) && !math.IsInf(a.Z, 0)
}

// Reflect reflects incident direction i, pointing toward the surface,
// about the unit normal n; the result points away from the surface on the
// side n faces. A non-unit n scales the normal component incorrectly.
func Reflect(i, n Vec3) Vec3 {
	return i.Sub(n.Mul(2 * i.Dot(n)))
}

// Refract refracts incident direction i (pointing toward the surface)
// about normal n using relative index of refraction eta = etaIncident /
// etaTransmitted. ok is false on total internal reflection.
func Refract(i, n Vec3, eta float64) (t Vec3, ok bool) {
	cosI := -n.Dot(i)
	sin2T := eta * eta * (1 - cosI*cosI)
	if sin2T > 1 {
		return Vec3{}, false
	}
	cosT := math.Sqrt(1 - sin2T)
	return i.Mul(eta).Add(n.Mul(eta*cosI - cosT)), true
}

// Faceforward flips n so that it lies in the same hemisphere as ref.
func Faceforward(n, ref Vec3) Vec3 {
	if n.Dot(ref) < 0 {
		return n.Neg()
	}
	return n
}

// Basis builds an orthonormal frame (tangent, bitangent, normal) around n,
// using Duff et al.'s branchless construction.
func Basis(n Vec3) (t, b Vec3) {
	sign := math.Copysign(1, n.Z)
	a := -1 / (sign + n.Z)
	c := n.X * n.Y * a
	t = Vec3{1 + sign*n.X*n.X*a, sign * c, -sign * n.X}
	b = Vec3{c, sign + n.Y*n.Y*a, -n.Y}
	return t, b
}

// ToLocal transforms world-space direction v into the local frame (t, b, n).
func ToLocal(v, t, b, n Vec3) Vec3 {
	return Vec3{v.Dot(t), v.Dot(b), v.Dot(n)}
}

// ToWorld transforms local-frame direction v back into world space.
func ToWorld(v, t, b, n Vec3) Vec3 {
	return t.Mul(v.X).Add(b.Mul(v.Y)).Add(n.Mul(v.Z))
}
