package vecmath

import "github.com/ajroetker/go-highway/hwy"

// WideMin writes, lane by lane, the minimum of a and b into dst. dst, a,
// and b must have equal length. This is the generic-over-architecture
// style used throughout the go-highway contrib kernels: one definition
// that a SIMD-aware backend can specialize per target, written here as a
// plain loop since this module ships no architecture-specific dispatch.
func WideMin[T hwy.Floats](dst, a, b []T) {
	n := len(dst)
	for i := 0; i < n; i++ {
		if a[i] < b[i] {
			dst[i] = a[i]
		} else {
			dst[i] = b[i]
		}
	}
}

// WideMax writes, lane by lane, the maximum of a and b into dst.
func WideMax[T hwy.Floats](dst, a, b []T) {
	n := len(dst)
	for i := 0; i < n; i++ {
		if a[i] > b[i] {
			dst[i] = a[i]
		} else {
			dst[i] = b[i]
		}
	}
}

// WideFMA computes dst[i] = a[i]*b[i] + c[i] lane by lane.
func WideFMA[T hwy.Floats](dst, a, b, c []T) {
	n := len(dst)
	for i := 0; i < n; i++ {
		dst[i] = a[i]*b[i] + c[i]
	}
}

// WideSub computes dst[i] = a[i] - b[i] lane by lane.
func WideSub[T hwy.Floats](dst, a, b []T) {
	n := len(dst)
	for i := 0; i < n; i++ {
		dst[i] = a[i] - b[i]
	}
}

// LaneMask is a bitmask over up to 64 SIMD lanes, the movemask-style result
// of a wide comparison.
type LaneMask uint64

// Set marks lane i as active.
func (m *LaneMask) Set(i int) { *m |= LaneMask(1) << uint(i) }

// Test reports whether lane i is active.
func (m LaneMask) Test(i int) bool { return m&(LaneMask(1)<<uint(i)) != 0 }

// WideLessMask compares a[i] < b[i] lane by lane (i < n) and returns the
// resulting mask, the SIMD compare-and-movemask idiom. The bvh package's
// triangle intersector is a scalar loop and does not call it.
func WideLessMask[T hwy.Floats](a, b []T, n int) LaneMask {
	var mask LaneMask
	for i := 0; i < n; i++ {
		if a[i] < b[i] {
			mask.Set(i)
		}
	}
	return mask
}
