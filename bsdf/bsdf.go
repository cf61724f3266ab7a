package bsdf

import (
	"math"

	"github.com/jkrueger/phosphorus/vecmath"
)

// BSDF is a closure-tree evaluated into a fixed-size lobe list by the
// material package's shading network walk. material.Shader keeps one per
// packet lane and overwrites it in place every bounce, so it must not
// outlive the bounce that produced it.
type BSDF struct {
	Geometric vecmath.Vec3 // geometric normal, for shading-normal clamping
	Shading   vecmath.Vec3 // shading normal
	Tangent   vecmath.Vec3
	Bitangent vecmath.Vec3

	Lobes [MaxLobes]Lobe
	N     int // number of lobes in use, 0 <= N <= MaxLobes
}

// Reset clears a BSDF for reuse against a fresh shading frame, letting the
// per-lane instance be overwritten in place rather than reallocated.
func (b *BSDF) Reset(n, t, bt vecmath.Vec3) {
	b.Geometric = n
	b.Shading = n
	b.Tangent = t
	b.Bitangent = bt
	b.N = 0
}

// AddLobe appends a lobe to the closure tree. Callers must not exceed
// MaxLobes; the material package's closure-tree walk checks N before
// every call.
func (b *BSDF) AddLobe(l Lobe) {
	b.Lobes[b.N] = l
	b.N++
}

// toLocal/toWorld convert a world-space direction into the BSDF's shading
// frame and back; every lobe operates in this local frame.
func (b *BSDF) toLocal(w vecmath.Vec3) vecmath.Vec3 {
	return vecmath.ToLocal(w, b.Tangent, b.Bitangent, b.Shading)
}

func (b *BSDF) toWorld(w vecmath.Vec3) vecmath.Vec3 {
	return vecmath.ToWorld(w, b.Tangent, b.Bitangent, b.Shading)
}

// F evaluates the sum of every lobe's BRDF/BTDF at the given world-space
// directions, weighted by each lobe's tint. wi and wo both point away from
// the shading point.
func (b *BSDF) F(wiWorld, woWorld vecmath.Vec3) vecmath.Vec3 {
	wi := b.toLocal(wiWorld)
	wo := b.toLocal(woWorld)
	sum := vecmath.Vec3{}
	for i := 0; i < b.N; i++ {
		l := b.Lobes[i]
		f := evalLobe(l, wi, wo)
		sum = sum.Add(l.Weight.Mul(f))
	}
	return sum
}

// Pdf returns the combined, lobe-averaged sampling density at (wi, wo),
// matching the weighting Sample uses: each lobe contributes 1/N of the
// total density.
func (b *BSDF) Pdf(wiWorld, woWorld vecmath.Vec3) float64 {
	if b.N == 0 {
		return 0
	}
	wi := b.toLocal(wiWorld)
	wo := b.toLocal(woWorld)
	sum := 0.0
	for i := 0; i < b.N; i++ {
		sum += pdfLobe(b.Lobes[i], wi, wo)
	}
	return sum / float64(b.N)
}

// SampleFlags reports whether a sampled direction came from a delta
// (specular) lobe, in which case NEE must be skipped for that bounce.
const (
	SampleSpecular uint8 = 1 << iota
)

// Sample draws a continuation direction from one lobe chosen uniformly by
// u.X (remapped for reuse), evaluates the combined f and pdf across all
// lobes at the result, and reports whether the chosen lobe was a delta
// distribution. wiWorld points away from the shading point toward the
// previous vertex; the returned woWorld points away from the shading point
// toward the next vertex.
func (b *BSDF) Sample(wiWorld vecmath.Vec3, u [2]float64) (woWorld vecmath.Vec3, pdf float64, f vecmath.Vec3, flags uint8, ok bool) {
	if b.N == 0 {
		return vecmath.Vec3{}, 0, vecmath.Vec3{}, 0, false
	}
	wi := b.toLocal(wiWorld)

	k := int(u[0] * float64(b.N))
	if k >= b.N {
		k = b.N - 1
	}
	uRemap := u[0]*float64(b.N) - float64(k)
	chosen := b.Lobes[k]

	wo, lobePdf, delta, sampleOk := sampleLobe(chosen, wi, [2]float64{uRemap, u[1]})
	if !sampleOk || lobePdf <= 0 {
		return vecmath.Vec3{}, 0, vecmath.Vec3{}, 0, false
	}

	sum := 0.0
	fsum := vecmath.Vec3{}
	for i := 0; i < b.N; i++ {
		l := b.Lobes[i]
		if i == k && delta {
			// A delta lobe contributes only its own term; other lobes are
			// zero at an exact specular direction almost surely.
			continue
		}
		sum += pdfLobe(l, wi, wo)
		fsum = fsum.Add(l.Weight.Mul(evalLobe(l, wi, wo)))
	}
	if delta {
		pdf = lobePdf / float64(b.N)
		v := 1.0
		if chosen.Kind == LobeRefract {
			v = 1 - fresnelDielectric(cosTheta(wi), chosen.Params.Eta)
		}
		fsum = chosen.Weight.Mul(v)
	} else {
		pdf = sum / float64(b.N)
	}

	var fl uint8
	if delta {
		fl = SampleSpecular
	}
	return b.toWorld(wo), pdf, fsum, fl, true
}

// IsSpecular reports whether every lobe in the BSDF is a delta
// distribution, in which case the integrator must skip next-event
// estimation for this bounce.
func (b *BSDF) IsSpecular() bool {
	if b.N == 0 {
		return false
	}
	for i := 0; i < b.N; i++ {
		switch b.Lobes[i].Kind {
		case LobeReflect, LobeRefract, LobeTransparent:
		default:
			return false
		}
	}
	return true
}

// cosTheta/absCosTheta assume the shading-frame convention where Z is the
// shading normal.
func cosTheta(w vecmath.Vec3) float64    { return w.Z }
func absCosTheta(w vecmath.Vec3) float64 { return math.Abs(w.Z) }
func sameHemisphere(a, b vecmath.Vec3) bool {
	return a.Z*b.Z > 0
}
