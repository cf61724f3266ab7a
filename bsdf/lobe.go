// Package bsdf implements the surface-shading lobe library: Lambert,
// Oren-Nayar, GGX microfacet, specular reflect/refract, transparent, and
// sheen, combined behind a fixed-size tagged-union BSDF so the shading
// runtime can emit closures without per-lobe dynamic allocation.
//
// The tagged-union shape follows imop.Blend/imop.Composite (a
// Current-tag-plus-dispatch struct), promoted from a string tag over a
// handful of named constants to a small int-tagged enum with an inline
// fixed-size parameter record, avoiding a per-lobe interface allocation
// on this hot path.
package bsdf

import "github.com/jkrueger/phosphorus/vecmath"

// LobeKind tags which closure a Lobe's Params should be interpreted as.
type LobeKind uint8

const (
	LobeDiffuse LobeKind = iota
	LobeOrenNayar
	LobeMicrofacet
	LobeReflect
	LobeRefract
	LobeTransparent
	LobeSheen
	LobeEmissive
)

// MaxLobes is the maximum number of lobes a single BSDF can hold.
const MaxLobes = 8

// Params is a fixed-size parameter record covering every lobe kind's
// needs, avoiding a heap-allocated interface value per lobe.
type Params struct {
	Roughness   float64 // Oren-Nayar alpha (radians), or GGX alpha
	AlphaX      float64 // GGX anisotropic alpha, X
	AlphaY      float64 // GGX anisotropic alpha, Y
	Eta         float64 // relative index of refraction (refract lobe)
	SheenWeight float64
}

// Lobe is one term of a BSDF: a closure kind, its weight color, and its
// parameter record. Lobes are value types so a BSDF can hold up to MaxLobes
// of them inline with no per-lobe allocation.
type Lobe struct {
	Kind   LobeKind
	Weight vecmath.Vec3
	Params Params
}
