// Package material implements the shading dispatch layer: bucket-by-hit
// material sorting, the external shading-network contract, and the
// closure-tree walk that assembles a BSDF per shading point in the
// Shader's per-lane slab.
//
// Grounded on imop/composite.go's Composite.Draw dispatch-by-tag-then-
// apply-formula shape (look up an operation by name, then run its
// formula over the pixel buffers) generalized to look up a material by ID
// then run its compiled shading network over the hit buffers.
package material

import (
	"github.com/jkrueger/phosphorus/bsdf"
	"github.com/jkrueger/phosphorus/vecmath"
)

// Globals are the shading inputs made available to a network at one hit
// point: incident direction, position, both normals, and UV.
type Globals struct {
	Position        vecmath.Vec3
	Wi              vecmath.Vec3 // unit direction from the hit back toward the ray origin
	GeometricNormal vecmath.Vec3
	ShadingNormal   vecmath.Vec3
	UV              [2]float64
}

// ClosureKind tags a ClosureNode the way bsdf.LobeKind tags a Lobe: a
// small int enum dispatched in Walk instead of an interface method call.
type ClosureKind uint8

const (
	ClosureLobe ClosureKind = iota
	ClosureEmission
	ClosureAdd
	ClosureScale
)

// ClosureNode is one node of the sum-of-scaled-products tree a shading
// network returns: a closure tree.
type ClosureNode struct {
	Kind     ClosureKind
	Lobe     bsdf.Lobe     // valid when Kind == ClosureLobe
	Emission vecmath.Vec3  // valid when Kind == ClosureEmission
	Children []ClosureNode // valid when Kind == ClosureAdd
	Scale    vecmath.Vec3  // valid when Kind == ClosureScale
	Child    *ClosureNode  // valid when Kind == ClosureScale
}

// Lobe builds a leaf closure node wrapping a single BSDF lobe.
func Lobe(l bsdf.Lobe) ClosureNode { return ClosureNode{Kind: ClosureLobe, Lobe: l} }

// Emission builds a leaf closure node contributing emitted radiance.
func Emission(e vecmath.Vec3) ClosureNode { return ClosureNode{Kind: ClosureEmission, Emission: e} }

// Add sums several closure subtrees.
func Add(children ...ClosureNode) ClosureNode { return ClosureNode{Kind: ClosureAdd, Children: children} }

// Scale tints a closure subtree by a colour weight.
func Scale(weight vecmath.Vec3, child ClosureNode) ClosureNode {
	c := child
	return ClosureNode{Kind: ClosureScale, Scale: weight, Child: &c}
}

// Network is the external shading-runtime contract: given shading
// globals, return a closure tree. No parser or language runtime is
// shipped here — only this boundary.
type Network interface {
	Evaluate(g Globals) ClosureNode
	IsEmitter() bool
}

// StaticNetwork is a concrete, in-process Network over a fixed closure
// tree, independent of shading globals — the degenerate case of an
// external shading-language runtime, useful for materials that need no
// texture lookups or varying parameters.
type StaticNetwork struct {
	root    ClosureNode
	emitter bool
}

// NewStaticNetwork wraps a fixed closure tree, precomputing is_emitter by
// scanning for an Emission node: emitter status is derived from the
// presence of an emission closure in the compiled network.
func NewStaticNetwork(root ClosureNode) *StaticNetwork {
	return &StaticNetwork{root: root, emitter: containsEmission(root)}
}

func (s *StaticNetwork) Evaluate(Globals) ClosureNode { return s.root }
func (s *StaticNetwork) IsEmitter() bool              { return s.emitter }

func containsEmission(n ClosureNode) bool {
	switch n.Kind {
	case ClosureEmission:
		return true
	case ClosureAdd:
		for _, c := range n.Children {
			if containsEmission(c) {
				return true
			}
		}
		return false
	case ClosureScale:
		return n.Child != nil && containsEmission(*n.Child)
	default:
		return false
	}
}

// Material binds a stable scene-assigned ID to a shading network.
type Material struct {
	ID  int
	Net Network
}

// Walk flattens a closure tree into lobes on dst, scaled cumulatively by
// weight, and accumulates emission into emissionOut.
func Walk(n ClosureNode, weight vecmath.Vec3, dst *bsdf.BSDF, emissionOut *vecmath.Vec3) {
	switch n.Kind {
	case ClosureLobe:
		l := n.Lobe
		l.Weight = l.Weight.MulV(weight)
		if dst.N < bsdf.MaxLobes {
			dst.AddLobe(l)
		}
	case ClosureEmission:
		*emissionOut = emissionOut.Add(n.Emission.MulV(weight))
	case ClosureAdd:
		for _, c := range n.Children {
			Walk(c, weight, dst, emissionOut)
		}
	case ClosureScale:
		if n.Child != nil {
			Walk(*n.Child, weight.MulV(n.Scale), dst, emissionOut)
		}
	}
}
