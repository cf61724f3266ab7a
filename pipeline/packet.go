// Package pipeline defines the tile-sized ray packet ("pipeline state")
// that flows through traversal, shading, and the integrator: a
// structure-of-arrays batch of rays plus the parallel shading-output
// arrays and an active-set index list naming which lanes are currently
// live.
//
// One Packet and one ActiveSet are owned per worker thread (see the xpu
// package) and reused across bounces within a tile; BSDF pointers stored
// in a Packet point into material.Shader's per-lane slab and must not be
// read after the next bounce's shading pass overwrites it.
package pipeline

import "github.com/jkrueger/phosphorus/bsdf"

// Size is the default ray packet size: a tile-sized batch of rays
// processed together through traversal and shading.
const Size = 1024

// Flag bits recorded per ray. The integrator reads FlagSpecularBounce to
// decide whether an emitter hit should contribute (bounce 0, or the
// previous bounce was a specular delta); whether NEE is skipped is decided
// by bsdf.BSDF.IsSpecular, not by a flag.
const (
	FlagSpecularBounce uint8 = 1 << iota
	FlagTerminated
)

// Packet is a tile-sized structure-of-arrays batch of rays, carrying both
// the inputs to traversal (origin, direction, max distance) and the
// parallel shading-output arrays traversal and shading write into.
type Packet struct {
	n int

	// Ray inputs.
	OX, OY, OZ []float64
	DX, DY, DZ []float64
	TMax       []float64
	Flags      []uint8

	// Traversal outputs.
	Hit        []bool
	MeshID     []int32
	FaceSetIdx []int32
	Face       []int32
	U, V       []float64

	// Shading outputs.
	NX, NY, NZ []float64 // shading normal
	PX, PY, PZ []float64 // hit position
	EX, EY, EZ []float64 // emission at the hit, accumulated by material eval
	BSDF       []*bsdf.BSDF

	// Per-path state carried across bounces within a tile.
	PixelX, PixelY    []int32
	BetaR, BetaG, BetaB []float64
	RadR, RadG, RadB    []float64
	Terminated          []bool
}

// New allocates a Packet with capacity for n rays (all slices pre-sized to
// n; BeginPath and ClearBounceOutputs reset a lane for reuse).
func New(n int) *Packet {
	p := &Packet{n: n}
	f := func() []float64 { return make([]float64, n) }
	i32 := func() []int32 { return make([]int32, n) }
	p.OX, p.OY, p.OZ = f(), f(), f()
	p.DX, p.DY, p.DZ = f(), f(), f()
	p.TMax = f()
	p.Flags = make([]uint8, n)
	p.Hit = make([]bool, n)
	p.MeshID, p.FaceSetIdx, p.Face = i32(), i32(), i32()
	p.U, p.V = f(), f()
	p.NX, p.NY, p.NZ = f(), f(), f()
	p.PX, p.PY, p.PZ = f(), f(), f()
	p.EX, p.EY, p.EZ = f(), f(), f()
	p.BSDF = make([]*bsdf.BSDF, n)
	p.PixelX, p.PixelY = i32(), i32()
	p.BetaR, p.BetaG, p.BetaB = f(), f(), f()
	p.RadR, p.RadG, p.RadB = f(), f(), f()
	p.Terminated = make([]bool, n)
	return p
}

// Len returns the packet's allocated lane capacity.
func (p *Packet) Len() int { return p.n }

// ClearBounceOutputs resets the per-bounce traversal/shading outputs for
// lane i ahead of a new traversal, without disturbing the ray origin and
// direction already written for this bounce.
func (p *Packet) ClearBounceOutputs(i int) {
	p.Hit[i] = false
	p.MeshID[i], p.FaceSetIdx[i], p.Face[i] = -1, -1, -1
	p.U[i], p.V[i] = 0, 0
	p.NX[i], p.NY[i], p.NZ[i] = 0, 0, 0
	p.PX[i], p.PY[i], p.PZ[i] = 0, 0, 0
	p.EX[i], p.EY[i], p.EZ[i] = 0, 0, 0
	p.BSDF[i] = nil
}

// BeginPath resets lane i's per-path state for a fresh primary ray at
// pixel (px, py): throughput to white, radiance to black, and clears the
// terminated/flags bits left over from a previous sample sharing the lane.
func (p *Packet) BeginPath(i int, px, py int32) {
	p.PixelX[i], p.PixelY[i] = px, py
	p.BetaR[i], p.BetaG[i], p.BetaB[i] = 1, 1, 1
	p.RadR[i], p.RadG[i], p.RadB[i] = 0, 0, 0
	p.Terminated[i] = false
	p.Flags[i] = 0
}

// SetRay writes the primary/continuation ray for lane i.
func (p *Packet) SetRay(i int, ox, oy, oz, dx, dy, dz, tMax float64) {
	p.OX[i], p.OY[i], p.OZ[i] = ox, oy, oz
	p.DX[i], p.DY[i], p.DZ[i] = dx, dy, dz
	p.TMax[i] = tMax
}
