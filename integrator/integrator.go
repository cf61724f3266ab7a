// Package integrator implements the next-event-estimation path tracer:
// the per-bounce traverse/shade/sample-continuation loop over pipeline
// state, Russian-roulette termination, and NaN/Inf trapping.
//
// Grounded on processor.go's mutually-recursive shrinkHorizFn/
// enlargeHorizFn pipeline (repeatedly calling into the same stage until a
// termination predicate fires) — the same shape as a bounce loop calling
// traverse -> shade -> continue until depth or Russian roulette ends a
// path.
package integrator

import (
	"math"

	"github.com/jkrueger/phosphorus/bsdf"
	"github.com/jkrueger/phosphorus/bvh"
	"github.com/jkrueger/phosphorus/geom"
	"github.com/jkrueger/phosphorus/light"
	"github.com/jkrueger/phosphorus/material"
	"github.com/jkrueger/phosphorus/pipeline"
	"github.com/jkrueger/phosphorus/sampler"
	"github.com/jkrueger/phosphorus/vecmath"
)

const shadowEpsilon = 1e-4

// Counters receives NaN/Inf observations from the bounce loop.
// xerr.NumericCounters satisfies this by method set alone, so this
// package never has to import xerr.
type Counters interface {
	ObserveNaN()
	ObserveInf()
}

// Params are the per-render tunables governing path length and
// termination.
type Params struct {
	MaxDepth    int
	MinRRBounce int
	RRMaxProb   float64
}

// DefaultParams returns the documented default path-length and
// termination tunables.
func DefaultParams() Params {
	return Params{MaxDepth: 6, MinRRBounce: 3, RRMaxProb: 0.95}
}

// Integrator holds the immutable, read-only scene references shared by
// every worker plus the per-worker scratch state (shadow-ray packet)
// each thread owns one of.
type Integrator struct {
	BVH       *bvh.BVH
	Meshes    []*geom.Mesh
	Materials []*material.Material
	Lights    []*light.Light
	Env       *light.Light
	Shader    *material.Shader
	Params    Params
	Counters  Counters

	shadowPkt    *pipeline.Packet
	shadowActive *pipeline.ActiveSet
}

// New returns an Integrator with its own single-ray occlusion scratch
// state, suitable for exactly one worker: each worker owns one
// occlusion-query state, never shared across goroutines.
func New(b *bvh.BVH, meshes []*geom.Mesh, materials []*material.Material, lights []*light.Light, env *light.Light, shader *material.Shader, params Params, counters Counters) *Integrator {
	return &Integrator{
		BVH: b, Meshes: meshes, Materials: materials, Lights: lights, Env: env,
		Shader: shader, Params: params, Counters: counters,
		shadowPkt:    pipeline.New(1),
		shadowActive: pipeline.NewActiveSet(1),
	}
}

// RunPaths drives every lane named by active through the full bounce loop,
// mutating pkt's per-lane Rad accumulators in place. samplers must be
// aligned with pkt's lanes (samplers[i] serves lane i across every bounce
// of this call). Callers must have already called pkt.BeginPath and set
// the primary ray for every lane in active.
func (ig *Integrator) RunPaths(pkt *pipeline.Packet, active *pipeline.ActiveSet, samplers []*sampler.Sampler) {
	live := pipeline.NewActiveSet(active.Len())
	live.Indices = append(live.Indices[:0], active.Indices...)

	for bounce := 0; bounce <= ig.Params.MaxDepth; bounce++ {
		if live.Len() == 0 {
			break
		}
		for _, i := range live.Indices {
			pkt.ClearBounceOutputs(int(i))
		}
		bvh.Traverse(ig.BVH, pkt, live)
		ig.Shader.Shade(pkt, live, ig.Meshes, ig.Materials, ig.Env)

		live.Compact(func(lane int32) bool {
			return ig.bounceLane(pkt, int(lane), bounce, samplers[lane])
		})
	}
}

// bounceLane processes one ray's bounce, returning true if the path
// continues to another bounce (false terminates it, pulling it out of the
// active set).
func (ig *Integrator) bounceLane(pkt *pipeline.Packet, i, bounce int, s *sampler.Sampler) bool {
	beta := vecmath.Vec3{X: pkt.BetaR[i], Y: pkt.BetaG[i], Z: pkt.BetaB[i]}
	emission := vecmath.Vec3{X: pkt.EX[i], Y: pkt.EY[i], Z: pkt.EZ[i]}

	if !pkt.Hit[i] {
		ig.accumulate(pkt, i, beta.MulV(emission))
		return false
	}

	specularPrev := pkt.Flags[i]&pipeline.FlagSpecularBounce != 0
	if bounce == 0 || specularPrev {
		ig.accumulate(pkt, i, beta.MulV(emission))
	}

	b := pkt.BSDF[i]
	if b == nil || b.N == 0 {
		return false
	}

	hitPos := vecmath.Vec3{X: pkt.PX[i], Y: pkt.PY[i], Z: pkt.PZ[i]}
	shadingN := vecmath.Vec3{X: pkt.NX[i], Y: pkt.NY[i], Z: pkt.NZ[i]}
	wi := vecmath.Vec3{X: -pkt.DX[i], Y: -pkt.DY[i], Z: -pkt.DZ[i]}.Normalize()

	if !b.IsSpecular() && len(ig.Lights) > 0 {
		ig.sampleDirectLighting(pkt, i, b, hitPos, shadingN, b.Geometric, wi, s, &beta)
	}

	u := s.Bounce2D()
	wo, pdf, f, flags, ok := b.Sample(wi, u)
	if !ok || pdf <= 0 {
		return false
	}

	cosTerm := math.Abs(shadingN.Dot(wo))
	contrib := f.Mul(cosTerm / pdf)
	beta = beta.MulV(contrib)
	if !beta.IsFinite() {
		if math.IsNaN(beta.X) || math.IsNaN(beta.Y) || math.IsNaN(beta.Z) {
			ig.Counters.ObserveNaN()
		} else {
			ig.Counters.ObserveInf()
		}
		return false
	}

	if bounce >= ig.Params.MinRRBounce {
		pSurvive := math.Min(beta.MaxComponent(), ig.Params.RRMaxProb)
		if pSurvive <= 0 {
			return false
		}
		if s.Bounce2D()[0] >= pSurvive {
			return false
		}
		beta = beta.Mul(1 / pSurvive)
	}

	offsetN := vecmath.Faceforward(b.Geometric, wo)
	origin := hitPos.Add(offsetN.Mul(shadowEpsilon))

	pkt.BetaR[i], pkt.BetaG[i], pkt.BetaB[i] = beta.X, beta.Y, beta.Z
	pkt.SetRay(i, origin.X, origin.Y, origin.Z, wo.X, wo.Y, wo.Z, math.Inf(1))
	if flags&bsdf.SampleSpecular != 0 {
		pkt.Flags[i] |= pipeline.FlagSpecularBounce
	} else {
		pkt.Flags[i] &^= pipeline.FlagSpecularBounce
	}
	return true
}

func (ig *Integrator) accumulate(pkt *pipeline.Packet, i int, contribution vecmath.Vec3) {
	if !contribution.IsFinite() {
		if math.IsNaN(contribution.X) || math.IsNaN(contribution.Y) || math.IsNaN(contribution.Z) {
			ig.Counters.ObserveNaN()
		} else {
			ig.Counters.ObserveInf()
		}
		return
	}
	pkt.RadR[i] += contribution.X
	pkt.RadG[i] += contribution.Y
	pkt.RadB[i] += contribution.Z
}

// sampleDirectLighting adds one light sample's contribution to pkt's
// radiance accumulator in place, tracing a single-ray occlusion test
// through the integrator's per-worker shadow scratch state.
func (ig *Integrator) sampleDirectLighting(pkt *pipeline.Packet, i int, b *bsdf.BSDF, hitPos, shadingN, geomN, wi vecmath.Vec3, s *sampler.Sampler, beta *vecmath.Vec3) {
	nLights := len(ig.Lights)
	lightIdx := s.PickLight(nLights)
	if lightIdx < 0 {
		return
	}
	lgt := ig.Lights[lightIdx]
	ls := lgt.Sample(s.Light2D(), hitPos)
	if !ls.Valid {
		return
	}

	// Point and Distant lights report a direction with no finite surface
	// point; Area lights report a surface point to aim at.
	var toLight vecmath.Vec3
	var dist float64
	if lgt.Kind == light.KindArea {
		diff := ls.Point.Sub(hitPos)
		dist = diff.Length()
		if dist < 1e-9 {
			return
		}
		toLight = diff.Mul(1 / dist)
	} else {
		toLight = ls.Direction
		dist = math.Inf(1)
	}

	if ig.occluded(hitPos, toLight, geomN, dist) {
		return
	}

	f := b.F(wi, toLight)
	cosTerm := math.Abs(shadingN.Dot(toLight))
	pdf := ls.PDF
	if ls.Delta {
		pdf = 1
	} else if lgt.Kind == light.KindArea {
		// ls.PDF is an area-measure density; convert to the solid-angle
		// measure the rest of this estimator works in via the standard
		// dA -> dw Jacobian, dist^2 / |cos(theta_light)|.
		cosLight := math.Abs(ls.Normal.Dot(toLight))
		if cosLight < 1e-9 {
			return
		}
		pdf *= dist * dist / cosLight
	}
	if pdf <= 0 {
		return
	}
	contrib := beta.MulV(f).Mul(cosTerm).MulV(ls.Emission).Mul(1 / (pdf * float64(nLights)))
	ig.accumulate(pkt, i, contrib)
}

// occluded casts one shadow ray through the worker's scratch single-lane
// packet, returning true if anything blocks the path to the light within
// (epsilon, dist-epsilon).
func (ig *Integrator) occluded(origin, dir, geomN vecmath.Vec3, dist float64) bool {
	offsetN := vecmath.Faceforward(geomN, dir)
	o := origin.Add(offsetN.Mul(shadowEpsilon))
	tMax := dist
	if !math.IsInf(dist, 1) {
		tMax -= 2 * shadowEpsilon
	}
	if tMax <= 0 {
		return false
	}
	ig.shadowPkt.ClearBounceOutputs(0)
	ig.shadowPkt.SetRay(0, o.X, o.Y, o.Z, dir.X, dir.Y, dir.Z, tMax)
	ig.shadowActive.Fill(1)
	bvh.Traverse(ig.BVH, ig.shadowPkt, ig.shadowActive)
	return ig.shadowPkt.Hit[0]
}
