// Package light implements the renderer's light model: Point, Area (with
// a triangle-area CDF), Distant, and Infinite tagged variants, each behind
// a uniform Sample contract the integrator drives for next-event
// estimation.
//
// Grounded on carver.go's FindLowestEnergySeams, a weighted walk over a
// cumulative per-row cost table — the closest pack analogue to sampling a
// discrete distribution via a prefix-sum CDF.
package light

import (
	"math"

	"github.com/jkrueger/phosphorus/vecmath"
)

// Kind tags which fields of a Light are meaningful.
type Kind uint8

const (
	KindPoint Kind = iota
	KindArea
	KindDistant
	KindInfinite
)

// Sample is the result of sampling a light's surface or direction for
// next-event estimation.
type Sample struct {
	// Point is the sampled surface point, valid for Area lights.
	Point vecmath.Vec3
	// Normal is the sampled surface's geometric normal, valid for Area.
	Normal vecmath.Vec3
	// Direction is the unit direction from the shading point toward the
	// light, valid for Point and Distant lights (which have no finite
	// surface point).
	Direction vecmath.Vec3
	// PDF is an area-measure density for Area lights, a solid-angle
	// density for Distant lights, and unused (Delta is true instead) for
	// Point lights.
	PDF      float64
	Emission vecmath.Vec3
	Delta    bool
	Valid    bool
}

// EnvFunc is the external shading-runtime contract an Infinite light
// evaluates against a miss direction. The shading runtime is an external
// collaborator, not shipped here.
type EnvFunc func(dir vecmath.Vec3) vecmath.Vec3

// Light is a tagged variant over the four light kinds.
type Light struct {
	Kind Kind

	// Point
	Position  vecmath.Vec3
	Intensity vecmath.Vec3

	// Area
	area areaData

	// Distant
	Direction     vecmath.Vec3
	AngularRadius float64
	Radiance      vecmath.Vec3

	// Infinite
	Env EnvFunc
}

// NewPoint returns a point light at position with the given radiant
// intensity (radiance at unit distance).
func NewPoint(position, intensity vecmath.Vec3) *Light {
	return &Light{Kind: KindPoint, Position: position, Intensity: intensity}
}

// NewDistant returns a directional light with angular radius radians
// (0 for a perfect delta direction, >0 sampled within a cone, modelling a
// sun-like source).
func NewDistant(direction vecmath.Vec3, angularRadius float64, radiance vecmath.Vec3) *Light {
	return &Light{
		Kind:          KindDistant,
		Direction:     direction.Normalize(),
		AngularRadius: angularRadius,
		Radiance:      radiance,
	}
}

// NewInfinite returns an environment light evaluated only on a camera or
// continuation ray miss.
func NewInfinite(env EnvFunc) *Light {
	return &Light{Kind: KindInfinite, Env: env}
}

// Sample draws a light sample for next-event estimation from shadingPoint
// using the 2-D sample uv.
func (l *Light) Sample(uv [2]float64, shadingPoint vecmath.Vec3) Sample {
	switch l.Kind {
	case KindPoint:
		dir := l.Position.Sub(shadingPoint)
		dist := dir.Length()
		if dist < 1e-12 {
			return Sample{}
		}
		dir = dir.Mul(1 / dist)
		return Sample{
			Direction: dir,
			Emission:  l.Intensity.Mul(1 / (dist * dist)),
			Delta:     true,
			Valid:     true,
		}
	case KindArea:
		return l.sampleArea(uv)
	case KindDistant:
		return l.sampleDistant(uv)
	default:
		return Sample{}
	}
}

// EvalMiss evaluates an Infinite light's environment against a ray
// direction that hit no geometry.
func (l *Light) EvalMiss(dir vecmath.Vec3) vecmath.Vec3 {
	if l.Kind != KindInfinite || l.Env == nil {
		return vecmath.Vec3{}
	}
	return l.Env(dir)
}

func (l *Light) sampleDistant(uv [2]float64) Sample {
	if l.AngularRadius <= 0 {
		return Sample{Direction: l.Direction, Emission: l.Radiance, Delta: true, Valid: true}
	}
	t, b := vecmath.Basis(l.Direction)
	cosThetaMax := math.Cos(l.AngularRadius)
	local, pdf := vecmath.SampleUniformCone(uv, cosThetaMax)
	dir := vecmath.ToWorld(local, t, b, l.Direction)
	return Sample{Direction: dir, PDF: pdf, Emission: l.Radiance, Valid: true}
}
