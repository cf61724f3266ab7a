package bsdf

import "github.com/jkrueger/phosphorus/vecmath"

// reflectSample mirrors wi about the shading-frame Z axis: in local space
// the perfect mirror direction is simply (-x, -y, z).
func reflectSample(wi vecmath.Vec3) vecmath.Vec3 {
	return vecmath.Vec3{X: -wi.X, Y: -wi.Y, Z: wi.Z}
}

// refractSample transmits wi through the shading-frame interface, where eta
// is the material's index of refraction relative to the exterior medium
// (e.g. 1.5 for glass in air). ok is false on total internal reflection.
func refractSample(wi vecmath.Vec3, eta float64) (vecmath.Vec3, bool) {
	n := vecmath.Vec3{X: 0, Y: 0, Z: 1}
	entering := wi.Z > 0
	relEta := 1 / eta // etaIncident/etaTransmitted, incident side outside
	if !entering {
		n = n.Neg()
		relEta = eta
	}
	return vecmath.Refract(wi.Neg(), n, relEta)
}
