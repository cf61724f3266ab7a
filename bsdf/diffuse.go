package bsdf

import (
	"math"

	"github.com/jkrueger/phosphorus/vecmath"
)

const invPi = 1.0 / math.Pi

// diffuseF is the Lambertian BRDF, normalized so that hemispherical
// reflectance integrates to 1 when the lobe weight is white.
func diffuseF(wi, wo vecmath.Vec3) float64 {
	if !sameHemisphere(wi, wo) {
		return 0
	}
	return invPi
}

func diffusePdf(wi, wo vecmath.Vec3) float64 {
	if !sameHemisphere(wi, wo) {
		return 0
	}
	return absCosTheta(wo) * invPi
}

// diffuseSample draws a cosine-weighted direction on the same hemisphere as
// wi, shared by the diffuse, Oren-Nayar (as a sampling strategy), and sheen
// lobes.
func diffuseSample(wi vecmath.Vec3, u [2]float64) (wo vecmath.Vec3, pdf float64) {
	d, p := vecmath.SampleCosineHemisphere(u)
	if wi.Z < 0 {
		d.Z = -d.Z
	}
	return d, p
}

// orenNayarF evaluates the Oren-Nayar rough-diffuse BRDF for a surface of
// microfacet slope standard deviation sigma (radians).
func orenNayarF(wi, wo vecmath.Vec3, sigma float64) float64 {
	if !sameHemisphere(wi, wo) {
		return 0
	}
	if sigma <= 0 {
		return invPi
	}
	s2 := sigma * sigma
	a := 1.0 - 0.5*s2/(s2+0.33)
	b := 0.45 * s2 / (s2 + 0.09)

	sinThetaI := math.Sqrt(math.Max(0, 1-wi.Z*wi.Z))
	sinThetaO := math.Sqrt(math.Max(0, 1-wo.Z*wo.Z))

	var maxCos float64
	if sinThetaI > 1e-9 && sinThetaO > 1e-9 {
		cosPhiI, sinPhiI := wi.X/sinThetaI, wi.Y/sinThetaI
		cosPhiO, sinPhiO := wo.X/sinThetaO, wo.Y/sinThetaO
		dCos := cosPhiI*cosPhiO + sinPhiI*sinPhiO
		maxCos = math.Max(0, dCos)
	}

	var sinAlpha, tanBeta float64
	if absCosTheta(wi) > absCosTheta(wo) {
		sinAlpha = sinThetaO
		tanBeta = sinThetaI / math.Max(absCosTheta(wi), 1e-9)
	} else {
		sinAlpha = sinThetaI
		tanBeta = sinThetaO / math.Max(absCosTheta(wo), 1e-9)
	}

	return invPi * (a + b*maxCos*sinAlpha*tanBeta)
}

// sheenF is the Disney-sheen-style grazing-angle retroreflective term: a
// (1-cosTheta)^5 Fresnel-like falloff scaled by the lobe's sheen weight,
// normalized cheaply as a diffuse-like lobe.
func sheenF(wi, wo vecmath.Vec3, weight float64) float64 {
	if !sameHemisphere(wi, wo) {
		return 0
	}
	h := wi.Add(wo).Normalize()
	cosTh := math.Abs(h.Dot(wo))
	fh := math.Pow(1-cosTh, 5)
	return invPi * weight * fh
}
