package bsdf

import (
	"math"

	"github.com/jkrueger/phosphorus/vecmath"
	"github.com/jkrueger/phosphorus/xutil"
)

// ggxD is the GGX/Trowbridge-Reitz normal distribution for a (possibly
// anisotropic) half-vector wh in the shading frame.
func ggxD(wh vecmath.Vec3, alphaX, alphaY float64) float64 {
	tan2 := tan2Theta(wh)
	if math.IsInf(tan2, 1) {
		return 0
	}
	cos4 := cosTheta(wh) * cosTheta(wh) * cosTheta(wh) * cosTheta(wh)
	if cos4 < 1e-16 {
		return 0
	}
	cosPhi2, sinPhi2 := cosSinPhi2(wh)
	e := tan2 * (cosPhi2/(alphaX*alphaX) + sinPhi2/(alphaY*alphaY))
	denom := math.Pi * alphaX * alphaY * cos4 * (1 + e) * (1 + e)
	if denom <= 0 {
		return 0
	}
	return 1 / denom
}

// ggxLambda is Smith's auxiliary masking function.
func ggxLambda(w vecmath.Vec3, alphaX, alphaY float64) float64 {
	absTan := math.Abs(tanTheta(w))
	if math.IsInf(absTan, 1) {
		return 0
	}
	cosPhi2, sinPhi2 := cosSinPhi2(w)
	alpha := math.Sqrt(cosPhi2*alphaX*alphaX + sinPhi2*alphaY*alphaY)
	return (-1 + math.Sqrt(1+alpha*alpha*absTan*absTan)) / 2
}

// ggxG is the Smith height-correlated masking-shadowing term.
func ggxG(wi, wo vecmath.Vec3, alphaX, alphaY float64) float64 {
	return 1.0 / (1 + ggxLambda(wi, alphaX, alphaY) + ggxLambda(wo, alphaX, alphaY))
}

func ggxG1(w vecmath.Vec3, alphaX, alphaY float64) float64 {
	return 1.0 / (1 + ggxLambda(w, alphaX, alphaY))
}

func tan2Theta(w vecmath.Vec3) float64 {
	c2 := w.Z * w.Z
	s2 := math.Max(0, 1-c2)
	if c2 < 1e-16 {
		return math.Inf(1)
	}
	return s2 / c2
}

func tanTheta(w vecmath.Vec3) float64 {
	return math.Sqrt(math.Max(0, 1-w.Z*w.Z)) / w.Z
}

func cosSinPhi2(w vecmath.Vec3) (cosPhi2, sinPhi2 float64) {
	sinTheta := math.Sqrt(math.Max(0, 1-w.Z*w.Z))
	if sinTheta < 1e-9 {
		return 1, 0
	}
	cosPhi := xutil.Clamp(w.X/sinTheta, -1, 1)
	sinPhi := xutil.Clamp(w.Y/sinTheta, -1, 1)
	return cosPhi * cosPhi, sinPhi * sinPhi
}

// fresnelDielectric is the unpolarized Fresnel reflectance at a dielectric
// interface of relative index eta (transmitted/incident), the Fresnel
// term the microfacet lobe weights its reflection/transmission by.
func fresnelDielectric(cosThetaI, eta float64) float64 {
	cosThetaI = xutil.Clamp(cosThetaI, -1, 1)
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
	}
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return 1 // total internal reflection
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	rParl := (eta*cosThetaI - cosThetaT) / (eta*cosThetaI + cosThetaT)
	rPerp := (cosThetaI - eta*cosThetaT) / (cosThetaI + eta*cosThetaT)
	return 0.5 * (rParl*rParl + rPerp*rPerp)
}

// microfacetF evaluates the rough-dielectric/conductor reflection BRDF:
// D * G * Fresnel / (4 * |cosThetaI| * |cosThetaO|).
func microfacetF(wi, wo vecmath.Vec3, alphaX, alphaY, eta float64) float64 {
	if !sameHemisphere(wi, wo) {
		return 0
	}
	cosI, cosO := absCosTheta(wi), absCosTheta(wo)
	if cosI < 1e-9 || cosO < 1e-9 {
		return 0
	}
	wh := wi.Add(wo)
	if wh.LengthSq() < 1e-16 {
		return 0
	}
	wh = wh.Normalize()
	if wh.Z < 0 {
		wh = wh.Neg()
	}
	d := ggxD(wh, alphaX, alphaY)
	g := ggxG(wi, wo, alphaX, alphaY)
	fr := fresnelDielectric(wi.Dot(wh), eta)
	return d * g * fr / (4 * cosI * cosO)
}

// sampleGGXVisibleNormal draws a half-vector from the GGX visible normal
// distribution sampled with respect to wo, using Heitz's stretch-and-project
// construction: wo is stretched by (alphaX, alphaY), the projected disc is
// sampled, and the normal is unstretched by the same two roughnesses.
func sampleGGXVisibleNormal(wo vecmath.Vec3, alphaX, alphaY float64, u [2]float64) vecmath.Vec3 {
	whStretched := vecmath.Vec3{X: alphaX * wo.X, Y: alphaY * wo.Y, Z: wo.Z}.Normalize()
	if whStretched.Z < 0 {
		whStretched = whStretched.Neg()
	}
	t1 := vecmath.Vec3{X: -whStretched.Y, Y: whStretched.X, Z: 0}
	if t1.LengthSq() < 1e-16 {
		t1 = vecmath.Vec3{X: 1, Y: 0, Z: 0}
	} else {
		t1 = t1.Normalize()
	}
	t2 := whStretched.Cross(t1)

	px, py := vecmath.SampleConcentricDisc(u)
	h := math.Sqrt(math.Max(0, 1-px*px))
	py = (1+whStretched.Z)/2*py + (1-(1+whStretched.Z)/2)*h
	pz := math.Sqrt(math.Max(0, 1-px*px-py*py))

	nh := t1.Mul(px).Add(t2.Mul(py)).Add(whStretched.Mul(pz))
	return vecmath.Vec3{
		X: alphaX * nh.X,
		Y: alphaY * nh.Y,
		Z: math.Max(1e-9, nh.Z),
	}.Normalize()
}

func microfacetSample(wi vecmath.Vec3, u [2]float64, alphaX, alphaY float64) (wo vecmath.Vec3, pdf float64, ok bool) {
	flip := wi.Z < 0
	wiLocal := wi
	if flip {
		wiLocal = wi.Neg()
	}
	wh := sampleGGXVisibleNormal(wiLocal, alphaX, alphaY, u)
	wo = vecmath.Reflect(wiLocal.Neg(), wh)
	if flip {
		wo = wo.Neg()
		wh = wh.Neg()
	}
	if !sameHemisphere(wi, wo) {
		return vecmath.Vec3{}, 0, false
	}
	pdf = microfacetPdf(wi, wo, alphaX, alphaY)
	return wo, pdf, pdf > 0
}

// microfacetPdf approximates the visible-normal sampling density's
// solid-angle pdf via the standard half-vector Jacobian.
func microfacetPdf(wi, wo vecmath.Vec3, alphaX, alphaY float64) float64 {
	if !sameHemisphere(wi, wo) {
		return 0
	}
	wh := wi.Add(wo)
	if wh.LengthSq() < 1e-16 {
		return 0
	}
	wh = wh.Normalize()
	if wh.Z < 0 {
		wh = wh.Neg()
	}
	d := ggxD(wh, alphaX, alphaY)
	g1 := ggxG1(wi, alphaX, alphaY)
	dwhDwo := 1.0 / (4 * math.Abs(wo.Dot(wh)))
	if dwhDwo <= 0 || math.IsInf(dwhDwo, 0) {
		return 0
	}
	return d * g1 * math.Abs(wi.Dot(wh)) / absCosTheta(wi) * dwhDwo
}
