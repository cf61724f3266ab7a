package bsdf

import "github.com/jkrueger/phosphorus/vecmath"

// evalLobe, pdfLobe and sampleLobe dispatch on Lobe.Kind the way
// imop.Composite.Blend dispatches on its currentOp tag: a small switch over
// named constants rather than a per-lobe interface-method call, keeping the
// closure tree free of heap-boxed values on the shading hot path.

func evalLobe(l Lobe, wi, wo vecmath.Vec3) float64 {
	switch l.Kind {
	case LobeDiffuse:
		return diffuseF(wi, wo)
	case LobeOrenNayar:
		return orenNayarF(wi, wo, l.Params.Roughness)
	case LobeMicrofacet:
		return microfacetF(wi, wo, l.Params.AlphaX, l.Params.AlphaY, l.Params.Eta)
	case LobeReflect, LobeRefract, LobeTransparent:
		return 0 // delta distributions: zero measure under area-measure F
	case LobeSheen:
		return sheenF(wi, wo, l.Params.SheenWeight)
	case LobeEmissive:
		return 0
	default:
		return 0
	}
}

func pdfLobe(l Lobe, wi, wo vecmath.Vec3) float64 {
	switch l.Kind {
	case LobeDiffuse:
		return diffusePdf(wi, wo)
	case LobeOrenNayar:
		return diffusePdf(wi, wo)
	case LobeMicrofacet:
		return microfacetPdf(wi, wo, l.Params.AlphaX, l.Params.AlphaY)
	case LobeReflect, LobeRefract, LobeTransparent:
		return 0
	case LobeSheen:
		return diffusePdf(wi, wo)
	case LobeEmissive:
		return 0
	default:
		return 0
	}
}

// sampleLobe draws a direction from the named lobe, returning whether it is
// a delta (specular) distribution.
func sampleLobe(l Lobe, wi vecmath.Vec3, u [2]float64) (wo vecmath.Vec3, pdf float64, delta bool, ok bool) {
	switch l.Kind {
	case LobeDiffuse, LobeOrenNayar, LobeSheen:
		wo, pdf = diffuseSample(wi, u)
		return wo, pdf, false, pdf > 0
	case LobeMicrofacet:
		wo, pdf, ok = microfacetSample(wi, u, l.Params.AlphaX, l.Params.AlphaY)
		return wo, pdf, false, ok
	case LobeReflect:
		wo = reflectSample(wi)
		return wo, 1, true, true
	case LobeRefract:
		wo, ok = refractSample(wi, l.Params.Eta)
		return wo, 1, true, ok
	case LobeTransparent:
		return wi.Neg(), 1, true, true
	default:
		return vecmath.Vec3{}, 0, false, false
	}
}
