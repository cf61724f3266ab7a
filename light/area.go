package light

import (
	"sort"

	"github.com/jkrueger/phosphorus/geom"
	"github.com/jkrueger/phosphorus/vecmath"
)

// areaData holds an Area light's emitting triangles and a prefix-sum CDF
// over their areas.
type areaData struct {
	triangles []geom.TriangleRef
	cdf       []float64 // cdf[i] = sum of areas of triangles[0..i]
	totalArea float64
	emission  vecmath.Vec3
}

// NewArea builds an area light over tris, each emitting a uniform radiance
// of emission, preprocessing a prefix-sum CDF over triangle areas for
// binary-search sampling.
func NewArea(tris []geom.TriangleRef, emission vecmath.Vec3) *Light {
	a := areaData{triangles: tris, emission: emission}
	a.cdf = make([]float64, len(tris))
	sum := 0.0
	for i, t := range tris {
		sum += t.Area()
		a.cdf[i] = sum
	}
	a.totalArea = sum
	return &Light{Kind: KindArea, area: a}
}

// TotalArea returns the sum of the light's emitting triangles' areas; it
// always equals the CDF's final entry.
func (l *Light) TotalArea() float64 { return l.area.totalArea }

func (l *Light) sampleArea(uv [2]float64) Sample {
	a := &l.area
	if len(a.triangles) == 0 || a.totalArea <= 0 {
		return Sample{}
	}
	target := uv[0] * a.totalArea
	idx := sort.Search(len(a.cdf), func(i int) bool { return a.cdf[i] >= target })
	if idx >= len(a.cdf) {
		idx = len(a.cdf) - 1
	}

	prev := 0.0
	if idx > 0 {
		prev = a.cdf[idx-1]
	}
	triArea := a.cdf[idx] - prev
	uRemap := uv[0]
	if triArea > 0 {
		uRemap = (target - prev) / triArea
	}

	tri := a.triangles[idx]
	p, n := tri.Sample([2]float64{uRemap, uv[1]})
	return Sample{
		Point:    p,
		Normal:   n,
		PDF:      1 / a.totalArea,
		Emission: a.emission,
		Valid:    true,
	}
}
