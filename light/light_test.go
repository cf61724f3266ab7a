package light

import (
	"math"
	"testing"

	"github.com/jkrueger/phosphorus/geom"
	"github.com/jkrueger/phosphorus/vecmath"
)

func TestAreaLightCDFMatchesTotalArea(t *testing.T) {
	tris := []geom.TriangleRef{
		{V0: vecmath.Vec3{X: 0, Y: 0, Z: 0}, V1: vecmath.Vec3{X: 1, Y: 0, Z: 0}, V2: vecmath.Vec3{X: 0, Y: 1, Z: 0}},
		{V0: vecmath.Vec3{X: 0, Y: 0, Z: 0}, V1: vecmath.Vec3{X: 2, Y: 0, Z: 0}, V2: vecmath.Vec3{X: 0, Y: 2, Z: 0}},
	}
	want := 0.0
	for _, tr := range tris {
		want += tr.Area()
	}
	l := NewArea(tris, vecmath.Vec3{X: 1, Y: 1, Z: 1})
	if math.Abs(l.TotalArea()-want) > 1e-9 {
		t.Fatalf("TotalArea=%v want %v", l.TotalArea(), want)
	}
}

func TestAreaLightSampleStaysOnSurface(t *testing.T) {
	tris := []geom.TriangleRef{
		{V0: vecmath.Vec3{X: 0, Y: 0, Z: 0}, V1: vecmath.Vec3{X: 1, Y: 0, Z: 0}, V2: vecmath.Vec3{X: 0, Y: 1, Z: 0}},
	}
	l := NewArea(tris, vecmath.Vec3{X: 1, Y: 1, Z: 1})
	for _, uv := range [][2]float64{{0, 0}, {0.3, 0.7}, {0.999, 0.001}} {
		s := l.Sample(uv, vecmath.Vec3{})
		if !s.Valid {
			t.Fatalf("expected valid sample for uv %v", uv)
		}
		if s.Point.Z != 0 {
			t.Fatalf("expected sampled point on z=0 plane, got %+v", s.Point)
		}
		if s.PDF <= 0 {
			t.Fatalf("expected positive pdf, got %v", s.PDF)
		}
	}
}

func TestPointLightInverseSquareFalloff(t *testing.T) {
	l := NewPoint(vecmath.Vec3{X: 0, Y: 0, Z: 10}, vecmath.Vec3{X: 100, Y: 100, Z: 100})
	s := l.Sample([2]float64{}, vecmath.Vec3{})
	if !s.Delta {
		t.Fatalf("expected point light sample to be a delta")
	}
	want := 100.0 / (10 * 10)
	if math.Abs(s.Emission.X-want) > 1e-9 {
		t.Fatalf("emission=%v want %v", s.Emission.X, want)
	}
}

func TestDistantLightZeroRadiusIsDelta(t *testing.T) {
	l := NewDistant(vecmath.Vec3{X: 0, Y: 0, Z: -1}, 0, vecmath.Vec3{X: 1, Y: 1, Z: 1})
	s := l.Sample([2]float64{0.5, 0.5}, vecmath.Vec3{})
	if !s.Delta {
		t.Fatalf("expected zero-angular-radius distant light to be a delta")
	}
	if s.Direction != l.Direction {
		t.Fatalf("expected delta distant sample direction to equal the light's axis")
	}
}

func TestInfiniteLightEvalMissDelegatesToEnv(t *testing.T) {
	called := false
	l := NewInfinite(func(d vecmath.Vec3) vecmath.Vec3 {
		called = true
		return vecmath.Vec3{X: 1, Y: 2, Z: 3}
	})
	got := l.EvalMiss(vecmath.Vec3{X: 0, Y: 0, Z: 1})
	if !called {
		t.Fatalf("expected Env to be invoked")
	}
	if got != (vecmath.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("unexpected eval result %+v", got)
	}
}
