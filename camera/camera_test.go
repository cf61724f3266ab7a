package camera

import (
	"math"
	"testing"

	"github.com/jkrueger/phosphorus/vecmath"
)

func TestGenerateRayCentrePixelLooksForward(t *testing.T) {
	toWorld := LookAt(vecmath.Vec3{}, vecmath.Vec3{X: 0, Y: 0, Z: -1}, vecmath.Vec3{X: 0, Y: 1, Z: 0})
	// Pixel 50 of an odd 101-pixel film: (50+0.5)/101 - 0.5 is exactly 0.
	c := New(toWorld, 101, 101, 35, 32)
	_, d := c.GenerateRay(50, 50, 0, 0, 0, 0)
	if math.Abs(d.X) > 1e-6 || math.Abs(d.Y) > 1e-6 {
		t.Fatalf("expected centre pixel ray to point straight down -Z, got %+v", d)
	}
	if d.Z >= 0 {
		t.Fatalf("expected centre pixel ray to point away from camera, got %+v", d)
	}
}

func TestGenerateRayIsNormalized(t *testing.T) {
	toWorld := LookAt(vecmath.Vec3{X: 1, Y: 2, Z: 3}, vecmath.Vec3{X: 0, Y: 0, Z: 0}, vecmath.Vec3{X: 0, Y: 1, Z: 0})
	c := New(toWorld, 64, 48, 35, 32)
	for _, p := range [][2]int{{0, 0}, {63, 0}, {0, 47}, {63, 47}, {32, 24}} {
		_, d := c.GenerateRay(p[0], p[1], 0.5, 0.5, 0, 0)
		if math.Abs(d.Length()-1) > 1e-9 {
			t.Fatalf("expected unit-length ray direction at pixel %v, got length %v", p, d.Length())
		}
	}
}

func TestDepthOfFieldShiftsOriginNotFocalPoint(t *testing.T) {
	toWorld := LookAt(vecmath.Vec3{}, vecmath.Vec3{X: 0, Y: 0, Z: -1}, vecmath.Vec3{X: 0, Y: 1, Z: 0})
	c := New(toWorld, 100, 100, 35, 32)
	// The focal point lies FocalDistance along the pinhole ray from the
	// camera origin.
	_, d0 := c.GenerateRay(50, 50, 0, 0, 0, 0)
	focal := d0.Mul(10)
	c.ApertureRadius = 0.5
	c.FocalDistance = 10

	o1, d1 := c.GenerateRay(50, 50, 0, 0, 0.2, 0.7)
	o2, d2 := c.GenerateRay(50, 50, 0, 0, 0.8, 0.3)
	if o1 == o2 {
		t.Fatalf("expected distinct lens samples to shift the ray origin")
	}
	fp1 := o1.Add(d1.Mul(focal.Sub(o1).Length()))
	fp2 := o2.Add(d2.Mul(focal.Sub(o2).Length()))
	if fp1.Sub(fp2).Length() > 1e-6 {
		t.Fatalf("expected both lens samples to converge on the same focal point, got %+v vs %+v", fp1, fp2)
	}
}
