package vecmath

import "testing"

func TestAABBUnionContainsChildren(t *testing.T) {
	a := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	b := AABB{Min: Vec3{2, -1, 0}, Max: Vec3{3, 0, 2}}
	u := a.Union(b)

	if !u.Contains(a, 1e-9) || !u.Contains(b, 1e-9) {
		t.Fatalf("union %+v does not contain both children %+v, %+v", u, a, b)
	}
}

func TestAABBHitSlab(t *testing.T) {
	box := AABB{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}
	o := Vec3{0, 0, -5}
	d := Vec3{0, 0, 1}
	invD := Vec3{1 / d.X, 1 / d.Y, 1 / d.Z}

	hit, near := box.Hit(o, invD, 0, 1e30)
	if !hit {
		t.Fatalf("expected ray to hit box")
	}
	if near < 3.9 || near > 4.1 {
		t.Fatalf("expected near distance ~4, got %v", near)
	}

	missO := Vec3{5, 5, -5}
	hit, _ = box.Hit(missO, invD, 0, 1e30)
	if hit {
		t.Fatalf("expected ray to miss box")
	}
}

func TestAABBSurfaceAreaAndAxis(t *testing.T) {
	box := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{2, 1, 1}}
	if got := box.SurfaceArea(); got != 2*(2*1+1*1+1*2) {
		t.Fatalf("unexpected surface area: %v", got)
	}
	if axis := box.LargestAxis(); axis != 0 {
		t.Fatalf("expected axis 0 (X), got %d", axis)
	}
}
