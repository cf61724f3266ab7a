package sampler

import "testing"

func TestDeterministicAcrossInstances(t *testing.T) {
	a := New(3, 7, 0, 42, 16)
	b := New(3, 7, 0, 42, 16)
	for i := 0; i < 16; i++ {
		jax, jay := a.PixelJitter(i)
		jbx, jby := b.PixelJitter(i)
		if jax != jbx || jay != jby {
			t.Fatalf("expected identical pixel jitter for identical seed/pixel, sample %d", i)
		}
	}
}

func TestDistinctPixelsDiverge(t *testing.T) {
	a := New(3, 7, 0, 42, 16)
	b := New(4, 7, 0, 42, 16)
	jax, jay := a.PixelJitter(0)
	jbx, jby := b.PixelJitter(0)
	if jax == jbx && jay == jby {
		t.Fatalf("expected distinct pixels to draw distinct jitter")
	}
}

func TestPixelJitterStaysInCell(t *testing.T) {
	s := New(0, 0, 0, 1, 16) // strata = 4
	seen := map[[2]int]bool{}
	for i := 0; i < 16; i++ {
		jx, jy := s.PixelJitter(i)
		if jx < 0 || jx >= 1 || jy < 0 || jy >= 1 {
			t.Fatalf("jitter %v,%v out of [0,1)", jx, jy)
		}
		cell := [2]int{int(jx * 4), int(jy * 4)}
		if seen[cell] {
			t.Fatalf("sample %d landed in already-used stratification cell %v", i, cell)
		}
		seen[cell] = true
	}
}

func TestDistinctSampleIndexesDivergeBounceAndLightStreams(t *testing.T) {
	a := New(5, 5, 0, 1, 64)
	b := New(5, 5, 1, 1, 64)

	ua := a.Bounce2D()
	ub := b.Bounce2D()
	if ua == ub {
		t.Fatalf("expected distinct sample indices of the same pixel to draw distinct bounce samples")
	}

	la := a.Light2D()
	lb := b.Light2D()
	if la == lb {
		t.Fatalf("expected distinct sample indices of the same pixel to draw distinct light samples")
	}
}

func TestPickLightInRange(t *testing.T) {
	s := New(0, 0, 0, 9, 4)
	for i := 0; i < 100; i++ {
		idx := s.PickLight(5)
		if idx < 0 || idx >= 5 {
			t.Fatalf("light index %d out of range", idx)
		}
	}
}
