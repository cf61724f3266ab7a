package arena

import "testing"

func TestAllocateAdvancesTop(t *testing.T) {
	a := New(128)
	if _, err := a.Allocate(16); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Top() != 16 {
		t.Fatalf("expected top 16, got %d", a.Top())
	}
}

func TestOutOfMemory(t *testing.T) {
	a := New(32)
	if _, err := a.Allocate(16); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := a.Allocate(64)
	if err == nil {
		t.Fatalf("expected OutOfMemory error")
	}
	var oom *OutOfMemory
	if _, ok := err.(*OutOfMemory); !ok {
		t.Fatalf("expected *OutOfMemory, got %T", err)
	}
	_ = oom
}

func TestGuardRestoresTopOnRelease(t *testing.T) {
	a := New(256)
	before := a.Top()
	func() {
		g := a.Acquire()
		defer g.Release()
		if _, err := a.Allocate(64); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Top() == before {
			t.Fatalf("expected top to advance inside guard scope")
		}
	}()
	if a.Top() != before {
		t.Fatalf("expected top restored to %d after guard release, got %d", before, a.Top())
	}
}

func TestResetToZeroFreesEverything(t *testing.T) {
	a := New(64)
	if _, err := a.Allocate(40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.Reset(0)
	if a.Top() != 0 {
		t.Fatalf("expected top 0 after reset, got %d", a.Top())
	}
	if _, err := a.Allocate(64); err != nil {
		t.Fatalf("expected full capacity available after reset: %v", err)
	}
}

func TestAlignmentRoundsUp(t *testing.T) {
	a := NewAligned(128, 32)
	if _, err := a.Allocate(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Top() != 1 {
		t.Fatalf("first allocation should not be pre-padded, got top %d", a.Top())
	}
	if _, err := a.Allocate(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Top() != 33 {
		t.Fatalf("expected second allocation's start aligned to 32, got top %d", a.Top())
	}
}
