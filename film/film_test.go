package film

import "testing"

func TestTileBufferAveragesAccumulatedSamples(t *testing.T) {
	tb := NewTileBuffer(4, 8, 2, 2)
	tb.Accumulate(0, 0, 1, 2, 3)
	tb.Accumulate(0, 0, 3, 2, 1)

	r, g, b := tb.At(0, 0)
	if r != 2 || g != 2 || b != 2 {
		t.Fatalf("expected averaged (2,2,2), got (%v,%v,%v)", r, g, b)
	}

	r, g, b = tb.At(1, 1)
	if r != 0 || g != 0 || b != 0 {
		t.Fatalf("expected an unaccumulated pixel to read zero, got (%v,%v,%v)", r, g, b)
	}
}

func TestFramebufferCommitPlacesTileAtOrigin(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	tile := NewTileBuffer(4, 4, 2, 2)
	tile.Accumulate(0, 0, 5, 5, 5)
	tile.Accumulate(1, 1, 9, 9, 9)

	if err := fb.Commit(tile); err != nil {
		t.Fatalf("commit: %v", err)
	}

	idx := func(x, y int) int { return y*fb.Width + x }
	if fb.R[idx(4, 4)] != 5 {
		t.Fatalf("expected tile's (0,0) to land at image (4,4), got %v", fb.R[idx(4, 4)])
	}
	if fb.R[idx(5, 5)] != 9 {
		t.Fatalf("expected tile's (1,1) to land at image (5,5), got %v", fb.R[idx(5, 5)])
	}
	if fb.TilesReceived() != 1 {
		t.Fatalf("expected one tile received, got %d", fb.TilesReceived())
	}
}
