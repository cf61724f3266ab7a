package scheduler

import (
	"sync"
	"testing"
)

func TestNewTileQueueClipsTrailingTiles(t *testing.T) {
	q := NewTileQueue(10, 5, 4)
	if q.Len() != 6 { // 3 columns (4,4,2) x 2 rows (4,1)
		t.Fatalf("expected 6 tiles, got %d", q.Len())
	}
	var sawClippedWidth, sawClippedHeight bool
	for {
		tile, ok := q.Next()
		if !ok {
			break
		}
		if tile.Width != 4 {
			sawClippedWidth = true
		}
		if tile.Height != 4 {
			sawClippedHeight = true
		}
	}
	if !sawClippedWidth || !sawClippedHeight {
		t.Fatalf("expected at least one clipped-width and clipped-height tile")
	}
}

func TestTileQueueNextIsConcurrencySafeAndExhaustive(t *testing.T) {
	q := NewTileQueue(100, 100, 10)
	total := q.Len()

	var mu sync.Mutex
	seen := map[int]bool{}
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				tile, ok := q.Next()
				if !ok {
					return
				}
				mu.Lock()
				key := tile.Y*1000 + tile.X
				if seen[key] {
					t.Errorf("tile (%d,%d) claimed twice", tile.X, tile.Y)
				}
				seen[key] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != total {
		t.Fatalf("expected every one of %d tiles claimed exactly once, got %d", total, len(seen))
	}
}
