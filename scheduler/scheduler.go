// Package scheduler implements tile work distribution: a precomputed list
// of tile rectangles covering the film, popped by workers via an atomic
// fetch-add counter.
//
// Grounded on exec.go's Execute/consumer worker pool, which fans a
// finite list of file paths out to workers over a channel. Our tile list
// is precomputed and finite rather than discovered by a filesystem walk,
// so an atomic counter over a slice is the idiomatic equivalent of the
// teacher's channel producer without an unneeded channel or goroutine.
package scheduler

import "sync/atomic"

// Tile is one rectangular region of the film, in full-image pixel
// coordinates.
type Tile struct {
	X, Y, Width, Height int
}

// TileQueue hands out tiles to workers one at a time via atomic fetch-add,
// safe for concurrent use by any number of worker goroutines.
type TileQueue struct {
	tiles []Tile
	next  int64
}

// NewTileQueue precomputes the tile list covering a width x height film in
// tileSize x tileSize tiles, the last row/column clipped to the film
// bounds when it doesn't divide evenly.
func NewTileQueue(width, height, tileSize int) *TileQueue {
	var tiles []Tile
	for y := 0; y < height; y += tileSize {
		h := tileSize
		if y+h > height {
			h = height - y
		}
		for x := 0; x < width; x += tileSize {
			w := tileSize
			if x+w > width {
				w = width - x
			}
			tiles = append(tiles, Tile{X: x, Y: y, Width: w, Height: h})
		}
	}
	return &TileQueue{tiles: tiles}
}

// Len returns the total number of tiles in the queue.
func (q *TileQueue) Len() int { return len(q.tiles) }

// Next atomically claims the next tile. ok is false once every tile has
// been claimed.
func (q *TileQueue) Next() (tile Tile, ok bool) {
	i := atomic.AddInt64(&q.next, 1) - 1
	if i >= int64(len(q.tiles)) {
		return Tile{}, false
	}
	return q.tiles[i], true
}
