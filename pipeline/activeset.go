package pipeline

// ActiveSet is a densely packed list of lane indices naming which rays in
// a Packet are live at the current stage. Terminated indices are compacted
// out before the next traversal.
type ActiveSet struct {
	Indices []int32
}

// NewActiveSet returns an ActiveSet with capacity cap and zero length.
func NewActiveSet(capacity int) *ActiveSet {
	return &ActiveSet{Indices: make([]int32, 0, capacity)}
}

// Fill populates the active set with 0..n-1, marking every lane live — the
// initial state before the first traversal of a tile.
func (a *ActiveSet) Fill(n int) {
	a.Indices = a.Indices[:0]
	for i := 0; i < n; i++ {
		a.Indices = append(a.Indices, int32(i))
	}
}

// Len returns the number of live lanes.
func (a *ActiveSet) Len() int { return len(a.Indices) }

// Compact rebuilds the active set keeping only indices for which keep
// reports true, preserving relative order.
func (a *ActiveSet) Compact(keep func(lane int32) bool) {
	out := a.Indices[:0]
	for _, lane := range a.Indices {
		if keep(lane) {
			out = append(out, lane)
		}
	}
	a.Indices = out
}
