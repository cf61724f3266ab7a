// Package sampler supplies per-pixel pseudo-random streams: stratified
// pixel jitter, per-bounce BSDF/light samples, and a light picker, seeded
// deterministically from pixel coordinates and sample index so a render
// is reproducible given the same seed.
//
// Grounded on carver.go's deterministic per-pixel (x, y) grid walk,
// adapted into a per-pixel-seeded stream instead of a shared scan order.
package sampler

import "math"

// splitmix64 is the standard fast, well-distributed 64-bit mixer used both
// to derive a per-pixel seed and to advance a stream's state each draw.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// seedStream mixes a render seed with pixel coordinates, a sample index,
// and a stream tag so distinct purposes (pixel jitter, bounce direction,
// light pick) draw independent, reproducible streams for the same pixel,
// and so that the spp samples of one pixel don't share a stream.
func seedStream(renderSeed uint64, px, py, si int32, tag uint64) uint64 {
	s := renderSeed
	s = splitmix64(s ^ uint64(uint32(px)))
	s = splitmix64(s ^ uint64(uint32(py))<<32)
	s = splitmix64(s ^ uint64(uint32(si)))
	return splitmix64(s ^ tag)
}

const (
	streamPixel  = 1
	streamBounce = 2
	streamLight  = 3
)

// Sampler is a per-sample source, constructed fresh for each (pixel,
// sample index) pair a worker processes and reused across that sample's
// bounce depth.
type Sampler struct {
	pixelState  uint64
	bounceState uint64
	lightState  uint64

	spp    int
	strata int // floor(sqrt(spp)), the stratification grid side
}

// New returns a Sampler for sample sampleIndex of pixel (px, py) of a
// render seeded with seed, producing spp samples per pixel. sampleIndex
// must be in [0, spp) and distinguishes this sample's bounce/light stream
// from every other sample of the same pixel; callers that construct one
// Sampler per sample (rather than one per pixel reused across samples)
// must pass the sample's own index here, not a constant.
func New(px, py int32, sampleIndex int, seed uint64, spp int) *Sampler {
	strata := int(math.Sqrt(float64(spp)))
	if strata < 1 {
		strata = 1
	}
	si := int32(sampleIndex)
	return &Sampler{
		pixelState:  seedStream(seed, px, py, si, streamPixel),
		bounceState: seedStream(seed, px, py, si, streamBounce),
		lightState:  seedStream(seed, px, py, si, streamLight),
		spp:         spp,
		strata:      strata,
	}
}

func next(state *uint64) float64 {
	*state = splitmix64(*state)
	return float64(*state>>11) / float64(uint64(1)<<53)
}

// PixelJitter returns a stratified 2-D jitter in [0,1) for sample index i:
// samples 0..strata*strata-1 are placed one per stratification cell
// (√S × √S); any remaining samples beyond the perfect square fall back
// to unstratified jitter.
func (s *Sampler) PixelJitter(i int) (jx, jy float64) {
	cellCount := s.strata * s.strata
	ux, uy := next(&s.pixelState), next(&s.pixelState)
	if i >= cellCount {
		return ux, uy
	}
	cell := i % cellCount
	cx, cy := cell%s.strata, cell/s.strata
	return (float64(cx) + ux) / float64(s.strata), (float64(cy) + uy) / float64(s.strata)
}

// Bounce2D draws the next uniform 2-D sample used for a BSDF direction
// sample at the current bounce.
func (s *Sampler) Bounce2D() [2]float64 {
	return [2]float64{next(&s.bounceState), next(&s.bounceState)}
}

// Light2D draws the next uniform 2-D sample used to sample a light's
// surface for next-event estimation.
func (s *Sampler) Light2D() [2]float64 {
	return [2]float64{next(&s.lightState), next(&s.lightState)}
}

// PickLight draws a light index uniformly from [0, nLights).
func (s *Sampler) PickLight(nLights int) int {
	if nLights <= 0 {
		return -1
	}
	u := next(&s.lightState)
	idx := int(u * float64(nLights))
	if idx >= nLights {
		idx = nLights - 1
	}
	return idx
}
