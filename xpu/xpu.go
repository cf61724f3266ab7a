// Package xpu implements the renderer's worker-pool orchestration: one
// goroutine per logical device slot, each owning its own arena, ray
// packet, and per-lane samplers, pulling tiles from a scheduler.TileQueue
// until the queue is exhausted or the caller's context is cancelled.
//
// Grounded on exec.go's Execute/consumer worker pool (runtime.NumCPU(),
// sync.WaitGroup, channel fan-out/fan-in), re-expressed with
// golang.org/x/sync/errgroup, the ecosystem's standard replacement for a
// hand-rolled WaitGroup plus an error channel.
package xpu

import (
	"context"
	"encoding/binary"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jkrueger/phosphorus/arena"
	"github.com/jkrueger/phosphorus/camera"
	"github.com/jkrueger/phosphorus/film"
	"github.com/jkrueger/phosphorus/integrator"
	"github.com/jkrueger/phosphorus/material"
	"github.com/jkrueger/phosphorus/pipeline"
	"github.com/jkrueger/phosphorus/sampler"
	"github.com/jkrueger/phosphorus/scene"
	"github.com/jkrueger/phosphorus/scheduler"
	"github.com/jkrueger/phosphorus/xerr"
)

// perWorkerArenaBytes sizes the scratch arena backing each worker's
// pending-sample list; one tile's samples (tile pixels * spp) encoded as
// 12 bytes apiece must fit within a single Mark/Reset scope.
const perWorkerArenaBytes = 4 << 20

// Settings are the tunables governing how a Pool partitions and walks the
// film: samples per pixel, worker count, tile size. Independent of the
// root package's RenderSettings so that this package never needs to
// import it.
type Settings struct {
	SamplesPerPixel int
	TileSize        int
	Workers         int
	Seed            uint64
	Params          integrator.Params
}

// withDefaults fills in zero fields with the documented defaults.
func (s Settings) withDefaults() Settings {
	if s.SamplesPerPixel <= 0 {
		s.SamplesPerPixel = 16
	}
	if s.TileSize <= 0 {
		s.TileSize = 32
	}
	if s.Workers <= 0 {
		s.Workers = runtime.NumCPU()
	}
	if s.Params == (integrator.Params{}) {
		s.Params = integrator.DefaultParams()
	}
	return s
}

// Pool renders a built scene's film by distributing tiles across a fixed
// number of worker goroutines.
type Pool struct {
	Settings Settings
}

// New returns a Pool configured with settings (defaults filled in for any
// zero field).
func New(settings Settings) *Pool {
	return &Pool{Settings: settings.withDefaults()}
}

// Render walks every tile of sc.Camera's film, accumulating
// Settings.SamplesPerPixel samples per pixel and committing each finished
// tile to sink. It returns *xerr.Cancelled if ctx is done before every
// tile is processed, and joins every worker's error otherwise.
func (p *Pool) Render(ctx context.Context, sc *scene.Scene, sink film.Sink, counters *xerr.NumericCounters) error {
	if !sc.Built() {
		return &xerr.ConfigError{Reason: "scene.Build must succeed before Render"}
	}
	cam := sc.Camera
	queue := scheduler.NewTileQueue(cam.FilmWidth, cam.FilmHeight, p.Settings.TileSize)

	g, gctx := errgroup.WithContext(ctx)
	tilesDone := make(chan struct{}, queue.Len())
	for w := 0; w < p.Settings.Workers; w++ {
		seed := p.Settings.Seed + uint64(w)*0x9E3779B97F4A7C15
		g.Go(func() error {
			return p.runWorker(gctx, seed, sc, queue, sink, counters, tilesDone)
		})
	}

	err := g.Wait()
	close(tilesDone)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		completed := 0
		for range tilesDone {
			completed++
		}
		return &xerr.Cancelled{TilesCompleted: completed}
	}
	return nil
}

// runWorker owns one device slot's scratch state: an arena for its
// per-tile pending-sample list, a reusable ray packet, and an Integrator
// wired against the shared, read-only scene.
func (p *Pool) runWorker(ctx context.Context, seed uint64, sc *scene.Scene, queue *scheduler.TileQueue, sink film.Sink, counters *xerr.NumericCounters, tilesDone chan<- struct{}) error {
	a := arena.New(perWorkerArenaBytes)
	pkt := pipeline.New(pipeline.Size)
	samplers := make([]*sampler.Sampler, pipeline.Size)
	shader := material.NewShader(pipeline.Size)
	ig := integrator.New(sc.BVH, sc.Meshes, sc.Materials, sc.Lights, sc.Env, shader, p.Settings.Params, counters)

	for {
		if ctx.Err() != nil {
			return nil
		}
		tile, ok := queue.Next()
		if !ok {
			return nil
		}
		if err := p.renderTile(a, pkt, samplers, ig, sc.Camera, seed, tile, sink); err != nil {
			return err
		}
		tilesDone <- struct{}{}
	}
}

// pendingSample is one (pixel, sample-index) unit of work, packed 12
// bytes apiece into the worker's arena rather than a plain Go slice, the
// scoped-allocation discipline every per-tile scratch buffer follows.
const pendingSampleSize = 12

func (p *Pool) renderTile(a *arena.Arena, pkt *pipeline.Packet, samplers []*sampler.Sampler, ig *integrator.Integrator, cam *camera.Camera, seed uint64, tile scheduler.Tile, sink film.Sink) error {
	guard := a.Acquire()
	defer guard.Release()

	spp := p.Settings.SamplesPerPixel
	count := tile.Width * tile.Height * spp
	buf, err := a.Allocate(count * pendingSampleSize)
	if err != nil {
		return &xerr.ResourceError{Reason: "tile pending-sample list", Err: err}
	}
	i := 0
	for ly := 0; ly < tile.Height; ly++ {
		for lx := 0; lx < tile.Width; lx++ {
			for s := 0; s < spp; s++ {
				off := i * pendingSampleSize
				binary.LittleEndian.PutUint32(buf[off:], uint32(lx))
				binary.LittleEndian.PutUint32(buf[off+4:], uint32(ly))
				binary.LittleEndian.PutUint32(buf[off+8:], uint32(s))
				i++
			}
		}
	}

	tb := film.NewTileBuffer(tile.X, tile.Y, tile.Width, tile.Height)
	active := pipeline.NewActiveSet(pipeline.Size)

	for start := 0; start < count; start += pipeline.Size {
		end := start + pipeline.Size
		if end > count {
			end = count
		}
		active.Fill(end - start)

		lxs := make([]int32, end-start)
		lys := make([]int32, end-start)
		for lane := 0; lane < end-start; lane++ {
			off := (start + lane) * pendingSampleSize
			lx := int32(binary.LittleEndian.Uint32(buf[off:]))
			ly := int32(binary.LittleEndian.Uint32(buf[off+4:]))
			si := int32(binary.LittleEndian.Uint32(buf[off+8:]))
			lxs[lane], lys[lane] = lx, ly

			px, py := int(tile.X)+int(lx), int(tile.Y)+int(ly)
			sp := sampler.New(int32(px), int32(py), int(si), seed, p.Settings.SamplesPerPixel)
			jx, jy := sp.PixelJitter(int(si))
			lens := sp.Bounce2D()
			origin, dir := cam.GenerateRay(px, py, jx, jy, lens[0], lens[1])

			pkt.BeginPath(lane, int32(px), int32(py))
			pkt.SetRay(lane, origin.X, origin.Y, origin.Z, dir.X, dir.Y, dir.Z, math.Inf(1))
			samplers[lane] = sp
		}

		ig.RunPaths(pkt, active, samplers)

		for lane := 0; lane < end-start; lane++ {
			tb.Accumulate(int(lxs[lane]), int(lys[lane]), pkt.RadR[lane], pkt.RadG[lane], pkt.RadB[lane])
		}
	}

	return sink.Commit(tb)
}
