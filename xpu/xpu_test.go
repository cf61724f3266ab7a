package xpu

import (
	"context"
	"testing"

	"github.com/jkrueger/phosphorus/bsdf"
	"github.com/jkrueger/phosphorus/camera"
	"github.com/jkrueger/phosphorus/film"
	"github.com/jkrueger/phosphorus/geom"
	"github.com/jkrueger/phosphorus/light"
	"github.com/jkrueger/phosphorus/material"
	"github.com/jkrueger/phosphorus/scene"
	"github.com/jkrueger/phosphorus/vecmath"
	"github.com/jkrueger/phosphorus/xerr"
)

func buildLitFloorScene(t *testing.T, filmSize int) *scene.Scene {
	t.Helper()
	b := geom.NewMeshBuilder()
	b.AddVertex([3]float64{-10, -10, 0})
	b.AddVertex([3]float64{10, -10, 0})
	b.AddVertex([3]float64{10, 10, 0})
	b.AddVertex([3]float64{-10, 10, 0})
	b.AddFace(0, 1, 2)
	b.AddFace(0, 2, 3)
	b.AddFaceSet(2, 0)
	mesh, err := b.Freeze()
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}

	sc := scene.New()
	if _, err := sc.AddMesh(mesh); err != nil {
		t.Fatalf("add mesh: %v", err)
	}
	sc.AddMaterial(material.NewStaticNetwork(
		material.Lobe(bsdf.Lobe{Kind: bsdf.LobeDiffuse, Weight: vecmath.Vec3{X: 0.8, Y: 0.8, Z: 0.8}}),
	))
	sc.AddLight(light.NewPoint(vecmath.Vec3{X: 0, Y: 0, Z: 5}, vecmath.Vec3{X: 30, Y: 30, Z: 30}))

	toWorld := camera.LookAt(
		vecmath.Vec3{X: 0, Y: 0, Z: 5},
		vecmath.Vec3{X: 0, Y: 0, Z: 0},
		vecmath.Vec3{X: 0, Y: 1, Z: 0},
	)
	sc.SetCamera(camera.New(toWorld, filmSize, filmSize, 0, 0))

	if err := sc.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}
	return sc
}

func TestPoolRenderProducesLitFramebuffer(t *testing.T) {
	sc := buildLitFloorScene(t, 8)
	fb := film.NewFramebuffer(8, 8)
	counters := &xerr.NumericCounters{}

	pool := New(Settings{SamplesPerPixel: 2, TileSize: 4, Workers: 2})
	if err := pool.Render(context.Background(), sc, fb, counters); err != nil {
		t.Fatalf("render: %v", err)
	}

	if fb.TilesReceived() != 4 {
		t.Fatalf("expected a 2x2 grid of tiles for an 8x8 film at tile size 4, got %d", fb.TilesReceived())
	}

	centerIdx := 4*fb.Width + 4
	if fb.R[centerIdx] <= 0 {
		t.Fatalf("expected the center pixel, looking straight down at the lit floor, to receive positive radiance, got %v", fb.R[centerIdx])
	}
	if counters.NaNCount() != 0 || counters.InfCount() != 0 {
		t.Fatalf("expected no numeric warnings for this well-conditioned scene, got nan=%d inf=%d", counters.NaNCount(), counters.InfCount())
	}
}

func TestPoolRenderRespectsCancellation(t *testing.T) {
	sc := buildLitFloorScene(t, 64)
	fb := film.NewFramebuffer(64, 64)
	counters := &xerr.NumericCounters{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // already cancelled before a single tile is claimed

	pool := New(Settings{SamplesPerPixel: 4, TileSize: 8, Workers: 2})
	err := pool.Render(ctx, sc, fb, counters)
	if _, ok := err.(*xerr.Cancelled); !ok {
		t.Fatalf("expected *xerr.Cancelled, got %v", err)
	}
}
