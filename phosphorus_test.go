package phosphorus

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
)

func TestRenderSettingsValidateFillsDefaultsAndRejectsBadValues(t *testing.T) {
	s := RenderSettings{}
	if err := s.Validate(); err != nil {
		t.Fatalf("expected all-zero settings to validate with defaults filled in, got %v", err)
	}
	if s.SamplesPerPixel == 0 || s.MaxPathDepth == 0 {
		t.Fatalf("expected zero fields to be filled with defaults, got %+v", s)
	}

	bad := RenderSettings{RRMaxProb: 1.5}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected an out-of-range RRMaxProb to be a ConfigError")
	} else if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
}

func buildSmallLitScene(t *testing.T) *scene.Scene {
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
	sc.SetCamera(camera.New(toWorld, 4, 4, 0, 0))
	if err := sc.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}
	return sc
}

func TestNewSessionRejectsAnUnbuiltScene(t *testing.T) {
	sc := scene.New()
	sc.SetCamera(camera.New(vecmath.Identity(), 4, 4, 0, 0))
	_, err := NewSession(sc, RenderSettings{}, film.NewFramebuffer(4, 4))
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected *ConfigError for an unbuilt scene, got %v", err)
	}
}

func TestSessionRenderEndToEnd(t *testing.T) {
	sc := buildSmallLitScene(t)
	fb := film.NewFramebuffer(4, 4)

	sess, err := NewSession(sc, RenderSettings{SamplesPerPixel: 2, TileSize: 4, WorkerCount: 2}, fb)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := sess.Render(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}

	if fb.TilesReceived() != 1 {
		t.Fatalf("expected a single 4x4 tile for a 4x4 film, got %d", fb.TilesReceived())
	}
	if sess.NaNCount() != 0 || sess.InfCount() != 0 {
		t.Fatalf("expected no numeric warnings, got nan=%d inf=%d", sess.NaNCount(), sess.InfCount())
	}
}
