package phosphorus

import (
	"context"
	"fmt"

	"github.com/jkrueger/phosphorus/film"
	"github.com/jkrueger/phosphorus/integrator"
	"github.com/jkrueger/phosphorus/scene"
	"github.com/jkrueger/phosphorus/xpu"
)

// RenderSettings are the user-facing render tunables, kept as a plain
// struct with a Validate method rather than a flag-parsing library,
// mirroring a Processor struct-of-options pattern. CLI argument parsing
// itself is out of scope.
type RenderSettings struct {
	SamplesPerPixel int
	MaxPathDepth    int
	MinRRBounce     int
	RRMaxProb       float64
	TileSize        int
	WorkerCount     int // 0 selects runtime.NumCPU()
	Seed            uint64
}

// Validate reports a ConfigError for any setting that cannot produce a
// well-formed render, filling in the documented defaults for any field
// left at its zero value.
func (s *RenderSettings) Validate() error {
	if s.SamplesPerPixel < 0 {
		return &ConfigError{Reason: fmt.Sprintf("samples_per_pixel must be >= 0, got %d", s.SamplesPerPixel)}
	}
	if s.SamplesPerPixel == 0 {
		s.SamplesPerPixel = 16
	}
	if s.MaxPathDepth < 0 {
		return &ConfigError{Reason: fmt.Sprintf("max_path_depth must be >= 0, got %d", s.MaxPathDepth)}
	}
	if s.MaxPathDepth == 0 {
		s.MaxPathDepth = integrator.DefaultParams().MaxDepth
	}
	if s.MinRRBounce < 0 {
		return &ConfigError{Reason: fmt.Sprintf("min_russian_roulette_bounce must be >= 0, got %d", s.MinRRBounce)}
	}
	if s.MinRRBounce == 0 {
		s.MinRRBounce = integrator.DefaultParams().MinRRBounce
	}
	if s.RRMaxProb < 0 || s.RRMaxProb > 1 {
		return &ConfigError{Reason: fmt.Sprintf("russian_roulette_max_probability must be in [0,1], got %v", s.RRMaxProb)}
	}
	if s.RRMaxProb == 0 {
		s.RRMaxProb = integrator.DefaultParams().RRMaxProb
	}
	if s.TileSize < 0 {
		return &ConfigError{Reason: fmt.Sprintf("tile_size must be >= 0, got %d", s.TileSize)}
	}
	if s.WorkerCount < 0 {
		return &ConfigError{Reason: fmt.Sprintf("worker_count must be >= 0, got %d", s.WorkerCount)}
	}
	return nil
}

// Session binds a built Scene, validated RenderSettings, and a film.Sink
// into a single renderable unit, joining the render operation with the
// scheduler/xpu/film subsystems the scene façade doesn't know about.
type Session struct {
	scene    *scene.Scene
	settings RenderSettings
	sink     film.Sink
	counters NumericCounters
}

// NewSession validates settings and returns a Session ready to Render sc
// into sink. sc.Build must have already succeeded.
func NewSession(sc *scene.Scene, settings RenderSettings, sink film.Sink) (*Session, error) {
	if !sc.Built() {
		return nil, &ConfigError{Reason: "scene.Build must succeed before NewSession"}
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Session{scene: sc, settings: settings, sink: sink}, nil
}

// Render runs the full tiled render to completion, or until ctx is
// cancelled, in which case it returns *Cancelled. Render may be called
// only once per Session.
func (s *Session) Render(ctx context.Context) error {
	pool := xpu.New(xpu.Settings{
		SamplesPerPixel: s.settings.SamplesPerPixel,
		TileSize:        s.settings.TileSize,
		Workers:         s.settings.WorkerCount,
		Seed:            s.settings.Seed,
		Params: integrator.Params{
			MaxDepth:    s.settings.MaxPathDepth,
			MinRRBounce: s.settings.MinRRBounce,
			RRMaxProb:   s.settings.RRMaxProb,
		},
	})
	return pool.Render(ctx, s.scene, s.sink, &s.counters)
}

// NaNCount returns the number of NaN-radiance observations suppressed
// during the render so far.
func (s *Session) NaNCount() int64 { return s.counters.NaNCount() }

// InfCount returns the number of Inf-radiance observations suppressed
// during the render so far.
func (s *Session) InfCount() int64 { return s.counters.InfCount() }
