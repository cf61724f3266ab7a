// Package adapters holds the renderer's external-interface boundary:
// parsing contracts for scene descriptors and geometry archives (no
// parser shipped — those formats are external collaborators), the
// re-exported shading-network contract, and an opaque-handle Session
// table for host embedding from outside idiomatic Go call sites (a
// C-shared-library export layer, a scripting-language binding), as
// distinct from the root package's direct *scene.Scene-based API.
//
// Grounded on gui.go's adapter shape: a narrow Go interface standing
// between this module and an external framework (there, Gio; here, any
// host embedding the renderer as a library) it neither imports nor
// assumes anything about beyond the interface.
package adapters

import (
	"context"
	"sync"

	"github.com/jkrueger/phosphorus/film"
	"github.com/jkrueger/phosphorus/geom"
	"github.com/jkrueger/phosphorus/material"
	"github.com/jkrueger/phosphorus/scene"
	"github.com/jkrueger/phosphorus/xerr"
	"github.com/jkrueger/phosphorus/xpu"
)

// ShadingNetwork is the shading-runtime contract re-exported from
// material, so host-embedding code depends only on this package rather
// than reaching into the rendering core directly.
type ShadingNetwork = material.Network

// SceneDescriptor parses an external scene-description format (e.g. a
// YAML scene format) into a populated Scene. No implementation is
// shipped; the format and its parser are an external collaborator.
type SceneDescriptor interface {
	Parse(data []byte) (*scene.Scene, error)
}

// GeometryArchive loads a named mesh from an external geometry container
// format. No implementation is shipped for the same reason as
// SceneDescriptor.
type GeometryArchive interface {
	LoadMesh(name string) (*geom.Mesh, error)
}

// Handle is an opaque reference to a registered scene, suitable for
// crossing a non-Go host-embedding boundary (cgo export, RPC) where a raw
// Go pointer cannot be handed out directly.
type Handle uint64

// Host is an opaque-handle table over registered scenes, implementing the
// init/create/free/reset/render operations a host embedding this
// renderer needs.
type Host struct {
	mu       sync.Mutex
	sessions map[Handle]*hostSession
	next     Handle
}

type hostSession struct {
	sc       *scene.Scene
	pool     *xpu.Pool
	sink     film.Sink
	counters xerr.NumericCounters
}

// NewHost returns an empty handle table.
func NewHost() *Host {
	return &Host{sessions: make(map[Handle]*hostSession)}
}

// Create registers a built scene under a fresh handle, configured to
// render with settings into sink.
func (h *Host) Create(sc *scene.Scene, settings xpu.Settings, sink film.Sink) (Handle, error) {
	if !sc.Built() {
		return 0, &xerr.ConfigError{Reason: "scene must be built before registering with Host.Create"}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	handle := h.next
	h.sessions[handle] = &hostSession{sc: sc, pool: xpu.New(settings), sink: sink}
	return handle, nil
}

// Render runs one render pass for handle, returning *xerr.ConfigError if
// the handle is unknown.
func (h *Host) Render(ctx context.Context, handle Handle) error {
	h.mu.Lock()
	sess, ok := h.sessions[handle]
	h.mu.Unlock()
	if !ok {
		return &xerr.ConfigError{Reason: "unknown session handle"}
	}
	return sess.pool.Render(ctx, sess.sc, sess.sink, &sess.counters)
}

// Reset clears a session's accumulated NumericWarning counters without
// discarding its registered scene, for a host that wants to re-render the
// same scene from scratch.
func (h *Host) Reset(handle Handle) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	sess, ok := h.sessions[handle]
	if !ok {
		return &xerr.ConfigError{Reason: "unknown session handle"}
	}
	sess.counters = xerr.NumericCounters{}
	return nil
}

// Free releases a session's handle. The handle is invalid for any further
// call after Free returns.
func (h *Host) Free(handle Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, handle)
}

// Counters returns handle's accumulated NumericWarning counts.
func (h *Host) Counters(handle Handle) (nan, inf int64, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sess, ok := h.sessions[handle]
	if !ok {
		return 0, 0, &xerr.ConfigError{Reason: "unknown session handle"}
	}
	return sess.counters.NaNCount(), sess.counters.InfCount(), nil
}
