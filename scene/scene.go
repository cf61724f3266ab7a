// Package scene implements the scene façade: mesh/material/light
// registration with dense, stable IDs, and a Build step that triggers
// BVH construction and material/geometry validation.
//
// Grounded on processor.go's Processor struct, which aggregates
// configuration (image, options) before a single Process/Carve entry
// point runs the pipeline — generalized here to aggregate scene content
// before Build runs BVH construction.
package scene

import (
	"github.com/jkrueger/phosphorus/bvh"
	"github.com/jkrueger/phosphorus/camera"
	"github.com/jkrueger/phosphorus/geom"
	"github.com/jkrueger/phosphorus/light"
	"github.com/jkrueger/phosphorus/material"
	"github.com/jkrueger/phosphorus/xerr"
	"github.com/jkrueger/phosphorus/xlog"
)

// Scene collects geometry, materials, lights, and a camera, assigning
// each a dense ID in registration order, and compiles them into a
// traceable BVH on Build.
type Scene struct {
	Meshes    []*geom.Mesh
	Materials []*material.Material
	Lights    []*light.Light
	Env       *light.Light
	Camera    *camera.Camera

	BVH *bvh.BVH

	built bool
}

// New returns an empty Scene.
func New() *Scene {
	return &Scene{}
}

// AddMesh registers a mesh and returns its dense mesh ID. A mesh with no
// triangles is a GeometryError; the caller decides whether to abort or
// proceed without it (Build does not call AddMesh itself).
func (s *Scene) AddMesh(m *geom.Mesh) (int, error) {
	if m.FaceCount() == 0 {
		return -1, &xerr.GeometryError{MeshID: len(s.Meshes), Reason: "mesh has zero triangles"}
	}
	id := len(s.Meshes)
	s.Meshes = append(s.Meshes, m)
	return id, nil
}

// AddMaterial registers a shading network under a dense material ID.
func (s *Scene) AddMaterial(net material.Network) int {
	id := len(s.Materials)
	s.Materials = append(s.Materials, &material.Material{ID: id, Net: net})
	return id
}

// AddLight registers a light and returns its dense light ID.
func (s *Scene) AddLight(l *light.Light) int {
	id := len(s.Lights)
	s.Lights = append(s.Lights, l)
	return id
}

// SetEnv installs the scene's Infinite environment light, evaluated on
// camera and continuation ray misses.
func (s *Scene) SetEnv(l *light.Light) { s.Env = l }

// SetCamera installs the scene's camera.
func (s *Scene) SetCamera(c *camera.Camera) { s.Camera = c }

// Build validates geometry/material references and constructs the BVH
// over every registered mesh's triangles. Face-sets referencing an
// undefined material downgrade to a logged warning and are skipped
// rather than aborting the whole render.
func (s *Scene) Build() error {
	if s.Camera == nil {
		return &xerr.ConfigError{Reason: "scene has no camera"}
	}

	var refs []geom.TriangleRef
	for meshID, m := range s.Meshes {
		for fsIdx, fs := range m.FaceSets {
			if fs.MaterialID < 0 || fs.MaterialID >= len(s.Materials) || s.Materials[fs.MaterialID] == nil {
				xlog.Warnf("mesh %d face-set %d references undefined material %d, dropping its faces", meshID, fsIdx, fs.MaterialID)
				continue
			}
			for f := fs.FaceStart; f < fs.FaceStart+fs.FaceCount; f++ {
				v0, v1, v2 := m.FaceVertices(f)
				refs = append(refs, geom.TriangleRef{
					MeshID: meshID, FaceSet: fsIdx, Face: f,
					V0: v0, V1: v1, V2: v2,
				})
			}
		}
	}

	s.BVH = bvh.Build(refs)
	s.built = true
	return nil
}

// Built reports whether Build has run successfully.
func (s *Scene) Built() bool { return s.built }
