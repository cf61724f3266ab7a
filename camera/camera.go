// Package camera generates primary rays from pixel samples and a camera
// transform: pinhole by default, thin-lens depth-of-field when an
// aperture radius is configured.
//
// Grounded on image.go/draw.go's pixel-space-to-normalized-space handling
// (row/column to [0,1) normalization before processing), generalized
// from a 2-D image transform to a 3-D ray direction.
package camera

import (
	"math"

	"github.com/jkrueger/phosphorus/vecmath"
)

// Camera holds the parameters needed to turn a jittered pixel sample into
// a world-space ray.
type Camera struct {
	ToWorld  vecmath.Mat4 // camera-to-world transform
	Position vecmath.Vec3

	FilmWidth, FilmHeight int

	tanHalfFov float64
	aspect     float64

	ApertureRadius float64
	FocalDistance  float64
}

// New builds a Camera from a world transform and the classic
// focal-length/sensor-width pair, defaulting focal-length=35mm,
// sensor-width=32mm when zero.
func New(toWorld vecmath.Mat4, filmWidth, filmHeight int, focalLength, sensorWidth float64) *Camera {
	if focalLength <= 0 {
		focalLength = 35
	}
	if sensorWidth <= 0 {
		sensorWidth = 32
	}
	fov := 2 * math.Atan(sensorWidth/(2*focalLength))
	return &Camera{
		ToWorld:    toWorld,
		Position:   toWorld.Translation(),
		FilmWidth:  filmWidth,
		FilmHeight: filmHeight,
		tanHalfFov: math.Tan(fov / 2),
		aspect:     float64(filmWidth) / float64(filmHeight),
	}
}

// LookAt builds the camera-to-world transform for a position/target/up
// triple, the convention the scene-descriptor camera block uses.
func LookAt(pos, at, up vecmath.Vec3) vecmath.Mat4 {
	fwd := at.Sub(pos).Normalize()
	right := fwd.Cross(up).Normalize()
	newUp := right.Cross(fwd)

	m := vecmath.Identity()
	// Columns are the world-space images of the camera's local axes; the
	// camera looks down -Z in its own frame, so the forward column is
	// negated fwd.
	m.M[0][0], m.M[0][1], m.M[0][2], m.M[0][3] = right.X, newUp.X, -fwd.X, pos.X
	m.M[1][0], m.M[1][1], m.M[1][2], m.M[1][3] = right.Y, newUp.Y, -fwd.Y, pos.Y
	m.M[2][0], m.M[2][1], m.M[2][2], m.M[2][3] = right.Z, newUp.Z, -fwd.Z, pos.Z
	return m
}

// GenerateRay assembles the primary ray through film position
// (px+jx+0.5, py+jy+0.5): zero jitter aims at the centre of pixel
// (px, py), and jitter in [0,1) moves the sample from that centre by up to
// one pixel along +x and +y. For a thin-lens camera the origin is further
// jittered across the aperture by (lu, lv) in [0,1).
func (c *Camera) GenerateRay(px, py int, jx, jy, lu, lv float64) (origin, dir vecmath.Vec3) {
	ndcX := (float64(px)+jx+0.5)/float64(c.FilmWidth) - 0.5
	ndcY := 0.5 - (float64(py)+jy+0.5)/float64(c.FilmHeight)

	local := vecmath.Vec3{
		X: ndcX * c.aspect * c.tanHalfFov,
		Y: ndcY * c.tanHalfFov,
		Z: -1,
	}
	dir = c.ToWorld.TransformDirection(local).Normalize()
	origin = c.Position

	if c.ApertureRadius > 0 {
		focalPoint := origin.Add(dir.Mul(c.FocalDistance))
		dx, dy := vecmath.SampleConcentricDisc([2]float64{lu, lv})
		lensLocal := vecmath.Vec3{X: dx * c.ApertureRadius, Y: dy * c.ApertureRadius, Z: 0}
		lensWorld := c.ToWorld.TransformDirection(lensLocal)
		origin = origin.Add(lensWorld)
		dir = focalPoint.Sub(origin).Normalize()
	}
	return origin, dir
}
