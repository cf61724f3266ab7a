package material

import (
	"github.com/jkrueger/phosphorus/bsdf"
	"github.com/jkrueger/phosphorus/geom"
	"github.com/jkrueger/phosphorus/light"
	"github.com/jkrueger/phosphorus/pipeline"
	"github.com/jkrueger/phosphorus/vecmath"
)

// Shader owns the per-worker BSDF storage shading writes into. Its
// lifetime discipline mirrors the arena's Mark/Reset scope (one slot per
// packet lane, reset once per bounce) but is a typed Go slice rather than
// raw arena bytes: converting arena []byte into *bsdf.BSDF would need
// unsafe, which this codebase avoids reaching for.
type Shader struct {
	pool []bsdf.BSDF
}

// NewShader allocates a Shader with one BSDF slot per packet lane.
func NewShader(packetSize int) *Shader {
	return &Shader{pool: make([]bsdf.BSDF, packetSize)}
}

// Shade buckets the active set's hit rays by material, evaluates each
// bucket's shading network, and writes the resulting BSDF/emission into
// pkt. Non-hit rays are evaluated against env (if non-nil) and otherwise
// left with zero emission. meshes is indexed by pkt.MeshID; materials is
// indexed by the mesh's per-face-set material ID.
func (s *Shader) Shade(pkt *pipeline.Packet, active *pipeline.ActiveSet, meshes []*geom.Mesh, materials []*Material, env *light.Light) {
	buckets := map[int][]int32{}
	for _, i := range active.Indices {
		if !pkt.Hit[i] {
			s.shadeMiss(pkt, i, env)
			continue
		}
		mesh := meshes[pkt.MeshID[i]]
		matID := mesh.FaceSets[pkt.FaceSetIdx[i]].MaterialID
		buckets[matID] = append(buckets[matID], i)
	}

	for matID, lanes := range buckets {
		if matID < 0 || matID >= len(materials) || materials[matID] == nil {
			for _, i := range lanes {
				s.clearLane(pkt, i)
			}
			continue
		}
		net := materials[matID].Net
		for _, i := range lanes {
			s.shadeHit(pkt, i, meshes[pkt.MeshID[i]], net)
		}
	}
}

func (s *Shader) shadeMiss(pkt *pipeline.Packet, i int32, env *light.Light) {
	pkt.EX[i], pkt.EY[i], pkt.EZ[i] = 0, 0, 0
	if env == nil {
		return
	}
	dir := vecmath.Vec3{X: pkt.DX[i], Y: pkt.DY[i], Z: pkt.DZ[i]}
	e := env.EvalMiss(dir)
	pkt.EX[i], pkt.EY[i], pkt.EZ[i] = e.X, e.Y, e.Z
}

func (s *Shader) clearLane(pkt *pipeline.Packet, i int32) {
	pkt.EX[i], pkt.EY[i], pkt.EZ[i] = 0, 0, 0
	pkt.BSDF[i] = nil
}

func (s *Shader) shadeHit(pkt *pipeline.Packet, i int32, mesh *geom.Mesh, net Network) {
	pos, shadingN, uv := mesh.ShadingParameters(int(pkt.Face[i]), pkt.U[i], pkt.V[i])
	geomN := mesh.GeometricNormal(int(pkt.Face[i]))
	wi := vecmath.Vec3{X: -pkt.DX[i], Y: -pkt.DY[i], Z: -pkt.DZ[i]}.Normalize()

	pkt.PX[i], pkt.PY[i], pkt.PZ[i] = pos.X, pos.Y, pos.Z
	pkt.NX[i], pkt.NY[i], pkt.NZ[i] = shadingN.X, shadingN.Y, shadingN.Z

	g := Globals{Position: pos, Wi: wi, GeometricNormal: geomN, ShadingNormal: shadingN, UV: uv}
	tree := net.Evaluate(g)

	b := &s.pool[i]
	t, bt := vecmath.Basis(shadingN)
	b.Reset(shadingN, t, bt)
	b.Geometric = geomN

	var emission vecmath.Vec3
	Walk(tree, vecmath.Vec3{X: 1, Y: 1, Z: 1}, b, &emission)

	pkt.EX[i], pkt.EY[i], pkt.EZ[i] = emission.X, emission.Y, emission.Z
	pkt.BSDF[i] = b
}
