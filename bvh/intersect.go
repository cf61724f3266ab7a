package bvh

import "math"

const triEpsilon = 1e-9

// intersectRecord tests ray (ox,oy,oz)+(dx,dy,dz) against every lane of a
// packed N-wide triangle record using the standard Möller–Trumbore
// formulation. For each lane that produces a strictly-closer hit than
// tMaxIn, it calls accept with the lane's new distance, barycentrics, and
// IDs; accept returns the (possibly updated) running tMax so later lanes in
// the same record are tested against the closest hit seen so far.
func intersectRecord(rec *TriRecord, ox, oy, oz, dx, dy, dz, tMaxIn float64, accept func(d, u, v float64, mesh, faceSet, face int32) float64) float64 {
	tMax := tMaxIn
	for lane := 0; lane < WideFactor; lane++ {
		if !rec.Valid[lane] {
			continue
		}
		e0x, e0y, e0z := rec.E0X[lane], rec.E0Y[lane], rec.E0Z[lane]
		e1x, e1y, e1z := rec.E1X[lane], rec.E1Y[lane], rec.E1Z[lane]

		// p = d x e1
		px := dy*e1z - dz*e1y
		py := dz*e1x - dx*e1z
		pz := dx*e1y - dy*e1x

		det := e0x*px + e0y*py + e0z*pz
		if math.Abs(det) < triEpsilon {
			continue
		}
		invDet := 1 / det

		v0x, v0y, v0z := rec.V0X[lane], rec.V0Y[lane], rec.V0Z[lane]
		tx, ty, tz := ox-v0x, oy-v0y, oz-v0z

		u := (tx*px + ty*py + tz*pz) * invDet
		if u < 0 || u > 1 {
			continue
		}

		qx := ty*e0z - tz*e0y
		qy := tz*e0x - tx*e0z
		qz := tx*e0y - ty*e0x

		v := (dx*qx + dy*qy + dz*qz) * invDet
		if v < 0 || u+v > 1 {
			continue
		}

		d := (e1x*qx + e1y*qy + e1z*qz) * invDet
		if d <= 0 || d >= tMax {
			continue
		}
		tMax = accept(d, u, v, rec.MeshID[lane], rec.FaceSet[lane], rec.Face[lane])
	}
	return tMax
}
