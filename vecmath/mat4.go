package vecmath

// Mat4 is a row-major 4x4 matrix used for camera and mesh world transforms.
type Mat4 struct {
	M [4][4]float64
}

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	var m Mat4
	for i := 0; i < 4; i++ {
		m.M[i][i] = 1
	}
	return m
}

// Mul returns a*b.
func (a Mat4) Mul(b Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a.M[i][k] * b.M[k][j]
			}
			r.M[i][j] = sum
		}
	}
	return r
}

// TransformPoint applies the matrix to a point (w=1), returning the
// dehomogenized result.
func (a Mat4) TransformPoint(p Vec3) Vec3 {
	x := a.M[0][0]*p.X + a.M[0][1]*p.Y + a.M[0][2]*p.Z + a.M[0][3]
	y := a.M[1][0]*p.X + a.M[1][1]*p.Y + a.M[1][2]*p.Z + a.M[1][3]
	z := a.M[2][0]*p.X + a.M[2][1]*p.Y + a.M[2][2]*p.Z + a.M[2][3]
	w := a.M[3][0]*p.X + a.M[3][1]*p.Y + a.M[3][2]*p.Z + a.M[3][3]
	if w != 0 && w != 1 {
		inv := 1 / w
		x, y, z = x*inv, y*inv, z*inv
	}
	return Vec3{x, y, z}
}

// TransformDirection applies only the rotation/scale part of the matrix
// (drops translation), for transforming ray directions and normals.
func (a Mat4) TransformDirection(d Vec3) Vec3 {
	x := a.M[0][0]*d.X + a.M[0][1]*d.Y + a.M[0][2]*d.Z
	y := a.M[1][0]*d.X + a.M[1][1]*d.Y + a.M[1][2]*d.Z
	z := a.M[2][0]*d.X + a.M[2][1]*d.Y + a.M[2][2]*d.Z
	return Vec3{x, y, z}
}

// Translation returns the matrix's translation column as a Vec3.
func (a Mat4) Translation() Vec3 {
	return Vec3{a.M[0][3], a.M[1][3], a.M[2][3]}
}

// Transpose returns the transpose of a, used to build the inverse-transpose
// normal matrix when the caller already has an inverse world transform.
func (a Mat4) Transpose() Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r.M[i][j] = a.M[j][i]
		}
	}
	return r
}
