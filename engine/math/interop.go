package math

import "github.com/go-gl/mathgl/mgl32"

// Mgl32 returns m as an mgl32 matrix. mgl32 stores column-major data and
// multiplies column vectors, so the same sixteen floats describe the same
// transform and can be passed to either API unchanged.
func (m *Matrix) Mgl32() mgl32.Mat4 {
	return mgl32.Mat4(m.Flatten())
}

// FromMgl32 is the inverse of Matrix.Mgl32.
func FromMgl32(a mgl32.Mat4) Matrix {
	var m Matrix
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m[i][j] = a[i*4+j]
		}
	}
	return m
}

// Vec3FromMgl32 converts an mgl32 vector.
func Vec3FromMgl32(v mgl32.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Mgl32 returns v as an mgl32 vector.
func (v Vec3) Mgl32() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}
