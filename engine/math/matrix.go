package math

import (
	"github.com/chewxy/math32"
)

/**
 * @brief Returns a new identity matrix.
 */
func NewIdentity() Matrix {
	var m Matrix
	LoadIdentity(&m)
	return m
}

/**
 * @brief Sets result to the identity matrix:
 *
 * {
 *   {1, 0, 0, 0},
 *   {0, 1, 0, 0},
 *   {0, 0, 1, 0},
 *   {0, 0, 0, 1}
 * }
 */
func LoadIdentity(result *Matrix) {
	*result = Matrix{}
	result[0][0] = 1.0
	result[1][1] = 1.0
	result[2][2] = 1.0
	result[3][3] = 1.0
}

/**
 * @brief Computes result = a * b. result may alias a or b.
 */
func Multiply(result, a, b *Matrix) {
	var tmp Matrix
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			tmp[i][j] = a[i][0]*b[0][j] +
				a[i][1]*b[1][j] +
				a[i][2]*b[2][j] +
				a[i][3]*b[3][j]
		}
	}
	*result = tmp
}

/**
 * @brief Scales rows 0-2 of result by sx, sy and sz, which is the same
 * as result = S * result.
 */
func Scale(result *Matrix, sx, sy, sz float32) {
	for j := 0; j < 4; j++ {
		result[0][j] *= sx
		result[1][j] *= sy
		result[2][j] *= sz
	}
}

/**
 * @brief Applies a translation in the basis already held by result,
 * which is the same as result = T * result.
 */
func Translate(result *Matrix, tx, ty, tz float32) {
	for j := 0; j < 4; j++ {
		result[3][j] += result[0][j]*tx + result[1][j]*ty + result[2][j]*tz
	}
}

/**
 * @brief Rotates result by angle degrees around the axis (x, y, z), which
 * need not be unit length: result = R * result.
 *
 * @return False if the axis has zero length; result is then untouched.
 */
func Rotate(result *Matrix, angle, x, y, z float32) bool {
	mag := math32.Sqrt(x*x + y*y + z*z)
	if mag <= 0.0 {
		return false
	}

	sinAngle := math32.Sin(DegToRad(angle))
	cosAngle := math32.Cos(DegToRad(angle))

	x /= mag
	y /= mag
	z /= mag

	xx, yy, zz := x*x, y*y, z*z
	xy, yz, zx := x*y, y*z, z*x
	xs, ys, zs := x*sinAngle, y*sinAngle, z*sinAngle
	oneMinusCos := 1.0 - cosAngle

	rot := Matrix{
		{oneMinusCos*xx + cosAngle, oneMinusCos*xy - zs, oneMinusCos*zx + ys, 0},
		{oneMinusCos*xy + zs, oneMinusCos*yy + cosAngle, oneMinusCos*yz - xs, 0},
		{oneMinusCos*zx - ys, oneMinusCos*yz + xs, oneMinusCos*zz + cosAngle, 0},
		{0, 0, 0, 1},
	}
	Multiply(result, &rot, result)
	return true
}

/**
 * @brief Composes a perspective frustum into result: result = F * result.
 *
 * Nothing is written if nearZ or farZ is not positive or if any of
 * right-left, top-bottom and farZ-nearZ is not positive; the returned
 * error then matches ErrDegenerate.
 */
func Frustum(result *Matrix, left, right, bottom, top, nearZ, farZ float32) error {
	deltaX := right - left
	deltaY := top - bottom
	deltaZ := farZ - nearZ

	switch {
	case nearZ <= 0.0:
		return degenerate("frustum", "near plane %g must be positive", nearZ)
	case farZ <= 0.0:
		return degenerate("frustum", "far plane %g must be positive", farZ)
	case deltaX <= 0.0:
		return degenerate("frustum", "right-left is %g", deltaX)
	case deltaY <= 0.0:
		return degenerate("frustum", "top-bottom is %g", deltaY)
	case deltaZ <= 0.0:
		return degenerate("frustum", "far-near is %g", deltaZ)
	}

	frust := Matrix{
		{2.0 * nearZ / deltaX, 0, 0, 0},
		{0, 2.0 * nearZ / deltaY, 0, 0},
		{(right + left) / deltaX, (top + bottom) / deltaY, -(nearZ + farZ) / deltaZ, -1.0},
		{0, 0, -2.0 * nearZ * farZ / deltaZ, 0},
	}
	Multiply(result, &frust, result)
	return nil
}

/**
 * @brief Composes a symmetric perspective projection into result.
 *
 * @param fovy The vertical field of view in degrees.
 * @param aspect Width divided by height.
 */
func Perspective(result *Matrix, fovy, aspect, nearZ, farZ float32) error {
	frustumH := math32.Tan(fovy/360.0*K_PI) * nearZ
	frustumW := frustumH * aspect
	return Frustum(result, -frustumW, frustumW, -frustumH, frustumH, nearZ, farZ)
}

/**
 * @brief Composes an orthographic projection into result: result = O * result.
 * A zero-width, zero-height or zero-depth box leaves result untouched and
 * returns an error matching ErrDegenerate.
 */
func Ortho(result *Matrix, left, right, bottom, top, nearZ, farZ float32) error {
	deltaX := right - left
	deltaY := top - bottom
	deltaZ := farZ - nearZ

	switch {
	case deltaX == 0.0:
		return degenerate("ortho", "right equals left (%g)", left)
	case deltaY == 0.0:
		return degenerate("ortho", "top equals bottom (%g)", bottom)
	case deltaZ == 0.0:
		return degenerate("ortho", "far equals near (%g)", nearZ)
	}

	ortho := NewIdentity()
	ortho[0][0] = 2.0 / deltaX
	ortho[3][0] = -(right + left) / deltaX
	ortho[1][1] = 2.0 / deltaY
	ortho[3][1] = -(top + bottom) / deltaY
	ortho[2][2] = -2.0 / deltaZ
	ortho[3][2] = -(nearZ + farZ) / deltaZ

	Multiply(result, &ortho, result)
	return nil
}

/**
 * @brief Overwrites result with a right-handed view matrix looking from
 * eye towards target.
 *
 * When eye and target coincide, or up is parallel to the view direction,
 * the matrix is still written (with a degenerate basis) and an error
 * matching ErrDegenerate is returned.
 */
func LookAt(result *Matrix, eye, target, up Vec3) error {
	var err error

	axisZ := target.Sub(eye)
	if axisZ.LengthSquared() == 0 {
		err = degenerate("lookat", "eye and target are the same point")
	}
	axisZ = axisZ.Normalize()

	axisX := up.Cross(axisZ)
	if err == nil && axisX.LengthSquared() == 0 {
		err = degenerate("lookat", "up vector is zero or parallel to the view direction")
	}
	axisX = axisX.Normalize()

	axisY := axisZ.Cross(axisX).Normalize()

	*result = Matrix{
		{-axisX.X, axisY.X, -axisZ.X, 0},
		{-axisX.Y, axisY.Y, -axisZ.Y, 0},
		{-axisX.Z, axisY.Z, -axisZ.Z, 0},
		{axisX.Dot(eye), -axisY.Dot(eye), axisZ.Dot(eye), 1.0},
	}
	return err
}

/**
 * @brief Transforms the row vector v by m (v * m).
 */
func (m *Matrix) TransformPoint(v Vec4) Vec4 {
	return Vec4{
		X: v.X*m[0][0] + v.Y*m[1][0] + v.Z*m[2][0] + v.W*m[3][0],
		Y: v.X*m[0][1] + v.Y*m[1][1] + v.Z*m[2][1] + v.W*m[3][1],
		Z: v.X*m[0][2] + v.Y*m[1][2] + v.Z*m[2][2] + v.W*m[3][2],
		W: v.X*m[0][3] + v.Y*m[1][3] + v.Z*m[2][3] + v.W*m[3][3],
	}
}

/**
 * @brief Transforms the direction v by the upper 3x3 of m, ignoring translation.
 */
func (m *Matrix) TransformDirection(v Vec3) Vec3 {
	return m.TransformPoint(v.ToVec4(0)).ToVec3()
}

/**
 * @brief Returns the sixteen elements in row order, ready for a uniform upload.
 */
func (m *Matrix) Flatten() [16]float32 {
	var out [16]float32
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i*4+j] = m[i][j]
		}
	}
	return out
}

/**
 * @brief Compares every element of m and other against tolerance.
 */
func (m *Matrix) Equal(other *Matrix, tolerance float32) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math32.Abs(m[i][j]-other[i][j]) > tolerance {
				return false
			}
		}
	}
	return true
}
