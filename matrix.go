package softrast

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// Mat4 is a 4x4 affine transform applied to row vectors, that is
//
//	p' = [x y z 1] * M
//
// so translation lives in the bottom row and the product A.Mul(B)
// applies A first and B second. The zero value of Mat4 is the identity.
type Mat4 struct {
	// To make the zero value represent the identity the diagonal
	// elements are stored with one subtracted:
	//  d00 = x00-1, d11 = x11-1, d22 = x22-1, d33 = x33-1
	// Identity can then be checked with M == (Mat4{}).
	d00, x01, x02, x03 float32
	x10, d11, x12, x13 float32
	x20, x21, d22, x23 float32
	x30, x31, x32, d33 float32
}

// NewMat4 returns a Mat4 populated with the 16 values
// passed in row-major form.
func NewMat4(a []float32) Mat4 {
	if len(a) != 16 {
		panic("Mat4 is initialized with 16 values")
	}
	return Mat4{
		d00: a[0] - 1, x01: a[1], x02: a[2], x03: a[3],
		x10: a[4], d11: a[5] - 1, x12: a[6], x13: a[7],
		x20: a[8], x21: a[9], d22: a[10] - 1, x23: a[11],
		x30: a[12], x31: a[13], x32: a[14], d33: a[15] - 1,
	}
}

// ScaleMat4 returns a uniform scaling matrix.
func ScaleMat4(s float32) Mat4 {
	return Mat4{d00: s - 1, d11: s - 1, d22: s - 1}
}

// TranslateMat4 returns a translation matrix.
func TranslateMat4(t ms3.Vec) Mat4 {
	return Mat4{x30: t.X, x31: t.Y, x32: t.Z}
}

// RotateX returns the right-handed rotation of angle radians about the x axis.
func RotateX(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	return NewMat4([]float32{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	})
}

// RotateY returns the right-handed rotation of angle radians about the y axis.
func RotateY(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	return NewMat4([]float32{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	})
}

// RotateZ returns the right-handed rotation of angle radians about the z axis.
func RotateZ(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	return NewMat4([]float32{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

// RotateEuler returns RotateZ(r.Z) * RotateY(r.Y) * RotateX(r.X).
func RotateEuler(r ms3.Vec) Mat4 {
	return RotateZ(r.Z).Mul(RotateY(r.Y)).Mul(RotateX(r.X))
}

// ModelMatrix composes the per-body model transform
//
//	Scale * (RotZ * RotY * RotX) * Translation
//
// Local mesh coordinates are scaled, then rotated, then translated.
func ModelMatrix(translation ms3.Vec, scale float32, rotation ms3.Vec) Mat4 {
	return ScaleMat4(scale).Mul(RotateEuler(rotation)).Mul(TranslateMat4(translation))
}

// MulPosition applies the transform to position p with an implicit w=1.
// No perspective division is performed.
func (t Mat4) MulPosition(p ms3.Vec) ms3.Vec {
	return ms3.Vec{
		X: p.X*(t.d00+1) + p.Y*t.x10 + p.Z*t.x20 + t.x30,
		Y: p.X*t.x01 + p.Y*(t.d11+1) + p.Z*t.x21 + t.x31,
		Z: p.X*t.x02 + p.Y*t.x12 + p.Z*(t.d22+1) + t.x32,
	}
}

// Mul multiplies the matrices t and b and returns the result.
// The result applies t before b.
func (t Mat4) Mul(b Mat4) Mat4 {
	if t == (Mat4{}) {
		return b
	}
	if b == (Mat4{}) {
		return t
	}
	x00 := t.d00 + 1
	x11 := t.d11 + 1
	x22 := t.d22 + 1
	x33 := t.d33 + 1
	y00 := b.d00 + 1
	y11 := b.d11 + 1
	y22 := b.d22 + 1
	y33 := b.d33 + 1
	var m Mat4
	m.d00 = x00*y00 + t.x01*b.x10 + t.x02*b.x20 + t.x03*b.x30 - 1
	m.x10 = t.x10*y00 + x11*b.x10 + t.x12*b.x20 + t.x13*b.x30
	m.x20 = t.x20*y00 + t.x21*b.x10 + x22*b.x20 + t.x23*b.x30
	m.x30 = t.x30*y00 + t.x31*b.x10 + t.x32*b.x20 + x33*b.x30
	m.x01 = x00*b.x01 + t.x01*y11 + t.x02*b.x21 + t.x03*b.x31
	m.d11 = t.x10*b.x01 + x11*y11 + t.x12*b.x21 + t.x13*b.x31 - 1
	m.x21 = t.x20*b.x01 + t.x21*y11 + x22*b.x21 + t.x23*b.x31
	m.x31 = t.x30*b.x01 + t.x31*y11 + t.x32*b.x21 + x33*b.x31
	m.x02 = x00*b.x02 + t.x01*b.x12 + t.x02*y22 + t.x03*b.x32
	m.x12 = t.x10*b.x02 + x11*b.x12 + t.x12*y22 + t.x13*b.x32
	m.d22 = t.x20*b.x02 + t.x21*b.x12 + x22*y22 + t.x23*b.x32 - 1
	m.x32 = t.x30*b.x02 + t.x31*b.x12 + t.x32*y22 + x33*b.x32
	m.x03 = x00*b.x03 + t.x01*b.x13 + t.x02*b.x23 + t.x03*y33
	m.x13 = t.x10*b.x03 + x11*b.x13 + t.x12*b.x23 + t.x13*y33
	m.x23 = t.x20*b.x03 + t.x21*b.x13 + x22*b.x23 + t.x23*y33
	m.d33 = t.x30*b.x03 + t.x31*b.x13 + t.x32*b.x23 + x33*y33 - 1
	return m
}

// Det returns the determinant of the upper left 3x3 linear block.
// For an affine transform this equals the determinant of the full matrix.
func (t Mat4) Det() float32 {
	x00 := t.d00 + 1
	x11 := t.d11 + 1
	x22 := t.d22 + 1
	return x00*(x11*x22-t.x12*t.x21) -
		t.x01*(t.x10*x22-t.x12*t.x20) +
		t.x02*(t.x10*t.x21-x11*t.x20)
}

// Array returns the matrix elements in row-major order.
func (t Mat4) Array() [16]float32 {
	return [16]float32{
		t.d00 + 1, t.x01, t.x02, t.x03,
		t.x10, t.d11 + 1, t.x12, t.x13,
		t.x20, t.x21, t.d22 + 1, t.x23,
		t.x30, t.x31, t.x32, t.d33 + 1,
	}
}

// EqualWithin tests the equality of the matrices to within a tolerance.
func (t Mat4) EqualWithin(b Mat4, tol float32) bool {
	ta, ba := t.Array(), b.Array()
	for i := range ta {
		if math32.Abs(ta[i]-ba[i]) > tol {
			return false
		}
	}
	return true
}
