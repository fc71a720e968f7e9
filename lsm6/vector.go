package lsm6

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Scalar is any numeric type a Vector can carry: raw int16 counts straight
// from the output registers, or floats after scaling.
type Scalar interface {
	constraints.Integer | constraints.Float
}

// Vector is a three-axis sample.
type Vector[T Scalar] struct {
	X, Y, Z T
}

// Dot returns the dot product of a and b.
func Dot[T Scalar](a, b Vector[T]) T {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product of a and b.
func Cross[T Scalar](a, b Vector[T]) Vector[T] {
	return Vector[T]{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// Normalize scales v in place to unit magnitude. A zero vector has no
// direction; dividing by its zero magnitude yields IEEE infinities or
// NaNs, the same as any other float division by zero.
func Normalize[T constraints.Float](v *Vector[T]) {
	mag := T(math.Sqrt(float64(Dot(*v, *v))))
	v.X /= mag
	v.Y /= mag
	v.Z /= mag
}

// Sensitivities at the power-on full scales EnableDefault selects,
// from the LSM6DS33 datasheet.
const (
	AccelScale2g    = 0.000061 // g per LSB at +/-2 g
	GyroScale245dps = 0.00875  // dps per LSB at 245 dps
)

// Scaled converts a raw count vector to physical units using the given
// per-LSB sensitivity.
func Scaled[T Scalar](v Vector[T], scale float64) Vector[float64] {
	return Vector[float64]{
		X: float64(v.X) * scale,
		Y: float64(v.Y) * scale,
		Z: float64(v.Z) * scale,
	}
}
