// Package cmplx2d provides the §3 "Position" representation: a 2D point,
// vector, velocity, or acceleration as a complex128 (re = x, im = y),
// chosen — as in the original C engine's use of `complex double` — because
// rotation and scaling compose as multiplication.
package cmplx2d

import "math"

type Vec = complex128

// FromPolar builds a vector of the given magnitude pointing at angle
// (radians, 0 = +x axis, increasing counter-clockwise).
func FromPolar(magnitude, angle float64) Vec {
	return complex(magnitude*math.Cos(angle), magnitude*math.Sin(angle))
}

// Angle returns the direction of v in radians.
func Angle(v Vec) float64 {
	return math.Atan2(imag(v), real(v))
}

// Abs returns the magnitude of v.
func Abs(v Vec) float64 {
	return math.Hypot(real(v), imag(v))
}

// Normalize returns v scaled to unit length, or 0 if v is 0.
func Normalize(v Vec) Vec {
	a := Abs(v)
	if a == 0 {
		return 0
	}
	return v / complex(a, 0)
}

// Rotate returns v rotated by angle radians.
func Rotate(v Vec, angle float64) Vec {
	return v * FromPolar(1, angle)
}

// Dot returns the real dot product of a and b treated as 2D vectors.
func Dot(a, b Vec) float64 {
	return real(a)*real(b) + imag(a)*imag(b)
}

// Clamp restricts v's coordinates to the closed rectangle [minX,maxX]x[minY,maxY].
func Clamp(v Vec, minX, maxX, minY, maxY float64) Vec {
	x := real(v)
	y := imag(v)
	if x < minX {
		x = minX
	} else if x > maxX {
		x = maxX
	}
	if y < minY {
		y = minY
	} else if y > maxY {
		y = maxY
	}
	return complex(x, y)
}
