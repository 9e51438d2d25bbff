package md3

import "math"

// Vec is a 3D vector composed of 3 float64 fields for x, y and z values
// in that order. It has no padding: unsafe.Sizeof(Vec{}) == 24, matching
// the wire layout of a vec3 of f64.
type Vec struct {
	X, Y, Z float64
}

// Array returns the ordered components of Vec in a 3 element array [a.x,a.y,a.z].
func (a Vec) Array() [3]float64 {
	return [3]float64{a.X, a.Y, a.Z}
}

// Max returns the maximum component of a.
func (a Vec) Max() float64 {
	return math.Max(a.X, math.Max(a.Y, a.Z))
}

// Min returns the minimum component of a.
func (a Vec) Min() float64 {
	return math.Min(a.X, math.Min(a.Y, a.Z))
}

// Add returns the vector sum of p and q.
func Add(p, q Vec) Vec {
	return Vec{
		X: p.X + q.X,
		Y: p.Y + q.Y,
		Z: p.Z + q.Z,
	}
}

// Sub returns the vector sum of p and -q.
func Sub(p, q Vec) Vec {
	return Vec{
		X: p.X - q.X,
		Y: p.Y - q.Y,
		Z: p.Z - q.Z,
	}
}

// Scale returns the vector p scaled by f.
func Scale(f float64, p Vec) Vec {
	return Vec{
		X: f * p.X,
		Y: f * p.Y,
		Z: f * p.Z,
	}
}

// Dot returns the dot product p·q.
func Dot(p, q Vec) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// MinElem returns a vector with the minimum components of two vectors.
func MinElem(p, q Vec) Vec {
	return Vec{
		X: math.Min(p.X, q.X),
		Y: math.Min(p.Y, q.Y),
		Z: math.Min(p.Z, q.Z),
	}
}

// MaxElem returns a vector with the maximum components of two vectors.
func MaxElem(p, q Vec) Vec {
	return Vec{
		X: math.Max(p.X, q.X),
		Y: math.Max(p.Y, q.Y),
		Z: math.Max(p.Z, q.Z),
	}
}
