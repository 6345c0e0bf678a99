package model

import "github.com/chewxy/math32"

// Cross computes the cross product of two 3D vectors.
func Cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Normalize returns a unit vector in the same direction as v, or +Y for
// vectors too short to normalize.
func Normalize(v [3]float32) [3]float32 {
	length := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if length < 0.0001 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / length, v[1] / length, v[2] / length}
}

// FaceNormal returns the unnormalized normal of triangle (a, b, c) and its
// magnitude.
func FaceNormal(a, b, c [3]float32) ([3]float32, float32) {
	e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := Cross(e1, e2)
	return n, math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
}
