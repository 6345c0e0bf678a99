package math

import "github.com/chewxy/math32"

// DampFactor returns the blend weight 1 - e^(-k*dt) for exponential smoothing.
// The result is in [0, 1) for finite k, dt >= 0.
func DampFactor(k, dt float32) float32 {
	if k <= 0 || dt <= 0 {
		return 0
	}
	return 1 - math32.Exp(-k*dt)
}

// Damp moves current toward target by exponential smoothing over dt seconds.
// It never overshoots and converges to target as accumulated dt grows.
func Damp(current, target, k, dt float32) float32 {
	return current + (target-current)*DampFactor(k, dt)
}

// DampVec3 is Damp applied per component.
func DampVec3(current, target Vec3, k, dt float32) Vec3 {
	return current.Lerp(target, DampFactor(k, dt))
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
