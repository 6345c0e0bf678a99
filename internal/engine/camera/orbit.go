package camera

import (
	"github.com/chewxy/math32"

	"github.com/amrayach/house-of-letters/pkg/math"
)

// Orbit circles a center point at a fixed distance and pitch. The title
// screen uses it to keep the camera drifting after the flight ends.
type Orbit struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Vertical angle above the horizon (radians)
	Yaw      float32 // Horizontal angle around +Y (radians)

	// Speed is the yaw rate in radians per second.
	Speed float32
}

// NewOrbit starts an orbit at pose, centered on its look-at point.
func NewOrbit(from Pose, speed float32) *Orbit {
	o := &Orbit{
		Center: from.LookAt,
		Speed:  speed,
	}

	offset := from.Position.Sub(from.LookAt)
	o.Distance = offset.Length()
	if o.Distance == 0 {
		return o
	}
	o.Pitch = math32.Asin(math.Clamp(offset.Y/o.Distance, -1, 1))
	o.Yaw = math32.Atan2(offset.X, offset.Z)
	return o
}

// Position returns the camera position in world space.
func (o *Orbit) Position() math.Vec3 {
	horiz := o.Distance * math32.Cos(o.Pitch)
	return math.Vec3{
		X: o.Center.X + horiz*math32.Sin(o.Yaw),
		Y: o.Center.Y + o.Distance*math32.Sin(o.Pitch),
		Z: o.Center.Z + horiz*math32.Cos(o.Yaw),
	}
}

// Pose returns the current pose looking at the center.
func (o *Orbit) Pose() Pose {
	return Pose{Position: o.Position(), LookAt: o.Center}
}

// Advance rotates the orbit by Speed*dt.
func (o *Orbit) Advance(dt float32) {
	if dt <= 0 {
		return
	}
	o.Yaw = math32.Mod(o.Yaw+o.Speed*dt, 2*math32.Pi)
}
