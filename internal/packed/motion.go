package packed

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Quat builds a quaternion from x, y, z, w lanes.
func Quat(v [4]float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

// MotionOrientation composes a body orientation with the major axis space of
// its mass properties.
func MotionOrientation(body, majorAxisSpace mgl32.Quat) mgl32.Quat {
	return body.Mul(majorAxisSpace)
}

// CenterOfMassWorld rotates a local centre of mass into world space and
// translates it by the body position.
func CenterOfMassWorld(local mgl32.Vec3, orientation mgl32.Quat, position mgl32.Vec3) mgl32.Vec3 {
	return orientation.Rotate(local).Add(position)
}

// InverseInertia inverts the three principal inertia lanes.
func InverseInertia(inertia [4]float32) mgl32.Vec3 {
	return mgl32.Vec3{1 / inertia[0], 1 / inertia[1], 1 / inertia[2]}
}
