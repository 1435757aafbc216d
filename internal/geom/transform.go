package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MetersPerWorldUnit is the length of one engine world unit.
const MetersPerWorldUnit = 3.048

const epsilon = 1e-9

// engineBasis maps modeling-tool axes onto engine axes: (x, y, z) -> (y, -x, z).
var engineBasis = mgl64.Mat4{
	0, -1, 0, 0,
	1, 0, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// cameraCorrection turns a camera's -Z view axis into the object forward axis
// while keeping its +Y as up.
var cameraCorrection = mgl64.HomogRotate3DX(mgl64.DegToRad(-90))

// Transform is a matrix decomposed in engine space. Angles are in degrees.
type Transform struct {
	Position mgl64.Vec3
	Forward  mgl64.Vec3
	Left     mgl64.Vec3
	Up       mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Roll     float64
}

// MatrixFromRows builds a matrix from sixteen row-major values, the order the
// modeling tool prints matrix_world in.
func MatrixFromRows(values [16]float64) mgl64.Mat4 {
	return mgl64.Mat4(values).Transpose()
}

// ToEngine converts an object's world matrix.
func ToEngine(m mgl64.Mat4) Transform {
	converted := engineBasis.Mul4(m).Mul4(engineBasis.Transpose())
	return decompose(converted)
}

// CameraToEngine converts a camera's world matrix, applying the camera
// correction before the axis remap.
func CameraToEngine(m mgl64.Mat4) Transform {
	return ToEngine(m.Mul4(cameraCorrection))
}

func decompose(m mgl64.Mat4) Transform {
	forward := unitOr(m.Col(0).Vec3(), mgl64.Vec3{1, 0, 0})
	left := unitOr(m.Col(1).Vec3(), mgl64.Vec3{0, 1, 0})
	up := unitOr(m.Col(2).Vec3(), mgl64.Vec3{0, 0, 1})
	yaw, pitch, roll := angles(forward, left)
	return Transform{
		Position: m.Col(3).Vec3().Mul(1 / MetersPerWorldUnit),
		Forward:  forward,
		Left:     left,
		Up:       up,
		Yaw:      yaw,
		Pitch:    pitch,
		Roll:     roll,
	}
}

// angles derives yaw/pitch/roll from a forward/left basis. Roll is measured
// around forward, relative to the level left axis.
func angles(forward, left mgl64.Vec3) (yaw, pitch, roll float64) {
	pitch = math.Asin(mgl64.Clamp(forward.Z(), -1, 1))
	horizontal := math.Hypot(forward.X(), forward.Y())
	if horizontal < epsilon {
		// Looking straight up or down: yaw comes from the left axis.
		yaw = math.Atan2(-left.X(), left.Y())
		return mgl64.RadToDeg(yaw), mgl64.RadToDeg(pitch), 0
	}
	yaw = math.Atan2(forward.Y(), forward.X())

	levelLeft := mgl64.Vec3{0, 0, 1}.Cross(forward).Normalize()
	levelUp := forward.Cross(levelLeft)
	roll = math.Atan2(left.Dot(levelUp), left.Dot(levelLeft))
	return mgl64.RadToDeg(yaw), mgl64.RadToDeg(pitch), mgl64.RadToDeg(roll)
}

func unitOr(v, fallback mgl64.Vec3) mgl64.Vec3 {
	length := v.Len()
	if length < epsilon {
		return fallback
	}
	return v.Mul(1 / length)
}

// NormalizeDegrees wraps an angle into (-180, 180].
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg <= -180 {
		deg += 360
	} else if deg > 180 {
		deg -= 360
	}
	return deg
}
