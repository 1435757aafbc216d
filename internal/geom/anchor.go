package geom

import "github.com/go-gl/mathgl/mgl64"

// Anchor is the reference transform a cinematic is authored against.
type Anchor struct {
	Position mgl64.Vec3
	// Yaw is offset by 180 degrees: the engine faces anchors opposite to cameras.
	Yaw   float64
	Pitch float64
	// Roll is always 0; anchors are treated as level.
	// TODO: confirm with the engine importer whether anchor roll is honoured.
	Roll float64

	inverse mgl64.Mat4
}

// AnchorFrom decomposes an anchor object's world matrix and keeps its inverse
// for expressing other transforms in anchor space.
func AnchorFrom(m mgl64.Mat4) Anchor {
	t := ToEngine(m)
	return Anchor{
		Position: t.Position,
		Yaw:      NormalizeDegrees(t.Yaw + 180),
		Pitch:    t.Pitch,
		Roll:     0,
		inverse:  m.Inv(),
	}
}

// Local returns m expressed relative to the anchor (world-to-anchor applied).
func (a Anchor) Local(m mgl64.Mat4) mgl64.Mat4 {
	return a.inverse.Mul4(m)
}
