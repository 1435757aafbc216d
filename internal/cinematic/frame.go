package cinematic

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"cinetag/internal/geom"
	"cinetag/internal/optics"
	"cinetag/internal/snapshot"
)

// Frame is one camera sample in engine form.
type Frame struct {
	Position mgl64.Vec3
	Forward  mgl64.Vec3
	Up       mgl64.Vec3

	FocalLength  float64
	DepthOfField bool

	// Clip planes, not focal depths.
	NearFocalPlaneDistance float64
	FarFocalPlaneDistance  float64

	// FocalDepth is the focus distance; only the legacy schema stores it.
	FocalDepth     float64
	NearFocalDepth float64
	FarFocalDepth  float64

	// BlurAmount is the aperture passed through for the legacy schema.
	BlurAmount     float64
	NearBlurAmount float64
	FarBlurAmount  float64
}

// FrameOptions controls frame construction.
type FrameOptions struct {
	Schema Schema
	// Anchor, when set, makes camera positions anchor-relative.
	Anchor *geom.Anchor
	// CoC is the circle of confusion for focal depth; zero uses optics.DefaultCoC.
	CoC float64
}

// NewFrame converts a camera sample.
func NewFrame(cam snapshot.Camera, opts FrameOptions) (Frame, error) {
	coc := opts.CoC
	if coc == 0 {
		coc = optics.DefaultCoC
	}

	m := cam.Matrix.Mat4()
	if opts.Anchor != nil {
		m = opts.Anchor.Local(m)
	}
	t := geom.CameraToEngine(m)

	focus := cam.DOF.FocusDistance
	fstop := cam.DOF.FStop
	depths, err := lensOptics(cam, coc)
	if err != nil {
		// The engine ignores these with depth of field off, so they stay zero.
		if cam.DOF.Enabled {
			return Frame{}, err
		}
	}

	return Frame{
		Position:               t.Position,
		Forward:                t.Forward,
		Up:                     t.Up,
		FocalLength:            cam.Lens * opts.Schema.FocalLengthScale(),
		DepthOfField:           cam.DOF.Enabled,
		NearFocalPlaneDistance: cam.ClipStart,
		FarFocalPlaneDistance:  cam.ClipEnd,
		FocalDepth:             focus,
		NearFocalDepth:         depths.near,
		FarFocalDepth:          depths.far,
		BlurAmount:             fstop,
		NearBlurAmount:         depths.nearBlur,
		FarBlurAmount:          depths.farBlur,
	}, nil
}

type dofValues struct {
	near, far         float64
	nearBlur, farBlur float64
}

// lensOptics computes focal depths and the blur at both clip planes.
func lensOptics(cam snapshot.Camera, coc float64) (dofValues, error) {
	var v dofValues
	var err error
	focus, fstop := cam.DOF.FocusDistance, cam.DOF.FStop
	if v.near, v.far, err = optics.FocalDepths(focus, fstop, coc, cam.Lens); err != nil {
		return dofValues{}, fmt.Errorf("focal depth: %w", err)
	}
	if v.nearBlur, err = optics.BlurAmount(cam.Lens, focus, fstop, cam.ClipStart, cam.SensorWidth); err != nil {
		return dofValues{}, fmt.Errorf("near blur: %w", err)
	}
	if v.farBlur, err = optics.BlurAmount(cam.Lens, focus, fstop, cam.ClipEnd, cam.SensorWidth); err != nil {
		return dofValues{}, fmt.Errorf("far blur: %w", err)
	}
	return v, nil
}

// Shot is an ordered run of frames. Dialogue, script and effect tracks exist
// in the tag layout but are always empty.
type Shot struct {
	Frames   []Frame
	Dialogue []string
	Script   []string
	Effects  []string
}

// FrameCount returns len(Frames).
func (s Shot) FrameCount() int { return len(s.Frames) }
