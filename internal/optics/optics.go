// Package optics computes depth-of-field quantities for cinematic cameras:
// hyperfocal distance, near/far focal depth, and circle-of-confusion blur.
//
// All functions are pure. Inputs that would divide by zero return
// ErrDegenerate instead of producing infinities or NaN.
package optics

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultCoC is the circle of confusion, in millimetres, used for focal depth.
	DefaultCoC = 0.03
	// DefaultFocalLength is the focal length assumed when none is given.
	DefaultFocalLength = 50.0
	// FullFrameDiagonal is the diagonal of a 36x24mm sensor. Apertures are scaled
	// by sensor width over this value for smaller sensors.
	FullFrameDiagonal = 43.27
)

// ErrDegenerate reports inputs for which the optics formulas are undefined.
var ErrDegenerate = errors.New("degenerate optics input")

// Hyperfocal returns focalLength² / (aperture · coc).
func Hyperfocal(focalLength, aperture, coc float64) (float64, error) {
	if aperture <= 0 || coc <= 0 {
		return 0, fmt.Errorf("%w: aperture %v and circle of confusion %v must be positive", ErrDegenerate, aperture, coc)
	}
	return focalLength * focalLength / (aperture * coc), nil
}

// FocalDepths returns the near and far limits of acceptable sharpness for a
// lens focused at focusDistance. far is never less than focusDistance: when the
// far denominator reaches zero or below, far is clamped to focusDistance.
func FocalDepths(focusDistance, aperture, coc, focalLength float64) (near, far float64, err error) {
	h, err := Hyperfocal(focalLength, aperture, coc)
	if err != nil {
		return 0, 0, err
	}
	offset := focusDistance - focalLength
	if offset == 0 {
		return 0, 0, fmt.Errorf("%w: focus distance equals focal length (%v)", ErrDegenerate, focalLength)
	}

	nearDen := h + offset
	if nearDen == 0 {
		return 0, 0, fmt.Errorf("%w: near focal depth denominator is zero", ErrDegenerate)
	}
	near = h * focusDistance / nearDen

	far = focusDistance
	if farDen := h - offset; farDen > 0 {
		far = math.Max(h*focusDistance/farDen, focusDistance)
	}
	return near, far, nil
}

// BlurAmount returns the circle of confusion for an object at objectDistance
// when the lens is focused at focusDistance. The aperture is scaled by
// sensorWidth / FullFrameDiagonal before the hyperfocal distance is computed.
// An object at the focus distance has zero blur.
func BlurAmount(focalLength, focusDistance, aperture, objectDistance, sensorWidth float64) (float64, error) {
	if sensorWidth <= 0 {
		return 0, fmt.Errorf("%w: sensor width %v must be positive", ErrDegenerate, sensorWidth)
	}
	h, err := Hyperfocal(focalLength, aperture*(sensorWidth/FullFrameDiagonal), DefaultCoC)
	if err != nil {
		return 0, err
	}
	if h == 0 {
		return 0, fmt.Errorf("%w: zero hyperfocal distance", ErrDegenerate)
	}
	den := objectDistance * (focusDistance - focalLength)
	if den == 0 {
		return 0, fmt.Errorf("%w: object distance %v with focus distance %v and focal length %v", ErrDegenerate, objectDistance, focusDistance, focalLength)
	}
	return math.Abs(focalLength*(objectDistance-focusDistance)/den) * (focalLength / h), nil
}
