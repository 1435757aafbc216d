// Package geom converts modeling-tool transforms into the engine's coordinate
// convention.
//
// The modeling tool is Z-up with +Y forward and +X right; the engine is Z-up with
// +X forward and +Y left, and measures distances in world units of 3.048 metres.
// Conversion is a change of basis applied on both the world and the local side of
// a 4x4 matrix, so the first three columns of a converted matrix are the object's
// forward, left, and up axes. Cameras get an extra correction because they look
// down their local -Z axis.
package geom
