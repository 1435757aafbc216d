// Package snapshot reads the scene snapshot the modeling-tool add-on dumps for
// an export: the asset path, the optional anchor, every shot's camera samples,
// and the objects that act in the cinematic.
//
// Snapshots are YAML. Matrices are sixteen numbers in row-major order, exactly
// as the modeling tool prints matrix_world. Camera fields left out of the file
// take the modeling tool's defaults.
package snapshot
