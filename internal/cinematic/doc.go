// Package cinematic holds the in-memory model of one cinematic export: the
// scene with its paths and anchor, the shots with their camera frames, and the
// actors with their per-shot visibility.
//
// A Scene is rebuilt from a snapshot for every export and discarded afterwards.
// Frames are computed once from the camera samples and never change.
package cinematic
