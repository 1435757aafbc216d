// Package textutil provides name sanitization shared by the cinematic model and
// the tag writers.
//
// Identity strings (actor names, scene names) are used both as tag field values
// and as path segments, so they are reduced to a conservative character set
// before any identity-based lookup happens.
package textutil
