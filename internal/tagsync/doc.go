// Package tagsync writes a cinematic scene model into its persisted tags.
//
// Shots are positional: the shots block is resized to the shot count and each
// shot's frames are rewritten in place. Objects are keyed by name: existing
// elements whose name matches a live actor are kept, the rest are removed, and
// new actors are appended. The two engine schemas differ only in where frames
// and object data land, which the Layout implementations encode.
//
// Sync mutates tags in memory only. Callers commit the tag files afterwards, so
// a failed or canceled sync leaves nothing on disk.
package tagsync
