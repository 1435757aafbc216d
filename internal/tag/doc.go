// Package tag provides access to the engine's binary tag files.
//
// A Tag is a tree of elements. Each Element carries typed fields (strings,
// integers, reals, points, vectors, flag sets, tag references) and named
// blocks, where a Block is an ordered list of child elements. The tree is
// persisted with a small little-endian codec.
//
// Tag files are opened with scoped acquisition: Open takes an exclusive file
// lock and loads the current contents, callers mutate the tree in memory, and
// Commit replaces the file atomically. Closing a File without committing leaves
// the disk untouched.
//
// Reference fields point at other tags under the tags root. Index resolves
// reference paths against that root and is the only way references are set by
// the exporter, so a path that does not resolve fails before anything is
// written.
package tag
