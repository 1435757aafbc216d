// Package services defines shared error plumbing consumed by the export
// pipeline and its collaborators (tag files, scene snapshots, history).
//
// Structured error markers plus the Wrap helper let every layer report failures
// with consistent stage/operation context, and Outcome maps any failure onto
// the short status recorded in the export history.
package services
