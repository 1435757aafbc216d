// Package export drives one cinematic export from snapshot to committed tags.
//
// For each snapshot the exporter builds the scene model, opens and locks the
// target tags, synchronises them in memory, and commits them atomically. The
// split schema commits the scene data tag before the scene tag. Every run is
// tagged with a run ID carried on the context and, when history is enabled,
// recorded with its outcome.
//
// ExportAll processes several snapshots concurrently, bounded by the
// configured concurrency. Tag file locks keep two runs from writing the same
// scene.
package export
