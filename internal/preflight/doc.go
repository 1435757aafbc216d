// Package preflight provides readiness checks for the filesystem paths and
// stores an export depends on.
//
// These checks run in two contexts:
//   - The export command calls RunAll before processing any snapshot. If a
//     check fails, the batch stops before a single tag is opened.
//   - The CLI "cinetag check" command prints every result.
//
// Each check is gated by its config toggle; disabled features are skipped.
package preflight
