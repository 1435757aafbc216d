// Package logging assembles structured slog loggers and formatting helpers used
// across cinetag.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// exposes context-aware helpers so export code automatically tags log lines with
// the export run ID and scene name. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component emits
// data with the same shape.
package logging
