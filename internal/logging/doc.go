// Package logging assembles structured slog loggers and formatting helpers
// used across gearrack components.
//
// It centralizes level and output plumbing, provides typed attribute
// constructors so components emit fields with consistent keys, and exposes a
// no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape as the rest of the system.
package logging
