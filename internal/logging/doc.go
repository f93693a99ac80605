// Package logging wires log/slog with clipforge's console and JSON handlers
// and defines the structured field vocabulary shared across the pipeline.
package logging
