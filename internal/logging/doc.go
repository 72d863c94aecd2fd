// Package logging provides slog construction helpers and the attribute
// conventions used across cozycast components.
package logging
