// Package pipeline orchestrates a broadcast run from event collection
// through script generation, speech synthesis, and the final mix.
package pipeline
