// Package mixer implements the deterministic broadcast mix: narration padded
// behind a fixed lead-in, the music bed faded and tail-padded to the measured
// narration length, the three tracks gain-mixed, compressed, and downmixed to
// the final mono deliverable.
package mixer
