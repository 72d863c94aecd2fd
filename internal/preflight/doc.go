// Package preflight validates the environment before a broadcast run:
// directories, the music bed, credentials, and external binaries.
package preflight
