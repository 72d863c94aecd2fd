// Package sox wraps the SoX command-line tools as discrete, idempotent
// file-to-file audio transforms plus a duration probe.
package sox
