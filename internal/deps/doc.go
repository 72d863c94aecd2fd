// Package deps checks availability of external binaries the pipeline shells
// out to.
package deps
