// Package history keeps an append-only index of past broadcast runs so prior
// outcomes survive the latest-record snapshot being overwritten.
package history
