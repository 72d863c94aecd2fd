// Package broadcast defines the persisted run record, its file store, and
// the script prompt composition.
package broadcast
