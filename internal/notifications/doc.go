// Package notifications delivers broadcast lifecycle notifications via ntfy.
package notifications
