// Package storeerr holds the error kinds stores return for conditions a
// client caused, so handlers can map them to status codes without knowing
// every store's sentinels.
package storeerr

import "errors"

// Conflict reports a clash with existing data (duplicate keys, a second
// open application, a used-up offer). Mapped to 409.
type Conflict struct{ msg string }

func (e *Conflict) Error() string { return e.msg }

// NewConflict returns a Conflict sentinel with msg as its client-facing text.
func NewConflict(msg string) *Conflict { return &Conflict{msg: msg} }

// Invalid reports input the store refused (unknown reference, bad enum).
// Mapped to 400.
type Invalid struct{ msg string }

func (e *Invalid) Error() string { return e.msg }

// NewInvalid returns an Invalid sentinel with msg as its client-facing text.
func NewInvalid(msg string) *Invalid { return &Invalid{msg: msg} }

// IsConflict reports whether err wraps a Conflict.
func IsConflict(err error) bool {
	var c *Conflict
	return errors.As(err, &c)
}

// IsInvalid reports whether err wraps an Invalid.
func IsInvalid(err error) bool {
	var v *Invalid
	return errors.As(err, &v)
}

// Message returns the client-facing text of a Conflict or Invalid in err's
// chain, or "" when there is none.
func Message(err error) string {
	var c *Conflict
	if errors.As(err, &c) {
		return c.msg
	}
	var v *Invalid
	if errors.As(err, &v) {
		return v.msg
	}
	return ""
}
