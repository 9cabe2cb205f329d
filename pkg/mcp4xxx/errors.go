package mcp4xxx

import (
	"errors"
	"fmt"
)

// ErrConfigMismatch is wrapped by every configuration mismatch error.
var ErrConfigMismatch = errors.New("configuration failed")

// ErrorKind classifies an Error.
type ErrorKind uint8

const (
	// KindTransport means the bus transfer itself failed
	KindTransport ErrorKind = iota + 1
	// KindConfigMismatch means TCON did not read back as written
	KindConfigMismatch
)

// Error is returned by every Device operation.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (obj *Error) Error() string {
	if obj.Kind == KindConfigMismatch {
		return "mcp4xxx: " + ErrConfigMismatch.Error()
	}
	return fmt.Sprintf("mcp4xxx: i2c error: %v", obj.Err)
}

// Unwrap returns the bus error, or ErrConfigMismatch for a mismatch.
func (obj *Error) Unwrap() error {
	return obj.Err
}

// IsTransport reports whether the bus transfer failed.
func (obj *Error) IsTransport() bool {
	return obj.Kind == KindTransport
}

// IsConfigMismatch reports whether TCON read back differently than written.
func (obj *Error) IsConfigMismatch() bool {
	return obj.Kind == KindConfigMismatch
}

// IsTransport reports whether err is, or wraps, a bus failure raised by a Device.
func IsTransport(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.IsTransport()
}

// IsConfigMismatch reports whether err is, or wraps, a TCON read-back mismatch.
func IsConfigMismatch(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.IsConfigMismatch()
}

func transportError(err error) error {
	return &Error{Kind: KindTransport, Err: err}
}

func mismatchError() error {
	return &Error{Kind: KindConfigMismatch, Err: ErrConfigMismatch}
}
