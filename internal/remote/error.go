// Package remote normalizes failures of calls that leave the process
// (database RPCs, the book detail API) into one error kind.
package remote

import (
	"errors"
	"fmt"
)

// Error is returned by every API wrapper when its remote call fails.
type Error struct {
	Op    string
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("remote %s failed", e.Op)
	}
	return fmt.Sprintf("remote %s: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Wrap returns err as a *Error for op. Nil stays nil and an existing *Error is
// returned unchanged so wrappers never nest.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) {
		return err
	}
	return &Error{Op: op, Cause: err}
}

// IsRemote reports whether err carries a *Error.
func IsRemote(err error) bool {
	var re *Error
	return errors.As(err, &re)
}
