// Package storage defines the failure classes shared by storage backends.
package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrTransient marks a failure that may succeed on retry.
	ErrTransient = errors.New("transient storage error")
	// ErrFatal marks a failure that will not succeed on retry.
	ErrFatal = errors.New("fatal storage error")
)

// Transient wraps err so that errors.Is(err, ErrTransient) holds.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

// Fatal wraps err so that errors.Is(err, ErrFatal) holds.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrFatal, err)
}

// IsTransient reports whether err is classified as transient.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
