package db

import "errors"

var (
	// ErrNotFound is returned when no product row matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates the unique product name.
	ErrDuplicate = errors.New("duplicate")
	// ErrUnavailable marks connectivity failures, pool exhaustion and timeouts.
	ErrUnavailable = errors.New("store unavailable")
)
