package backend

import "errors"

var (
	// ErrTransport indicates a request was rejected or timed out before a
	// usable response arrived.
	ErrTransport = errors.New("transport failure")

	// ErrNotFound indicates the backend response did not contain the
	// requested entity.
	ErrNotFound = errors.New("entity not found")
)
