package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrStoreUnavailable indicates the key-value store is unreachable or timed out.
	// Governance components treat any error wrapping this sentinel as a signal to
	// degrade rather than fail the caller's operation.
	ErrStoreUnavailable = errors.New("repository: store unavailable")
)
