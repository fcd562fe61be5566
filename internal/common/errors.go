// Package common defines shared constants and sentinel errors used across
// truproof layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrorRecordStore = errors.New("record store error")

	// Blob store errors (write/read/delete of artifacts).
	ErrorStorage = errors.New("storage error")

	// Validation errors, raised before any mutation.
	ErrorInvalidInput = errors.New("invalid input")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")
)
