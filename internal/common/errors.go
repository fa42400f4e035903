// Package common defines sentinel errors shared by the repositories, the
// diary service and the transports. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrDuplicateFilename = errors.New("duplicate filename")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors, raised before any store is touched.
	ErrInvalidTransform = errors.New("invalid transform")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyFile        = errors.New("empty file")
	ErrFileTooLarge     = errors.New("file too large")

	// Blob store failures (write/read side of IOError).
	ErrBlobIO = errors.New("blob store i/o error")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
