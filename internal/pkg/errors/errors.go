package errors

import "errors"

// Category sentinels. Service packages wrap these with %w so handlers can
// pick an HTTP status by category when no specific mapping exists.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
)
