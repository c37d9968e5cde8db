package apperr

import "errors"

// ErrInvalid is returned when input fails local validation.
var ErrInvalid = errors.New("invalid input")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized indicates a missing, rejected or expired session.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUnavailable indicates a transient backend failure worth retrying.
var ErrUnavailable = errors.New("backend unavailable")

// ErrConflict indicates a state conflict reported by the backend.
var ErrConflict = errors.New("conflict")
