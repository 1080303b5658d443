package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when a resource exists but belongs to a different
// user than the one making the request.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. arrival before departure, non-positive distance).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrIllegalTransition is returned when a lifecycle operation is attempted
// against a journey in a terminal state (already validated or rejected).
// It is a policy violation, not a server fault.
// Handlers should map this to HTTP 400.
var ErrIllegalTransition = errors.New("illegal transition")

// ErrUnauthorized is returned for missing, expired, or otherwise invalid
// credentials. Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")
