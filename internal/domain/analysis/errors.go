package analysis

import "errors"

// ErrNotFound indicates no analysis row exists for the given user and id.
var ErrNotFound = errors.New("analysis not found")

// ErrTerminal indicates an attempt to overwrite a record that already reached
// complete or error.
var ErrTerminal = errors.New("analysis already terminal")

// ErrInvalidRequest wraps all submission input errors so the HTTP layer can map
// them to a client-error status.
var ErrInvalidRequest = errors.New("invalid analysis request")
