package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrEmptyCompletion indicates the provider responded without any usable text.
// Missing choices or a blank message is an error path, not an assumed value.
var ErrEmptyCompletion = errors.New("ai returned empty completion")
