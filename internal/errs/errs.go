// Package errs defines the sentinel error kinds every pipeline stage wraps
// its failures with, so callers can classify errors with errors.Is instead
// of switching on exception subclasses.
package errs

import "errors"

var (
	// ErrInvalidInput marks a request the caller must fix before retrying:
	// a missing prompt, unknown persona, or unreadable reference asset.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGeneration marks a pipeline stage that ran but failed to produce a
	// usable result after its retries were exhausted.
	ErrGeneration = errors.New("generation failed")

	// ErrModelUnavailable marks an external adapter (LLM, synth, coefficient
	// source, renderer) that could not be reached or returned a non-2xx
	// response.
	ErrModelUnavailable = errors.New("model unavailable")
)
