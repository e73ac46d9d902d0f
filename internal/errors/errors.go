package errors

import (
	"errors"
)

// Sentinel errors for different categories
var (
	// ErrInvalidInput - invalid input (bad tool spec, bad config, malformed arguments)
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound - resource not found (unknown tool, unknown model)
	ErrNotFound = errors.New("not found")

	// ErrTransient - transient error (the caller may try again later)
	ErrTransient = errors.New("transient error")

	// ErrInvalidModelOutput - model returned something the agent cannot act on
	ErrInvalidModelOutput = errors.New("invalid model output")

	// ErrInternal - internal error
	ErrInternal = errors.New("internal error")
)
