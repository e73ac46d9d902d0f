package errors

import (
	"context"
	"errors"
	"fmt"
)

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", message, err)
}

// WrapWithCategory replaces err with a category sentinel, keeping only the message.
func WrapWithCategory(err error, message string, category error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", message, category)
}

// IsCategory checks if error belongs to specific category
func IsCategory(err error, category error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, category)
}

// Category returns the sentinel name an error belongs to.
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "ErrInvalidInput"
	case errors.Is(err, ErrNotFound):
		return "ErrNotFound"
	case errors.Is(err, ErrTransient):
		return "ErrTransient"
	case errors.Is(err, ErrInvalidModelOutput):
		return "ErrInvalidModelOutput"
	case errors.Is(err, ErrInternal):
		return "ErrInternal"
	default:
		return "Unknown"
	}
}

func NotFound(message string) error {
	return fmt.Errorf("%s: %w", message, ErrNotFound)
}

func InvalidInput(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInvalidInput)
}

func Transient(message string) error {
	return fmt.Errorf("%s: %w", message, ErrTransient)
}

func Internal(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInternal)
}

func InvalidModelOutput(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInvalidModelOutput)
}

// IsRetryable reports whether the error is transient and not a cancellation.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrTransient)
}
