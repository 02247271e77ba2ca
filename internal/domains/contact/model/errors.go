package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeInvalidInput   = "CON001"
	ErrCodeNotConfigured  = "CON002"
	ErrCodeDeliveryFailed = "CON003"
)

// Errors
var (
	ErrInvalidInput   = errors.New("invalid form input")
	ErrNotConfigured  = errors.New("email service not configured")
	ErrDeliveryFailed = errors.New("email delivery failed")
)

// ContactError custom error type
type ContactError struct {
	Code    string
	Message string
	Err     error
}

func (e *ContactError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ContactError) Unwrap() error {
	return e.Err
}

func NewInvalidInputError(message string) *ContactError {
	return &ContactError{
		Code:    ErrCodeInvalidInput,
		Message: message,
		Err:     ErrInvalidInput,
	}
}

func NewNotConfiguredError() *ContactError {
	return &ContactError{
		Code:    ErrCodeNotConfigured,
		Message: "Email service not configured",
		Err:     ErrNotConfigured,
	}
}

// NewDeliveryFailedError keeps the provider error for logs; message is what the form shows.
func NewDeliveryFailedError(message string, err error) *ContactError {
	return &ContactError{
		Code:    ErrCodeDeliveryFailed,
		Message: message,
		Err:     fmt.Errorf("%w: %w", ErrDeliveryFailed, err),
	}
}
