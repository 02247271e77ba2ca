package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeInvalidRequest   = "BIL001"
	ErrCodeNotFound         = "BIL002"
	ErrCodeProvider         = "BIL003"
	ErrCodeInvalidSignature = "BIL004"
	ErrCodeWebhookFailed    = "BIL005"
	ErrCodeUnauthorized     = "BIL006"
)

// Errors
var (
	ErrInvalidRequest   = errors.New("invalid billing request")
	ErrNotFound         = errors.New("billing resource not found")
	ErrProvider         = errors.New("billing provider error")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrWebhookFailed    = errors.New("webhook handler failed")
	ErrDuplicateEvent   = errors.New("webhook event already processed")
)

// BillingError custom error type
type BillingError struct {
	Code    string
	Message string
	Err     error
}

func (e *BillingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BillingError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewInvalidRequestError(message string) *BillingError {
	return &BillingError{
		Code:    ErrCodeInvalidRequest,
		Message: message,
		Err:     ErrInvalidRequest,
	}
}

func NewNotFoundError(message string) *BillingError {
	return &BillingError{
		Code:    ErrCodeNotFound,
		Message: message,
		Err:     ErrNotFound,
	}
}

// NewProviderError keeps the provider error for logs; Message is what clients see.
func NewProviderError(message string, err error) *BillingError {
	return &BillingError{
		Code:    ErrCodeProvider,
		Message: message,
		Err:     fmt.Errorf("%w: %w", ErrProvider, err),
	}
}

func NewInvalidSignatureError(err error) *BillingError {
	return &BillingError{
		Code:    ErrCodeInvalidSignature,
		Message: "Invalid signature",
		Err:     fmt.Errorf("%w: %w", ErrInvalidSignature, err),
	}
}

func NewWebhookFailedError(err error) *BillingError {
	return &BillingError{
		Code:    ErrCodeWebhookFailed,
		Message: "Webhook handler failed",
		Err:     fmt.Errorf("%w: %w", ErrWebhookFailed, err),
	}
}

func NewUnauthorizedError(message string) *BillingError {
	return &BillingError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}
