package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodePostNotFound    = "BLOG001"
	ErrCodeInvalidInput    = "BLOG002"
	ErrCodeSlugUnavailable = "BLOG003"
	ErrCodeInvalidImage    = "BLOG004"
	ErrCodeInvalidCategory = "BLOG005"
)

// Errors
var (
	ErrPostNotFound    = errors.New("blog post not found")
	ErrSlugTaken       = errors.New("slug already taken")
	ErrSlugUnavailable = errors.New("no free slug for title")
	ErrInvalidImage    = errors.New("image reference does not resolve to a URL")
	ErrInvalidCategory = errors.New("unknown category")
)

// BlogError custom error type
type BlogError struct {
	Code    string
	Message string
	Err     error
}

func (e *BlogError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BlogError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewPostNotFoundError() *BlogError {
	return &BlogError{
		Code:    ErrCodePostNotFound,
		Message: "Blog post not found",
		Err:     ErrPostNotFound,
	}
}

func NewInvalidInputError(message string) *BlogError {
	return &BlogError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}

func NewSlugUnavailableError(base string) *BlogError {
	return &BlogError{
		Code:    ErrCodeSlugUnavailable,
		Message: fmt.Sprintf("Could not find a free slug for %q", base),
		Err:     ErrSlugUnavailable,
	}
}

func NewInvalidImageError() *BlogError {
	return &BlogError{
		Code:    ErrCodeInvalidImage,
		Message: "media_upload must be an image URL or its hex encoding",
		Err:     ErrInvalidImage,
	}
}

func NewInvalidCategoryError(category string) *BlogError {
	return &BlogError{
		Code:    ErrCodeInvalidCategory,
		Message: fmt.Sprintf("Unknown category %q", category),
		Err:     ErrInvalidCategory,
	}
}
