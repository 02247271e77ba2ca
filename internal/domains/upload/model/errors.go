package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNoFiles       = "UPL001"
	ErrCodeFileTooLarge  = "UPL002"
	ErrCodeInvalidType   = "UPL003"
	ErrCodeStorageFailed = "UPL004"
)

var (
	ErrNoFiles       = errors.New("no files provided")
	ErrFileTooLarge  = errors.New("file too large")
	ErrInvalidType   = errors.New("file type not allowed")
	ErrStorageFailed = errors.New("blob storage failed")
)

// UploadError custom error type
type UploadError struct {
	Code    string
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func NewNoFilesError() *UploadError {
	return &UploadError{
		Code:    ErrCodeNoFiles,
		Message: "No files provided",
		Err:     ErrNoFiles,
	}
}

func NewFileTooLargeError(name string) *UploadError {
	return &UploadError{
		Code:    ErrCodeFileTooLarge,
		Message: fmt.Sprintf("File %s is too large. Maximum size is 500KB.", name),
		Err:     ErrFileTooLarge,
	}
}

func NewInvalidTypeError(name string) *UploadError {
	return &UploadError{
		Code:    ErrCodeInvalidType,
		Message: fmt.Sprintf("File %s has invalid type. Only PNG and JPG are allowed.", name),
		Err:     ErrInvalidType,
	}
}

func NewStorageFailedError(err error) *UploadError {
	return &UploadError{
		Code:    ErrCodeStorageFailed,
		Message: "Failed to upload image",
		Err:     fmt.Errorf("%w: %v", ErrStorageFailed, err),
	}
}
