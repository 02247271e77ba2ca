package model

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// =====================================================
// DTOs
// =====================================================

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 72)),
	)
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"` // seconds
}

// =====================================================
// ERRORS
// =====================================================

const (
	ErrCodeInvalidCredentials = "ADM001"
	ErrCodeTokenIssue         = "ADM002"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenIssue         = errors.New("failed to issue token")
)

type AdminError struct {
	Code    string
	Message string
	Err     error
}

func (e *AdminError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AdminError) Unwrap() error {
	return e.Err
}

func NewInvalidCredentialsError() *AdminError {
	return &AdminError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid credentials",
		Err:     ErrInvalidCredentials,
	}
}

func NewTokenIssueError(err error) *AdminError {
	return &AdminError{
		Code:    ErrCodeTokenIssue,
		Message: "Login failed",
		Err:     fmt.Errorf("%w: %v", ErrTokenIssue, err),
	}
}
