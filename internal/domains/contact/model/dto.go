package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// =====================================================
// REQUEST DTOs
// =====================================================

type ContactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Question  string `json:"question"`
}

func (r *ContactRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Question = strings.TrimSpace(r.Question)
}

func (r ContactRequest) Validate() error {
	required := validation.Required.Error("All fields are required")
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, required),
		validation.Field(&r.LastName, required),
		validation.Field(&r.Email, required, is.EmailFormat.Error("Invalid email format")),
		validation.Field(&r.Question, required, validation.Length(0, 5000)),
	)
}

// DemoRequest arrives as multipart or urlencoded form data.
type DemoRequest struct {
	FirstName string `form:"firstName" json:"firstName"`
	LastName  string `form:"lastName" json:"lastName"`
	Email     string `form:"email" json:"email"`
	Company   string `form:"company" json:"company"`
	Phone     string `form:"phone" json:"phone"`
	Message   string `form:"message" json:"message"`
}

func (r *DemoRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Company = strings.TrimSpace(r.Company)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Message = strings.TrimSpace(r.Message)
}

// Validate reports every demo form problem with the single message the site shows.
func (r DemoRequest) Validate() error {
	const msg = "Missing required fields"
	required := validation.Required.Error(msg)
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, required),
		validation.Field(&r.LastName, required),
		validation.Field(&r.Email, required, is.EmailFormat.Error(msg)),
		validation.Field(&r.Company, required),
		validation.Field(&r.Message, validation.Length(0, 5000).Error(msg)),
	)
}

type NewsletterRequest struct {
	Email string `json:"email" form:"email"`
}

func (r NewsletterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			is.EmailFormat.Error("Invalid email format"),
		),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type SendResponse struct {
	Message string `json:"message"`
	EmailID string `json:"emailId,omitempty"`
}
