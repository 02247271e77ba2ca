package service

import (
	"context"

	"plik-backend/internal/domains/contact/model"
)

// ServiceInterface defines the marketing site forms that end in an email
type ServiceInterface interface {
	SendContact(ctx context.Context, req model.ContactRequest) (*model.SendResponse, error)
	SendDemoRequest(ctx context.Context, req model.DemoRequest) (*model.SendResponse, error)
	SubscribeNewsletter(ctx context.Context, req model.NewsletterRequest) (*model.SendResponse, error)
}

// Config holds addresses and delivery switches.
type Config struct {
	From         string // contact form sender
	DemoFrom     string
	NewsFrom     string
	Inbox        string // where every form lands
	Configured   bool   // provider API key present
	SimulateDemo bool   // development and preview environments
}
