package email

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no provider API key is set.
var ErrNotConfigured = errors.New("email service not configured")

// Message is one outgoing transactional email. It is also the queued task payload.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`

	// Tag identifies the form that produced the message, for logs.
	Tag string `json:"tag,omitempty"`
}

// Sender delivers a message synchronously and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Dispatcher hands a message off for delivery, now or later.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message) (string, error)
}
