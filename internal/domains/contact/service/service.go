package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"plik-backend/internal/domains/contact/model"
	"plik-backend/internal/infrastructure/email"
	"plik-backend/pkg/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

const sentAtLayout = "January 2, 2006 at 3:04 PM MST"

var nowFunc = time.Now

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type contactService struct {
	dispatcher email.Dispatcher
	cfg        Config
}

func NewContactService(dispatcher email.Dispatcher, cfg Config) ServiceInterface {
	return &contactService{
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

func (s *contactService) SendContact(ctx context.Context, req model.ContactRequest) (*model.SendResponse, error) {
	// Step 1: Provider must be configured
	if !s.cfg.Configured {
		return nil, model.NewNotConfiguredError()
	}

	// Step 2: Validate
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidInputError(firstMessage(err, "All fields are required"))
	}

	// Step 3: Render and send
	html, err := render("contact.html", struct {
		model.ContactRequest
		SentAt string
	}{req, nowFunc().Format(sentAtLayout)})
	if err != nil {
		return nil, err
	}

	_, err = s.dispatch(ctx, email.Message{
		From:    s.cfg.From,
		To:      []string{s.cfg.Inbox},
		Subject: fmt.Sprintf("New Contact Form Submission from %s %s", req.FirstName, req.LastName),
		HTML:    html,
		ReplyTo: req.Email,
		Tag:     "contact",
	}, "Failed to send contact form")
	if err != nil {
		return nil, err
	}

	return &model.SendResponse{Message: "Contact form submitted successfully"}, nil
}

func (s *contactService) SendDemoRequest(ctx context.Context, req model.DemoRequest) (*model.SendResponse, error) {
	// Step 1: Validate
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidInputError(firstMessage(err, "Missing required fields"))
	}

	// Step 2: Outside production nothing leaves the box
	if s.cfg.SimulateDemo {
		logger.Info("demo request simulated", map[string]interface{}{
			"company": req.Company,
			"email":   req.Email,
		})
		return &model.SendResponse{
			Message: "Demo request sent successfully (simulation)",
			EmailID: fmt.Sprintf("simulation-%d", nowFunc().UnixMilli()),
		}, nil
	}

	if !s.cfg.Configured {
		return nil, model.NewNotConfiguredError()
	}

	// Step 3: Render and send
	html, err := render("demo.html", struct {
		model.DemoRequest
		SentAt string
	}{req, nowFunc().Format(sentAtLayout)})
	if err != nil {
		return nil, err
	}

	id, err := s.dispatch(ctx, email.Message{
		From:    s.cfg.DemoFrom,
		To:      []string{s.cfg.Inbox},
		Subject: fmt.Sprintf("New Demo Request from %s %s", req.FirstName, req.LastName),
		HTML:    html,
		ReplyTo: req.Email,
		Tag:     "demo",
	}, "Failed to send demo request")
	if err != nil {
		return nil, err
	}

	return &model.SendResponse{Message: "Demo request sent successfully", EmailID: id}, nil
}

func (s *contactService) SubscribeNewsletter(ctx context.Context, req model.NewsletterRequest) (*model.SendResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidInputError(firstMessage(err, "Email is required"))
	}
	if !s.cfg.Configured {
		return nil, model.NewNotConfiguredError()
	}

	html, err := render("newsletter.html", req)
	if err != nil {
		return nil, err
	}

	id, err := s.dispatch(ctx, email.Message{
		From:    s.cfg.NewsFrom,
		To:      []string{s.cfg.Inbox},
		Subject: "New Newsletter Subscription - " + req.Email,
		HTML:    html,
		ReplyTo: req.Email,
		Tag:     "newsletter",
	}, "Failed to send email")
	if err != nil {
		return nil, err
	}

	return &model.SendResponse{Message: "Subscribed successfully", EmailID: id}, nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *contactService) dispatch(ctx context.Context, msg email.Message, failMsg string) (string, error) {
	id, err := s.dispatcher.Dispatch(ctx, msg)
	if err != nil {
		if errors.Is(err, email.ErrNotConfigured) {
			return "", model.NewNotConfiguredError()
		}
		return "", model.NewDeliveryFailedError(failMsg, err)
	}

	logger.Info("form email dispatched", map[string]interface{}{
		"tag": msg.Tag,
		"id":  id,
	})
	return id, nil
}

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// firstMessage picks the message shown to the form: preferred wins when any field
// failed with it, so missing fields are reported before format problems.
func firstMessage(err error, preferred string) string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	msg := ""
	for _, fieldErr := range errs {
		if fieldErr.Error() == preferred {
			return preferred
		}
		msg = fieldErr.Error()
	}
	return msg
}
