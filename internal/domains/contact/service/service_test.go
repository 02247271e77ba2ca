package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plik-backend/internal/domains/contact/model"
	"plik-backend/internal/infrastructure/email"
)

type fakeDispatcher struct {
	sent []email.Message
	err  error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, msg email.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "re_1", nil
}

func testConfig() Config {
	return Config{
		From:       "noreply@plik.ca",
		DemoFrom:   "Demo Requests <onboarding@resend.dev>",
		NewsFrom:   "Newsletter <noreply@plik.ca>",
		Inbox:      "gaven@datablitz.com",
		Configured: true,
	}
}

func freezeTime(t *testing.T) time.Time {
	now := time.Date(2025, 5, 6, 14, 30, 0, 0, time.UTC)
	prev := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = prev })
	return now
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	var ce *model.ContactError
	require.True(t, errors.As(err, &ce), "expected ContactError, got %v", err)
	return ce.Code
}

func TestSendContact(t *testing.T) {
	freezeTime(t)
	d := &fakeDispatcher{}
	svc := NewContactService(d, testConfig())

	resp, err := svc.SendContact(context.Background(), model.ContactRequest{
		FirstName: " Jane ",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Question:  "<script>alert(1)</script> pricing?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Contact form submitted successfully", resp.Message)

	require.Len(t, d.sent, 1)
	msg := d.sent[0]
	assert.Equal(t, "noreply@plik.ca", msg.From)
	assert.Equal(t, []string{"gaven@datablitz.com"}, msg.To)
	assert.Equal(t, "New Contact Form Submission from Jane Doe", msg.Subject)
	assert.Equal(t, "jane@example.com", msg.ReplyTo)
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "May 6, 2025 at 2:30 PM UTC")
}

func TestSendContact_Validation(t *testing.T) {
	svc := NewContactService(&fakeDispatcher{}, testConfig())

	_, err := svc.SendContact(context.Background(), model.ContactRequest{FirstName: "Jane", Email: "nope"})
	assert.Equal(t, model.ErrCodeInvalidInput, errCode(t, err))
	assert.Contains(t, err.Error(), "All fields are required")

	_, err = svc.SendContact(context.Background(), model.ContactRequest{
		FirstName: "Jane", LastName: "Doe", Email: "nope", Question: "hi",
	})
	assert.Contains(t, err.Error(), "Invalid email format")
}

func TestSendContact_NotConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Configured = false
	d := &fakeDispatcher{}

	_, err := NewContactService(d, cfg).SendContact(context.Background(), model.ContactRequest{})
	assert.Equal(t, model.ErrCodeNotConfigured, errCode(t, err))
	assert.Empty(t, d.sent)
}

func TestSendContact_DeliveryFailure(t *testing.T) {
	svc := NewContactService(&fakeDispatcher{err: errors.New("resend 422")}, testConfig())

	_, err := svc.SendContact(context.Background(), model.ContactRequest{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Question: "hi",
	})
	assert.Equal(t, model.ErrCodeDeliveryFailed, errCode(t, err))
	assert.ErrorIs(t, err, model.ErrDeliveryFailed)
}

func TestSendDemoRequest(t *testing.T) {
	d := &fakeDispatcher{}
	svc := NewContactService(d, testConfig())

	resp, err := svc.SendDemoRequest(context.Background(), model.DemoRequest{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Company: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "re_1", resp.EmailID)

	require.Len(t, d.sent, 1)
	assert.Equal(t, "Demo Requests <onboarding@resend.dev>", d.sent[0].From)
	assert.Equal(t, "New Demo Request from Jane Doe", d.sent[0].Subject)
	assert.Contains(t, d.sent[0].HTML, "Not provided")
	assert.Contains(t, d.sent[0].HTML, "No message provided")
}

func TestSendDemoRequest_Simulated(t *testing.T) {
	now := freezeTime(t)
	cfg := testConfig()
	cfg.SimulateDemo = true
	cfg.Configured = false
	d := &fakeDispatcher{}

	resp, err := NewContactService(d, cfg).SendDemoRequest(context.Background(), model.DemoRequest{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Company: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "simulation-"+itoa(now.UnixMilli()), resp.EmailID)
	assert.Empty(t, d.sent)
}

func TestSendDemoRequest_MissingFields(t *testing.T) {
	svc := NewContactService(&fakeDispatcher{}, testConfig())

	_, err := svc.SendDemoRequest(context.Background(), model.DemoRequest{FirstName: "Jane", Email: "jane@example.com"})
	assert.Contains(t, err.Error(), "Missing required fields")
}

func TestSendDemoRequest_BadEmailUsesFormMessage(t *testing.T) {
	d := &fakeDispatcher{}
	svc := NewContactService(d, testConfig())

	_, err := svc.SendDemoRequest(context.Background(), model.DemoRequest{
		FirstName: "Jane", LastName: "Doe", Email: "jane-at-example", Company: "Acme",
	})
	assert.Equal(t, model.ErrCodeInvalidInput, errCode(t, err))
	assert.Equal(t, "Missing required fields", err.(*model.ContactError).Message)
	assert.Empty(t, d.sent)
}

func TestSubscribeNewsletter(t *testing.T) {
	d := &fakeDispatcher{}
	svc := NewContactService(d, testConfig())

	_, err := svc.SubscribeNewsletter(context.Background(), model.NewsletterRequest{})
	assert.Contains(t, err.Error(), "Email is required")

	_, err = svc.SubscribeNewsletter(context.Background(), model.NewsletterRequest{Email: "jane@example.com"})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	assert.Equal(t, "Newsletter <noreply@plik.ca>", d.sent[0].From)
	assert.Equal(t, "New Newsletter Subscription - jane@example.com", d.sent[0].Subject)
	assert.Equal(t, "jane@example.com", d.sent[0].ReplyTo)
}

func TestDispatch_ProviderNotConfigured(t *testing.T) {
	svc := NewContactService(&fakeDispatcher{err: email.ErrNotConfigured}, testConfig())

	_, err := svc.SubscribeNewsletter(context.Background(), model.NewsletterRequest{Email: "jane@example.com"})
	assert.Equal(t, model.ErrCodeNotConfigured, errCode(t, err))
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
