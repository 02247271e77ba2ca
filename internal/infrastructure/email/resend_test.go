package email

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendSender_NotConfiguredResend(t *testing.T) {
	s := NewResendSender("")

	assert.False(t, s.Configured())
	_, err := s.Send(context.Background(), Message{Tag: "contact"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestResendSender_ProviderFailureLoggedAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from"}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	s := NewResendSender("re_test")
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	s.client.BaseURL = base

	_, err = s.Send(context.Background(), Message{
		From:    "Plik <hello@plik.ca>",
		To:      []string{"team@plik.ca"},
		Subject: "Contact",
		HTML:    "<p>hi</p>",
		Tag:     "contact",
	})

	require.Error(t, err)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "Failed to send email (tag=contact)")
}
