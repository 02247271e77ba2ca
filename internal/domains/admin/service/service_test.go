package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"plik-backend/internal/domains/admin/model"
	"plik-backend/pkg/jwt"
)

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

type failingTokens struct{}

func (failingTokens) GenerateAccessToken(string, string, string) (string, error) {
	return "", errors.New("signing key missing")
}

func (failingTokens) TTL() time.Duration { return time.Hour }

func TestLogin(t *testing.T) {
	m := jwt.NewManager("secret", "plik.ca", 2*time.Hour)
	svc := NewAdminService(Config{Email: "admin@plik.ca", PasswordHash: hashed(t, "s3cret!")}, m)

	resp, err := svc.Login(context.Background(), model.LoginRequest{Email: " Admin@Plik.ca ", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, int64(7200), resp.ExpiresIn)

	claims, err := m.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, jwt.RoleAdmin, claims.Role)
	assert.Equal(t, "admin@plik.ca", claims.UserID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	m := jwt.NewManager("secret", "plik.ca", time.Hour)
	hash := hashed(t, "s3cret!")

	tests := []struct {
		name string
		cfg  Config
		req  model.LoginRequest
	}{
		{"wrong password", Config{Email: "admin@plik.ca", PasswordHash: hash}, model.LoginRequest{Email: "admin@plik.ca", Password: "nope"}},
		{"wrong email", Config{Email: "admin@plik.ca", PasswordHash: hash}, model.LoginRequest{Email: "eve@plik.ca", Password: "s3cret!"}},
		{"no admin configured", Config{}, model.LoginRequest{Email: "admin@plik.ca", Password: "s3cret!"}},
		{"empty body", Config{Email: "admin@plik.ca", PasswordHash: hash}, model.LoginRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAdminService(tt.cfg, m).Login(context.Background(), tt.req)
			assert.ErrorIs(t, err, model.ErrInvalidCredentials)
		})
	}
}

func TestLogin_TokenFailure(t *testing.T) {
	svc := NewAdminService(Config{Email: "admin@plik.ca", PasswordHash: hashed(t, "pw")}, failingTokens{})

	_, err := svc.Login(context.Background(), model.LoginRequest{Email: "admin@plik.ca", Password: "pw"})
	assert.ErrorIs(t, err, model.ErrTokenIssue)
}
