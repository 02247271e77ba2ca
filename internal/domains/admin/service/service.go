package service

import (
	"context"
	"crypto/subtle"
	"time"

	"golang.org/x/crypto/bcrypt"

	"plik-backend/internal/domains/admin/model"
	"plik-backend/pkg/jwt"
	"plik-backend/pkg/logger"
)

type ServiceInterface interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID, email, role string) (string, error)
	TTL() time.Duration
}

// Config is the single admin account.
type Config struct {
	Email        string
	PasswordHash string
}

// dummyHash keeps the bcrypt cost paid on unknown emails.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("plik-admin-placeholder"), bcrypt.DefaultCost)

type adminService struct {
	cfg    Config
	tokens TokenIssuer
}

func NewAdminService(cfg Config, tokens TokenIssuer) ServiceInterface {
	return &adminService{
		cfg:    cfg,
		tokens: tokens,
	}
}

func (s *adminService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	// Step 1: Validate
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	// Step 2: Check credentials
	emailOK := s.cfg.Email != "" &&
		subtle.ConstantTimeCompare([]byte(req.Email), []byte(s.cfg.Email)) == 1

	hash := []byte(s.cfg.PasswordHash)
	if !emailOK || len(hash) == 0 {
		hash = dummyHash
	}
	passwordErr := bcrypt.CompareHashAndPassword(hash, []byte(req.Password))

	if !emailOK || s.cfg.PasswordHash == "" || passwordErr != nil {
		logger.Warn("admin login rejected", map[string]interface{}{
			"email": req.Email,
		})
		return nil, model.NewInvalidCredentialsError()
	}

	// Step 3: Issue token
	token, err := s.tokens.GenerateAccessToken(s.cfg.Email, s.cfg.Email, jwt.RoleAdmin)
	if err != nil {
		return nil, model.NewTokenIssueError(err)
	}

	logger.Info("admin logged in", map[string]interface{}{
		"email": s.cfg.Email,
	})

	return &model.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.tokens.TTL() / time.Second),
	}, nil
}
