package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/secops-service/internal/auth"
	"github.com/spec-kit/secops-service/internal/domain"
	apperrors "github.com/spec-kit/secops-service/pkg/util"
)

// ErrLoginFailed is surfaced for every rejected login.
var ErrLoginFailed = errors.New("invalid username or password")

// LoginResult is a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  domain.Identity
}

// AuthService coordinates credential checks and token issuance.
type AuthService struct {
	verifier *auth.CredentialVerifier
	tokens   *auth.TokenManager
	deps     Dependencies
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(verifier *auth.CredentialVerifier, tokens *auth.TokenManager, deps Dependencies) *AuthService {
	return &AuthService{verifier: verifier, tokens: tokens, deps: deps, logger: deps.logger()}
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	identity, err := s.verifier.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, ErrLoginFailed
		}
		return nil, apperrors.NewInternalError(err)
	}

	token, expiresAt, err := s.tokens.Issue(*identity)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	appendActivity(ctx, s.deps, s.logger, &domain.Activity{
		ActorID:      identity.ID,
		ActivityType: domain.ActivityLogin,
		EntityType:   domain.EntityAccount,
		EntityID:     identity.ID,
		Description:  identity.DisplayName() + " signed in",
	})
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Identity: *identity}, nil
}
