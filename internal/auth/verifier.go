package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/secops-service/internal/config"
	"github.com/spec-kit/secops-service/internal/domain"
	"github.com/spec-kit/secops-service/internal/repository"
)

// ErrInvalidCredentials is the single failure returned for any mismatch.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialVerifier checks a username/password pair against the configured
// operator credential first and the stored accounts second.
type CredentialVerifier struct {
	operator config.OperatorConfig
	accounts repository.Collection[domain.Account]
	logger   *zap.Logger
}

// NewCredentialVerifier constructs a verifier. accounts may be nil to disable the secondary source.
func NewCredentialVerifier(operator config.OperatorConfig, accounts repository.Collection[domain.Account], logger *zap.Logger) *CredentialVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialVerifier{operator: operator, accounts: accounts, logger: logger}
}

// Verify returns the identity of the matching credential.
func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (*domain.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if v.matchesOperator(username, password) {
		identity := v.operatorIdentity()
		v.logger.Info("operator login", zap.String("username", identity.Username))
		return &identity, nil
	}

	if v.accounts == nil {
		return nil, ErrInvalidCredentials
	}
	accounts, err := v.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		account := &accounts[i]
		if !account.Active {
			continue
		}
		if !strings.EqualFold(account.Username, username) &&
			(account.Email == "" || !strings.EqualFold(account.Email, username)) {
			continue
		}
		if ComparePassword(account.PasswordHash, password) != nil {
			continue
		}
		identity := account.Identity()
		v.logger.Info("account login", zap.String("account_id", account.ID), zap.String("role", account.Role))
		return &identity, nil
	}

	v.logger.Debug("credential mismatch", zap.String("username", username))
	return nil, ErrInvalidCredentials
}

func (v *CredentialVerifier) matchesOperator(username, password string) bool {
	if v.operator.Username == "" || v.operator.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.operator.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.operator.Password)) == 1
	return userOK && passOK
}

func (v *CredentialVerifier) operatorIdentity() domain.Identity {
	role := v.operator.Role
	if role == "" {
		role = domain.RoleAdmin
	}
	return domain.Identity{
		ID:        v.operator.ID,
		Username:  v.operator.Username,
		Email:     v.operator.Email,
		FirstName: v.operator.FirstName,
		LastName:  v.operator.LastName,
		Role:      role,
	}
}
