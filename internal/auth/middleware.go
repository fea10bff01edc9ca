package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/secops-service/internal/domain"
	apperrors "github.com/spec-kit/secops-service/pkg/util"
)

const identityKey = "auth_identity"

// UnauthorizedMessage is returned for every authentication failure.
const UnauthorizedMessage = "authentication required"

// AuthMiddleware validates bearer tokens and attaches identities.
type AuthMiddleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	identity, err := m.identify(c)
	if err != nil {
		m.logger.Debug("authentication rejected",
			zap.String("path", c.Path()),
			zap.String("reason", err.Error()))
		return apperrors.NewUnauthorized(UnauthorizedMessage)
	}
	c.Locals(identityKey, identity)
	return c.Next()
}

// Optional attaches the identity when a valid token is present and never rejects.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	if identity, err := m.identify(c); err == nil {
		c.Locals(identityKey, identity)
	}
	return c.Next()
}

func (m *AuthMiddleware) identify(c *fiber.Ctx) (*domain.Identity, error) {
	token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return nil, err
	}
	claims, err := m.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	return claims.Identity(), nil
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errMalformedHeader
	}
	return strings.TrimSpace(parts[1]), nil
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}
