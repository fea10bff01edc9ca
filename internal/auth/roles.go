package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/secops-service/pkg/util"
)

var (
	errMissingHeader   = errors.New("missing authorization header")
	errMalformedHeader = errors.New("invalid authorization header")
)

// RequireRole ensures the identity has one of the allowed roles.
// It must run after AuthMiddleware.Handle.
func RequireRole(allowed ...string) fiber.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(UnauthorizedMessage)
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
