package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/secops-service/internal/api/dto"
	"github.com/spec-kit/secops-service/internal/auth"
	"github.com/spec-kit/secops-service/internal/service"
	apperrors "github.com/spec-kit/secops-service/pkg/util"
)

// AuthHandler serves login, status and logout.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	result, err := h.service.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrLoginFailed) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.LoginFailure{
				Success: false,
				Message: err.Error(),
			})
		}
		return err
	}
	return c.JSON(dto.LoginResponse{
		Success:   true,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.NewUserResponse(result.Identity),
	})
}

// Status GET /api/auth/status. Runs behind the optional auth middleware.
func (h *AuthHandler) Status(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return c.JSON(dto.AuthStatusResponse{Authenticated: false})
	}
	user := dto.NewUserResponse(*identity)
	return c.JSON(dto.AuthStatusResponse{Authenticated: true, User: &user})
}

// Logout POST /api/auth/logout. Tokens are stateless; the client discards its copy.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{Success: true})
}
