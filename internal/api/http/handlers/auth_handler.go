package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rag-chat-service/internal/api/dto"
	"github.com/spec-kit/rag-chat-service/internal/auth"
	"github.com/spec-kit/rag-chat-service/internal/service"
	apperrors "github.com/spec-kit/rag-chat-service/pkg/util"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, err := h.auth.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	tokens, err := h.auth.CreateTokens(user)
	if err != nil {
		return err
	}

	return c.JSON(dto.DataResponse{
		Data: dto.LoginResponse{
			User: dto.NewUserResponse(user),
			Tokens: dto.TokenResponse{
				AccessToken:  tokens.AccessToken,
				RefreshToken: tokens.RefreshToken,
				ExpiresIn:    tokens.ExpiresIn,
			},
		},
		Message: "login successful",
	})
}

// Refresh handles POST /api/v1/auth/refresh. Both rotated tokens are
// returned; the old refresh token should be discarded by the client.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationError("refresh token required", nil)
	}

	tokens, err := h.auth.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(dto.DataResponse{
		Data: dto.TokenResponse{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			ExpiresIn:    tokens.ExpiresIn,
		},
		Message: "token refreshed",
	})
}

// Logout handles POST /api/v1/auth/logout. Stateless tokens make this a
// no-op; the client discards its tokens.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if _, ok := auth.IdentityFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	_ = h.auth.Logout(c.Context(), "")
	return c.Status(http.StatusOK).JSON(dto.DataResponse{
		Data:    fiber.Map{},
		Message: "logged out",
	})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, err := h.auth.GetUser(c.Context(), identity.UserID)
	if err != nil {
		return err
	}

	return c.JSON(dto.DataResponse{
		Data:    dto.NewUserResponse(user),
		Message: "user retrieved",
	})
}
