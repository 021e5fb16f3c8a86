package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rag-chat-service/internal/api/dto"
	"github.com/spec-kit/rag-chat-service/internal/auth"
	"github.com/spec-kit/rag-chat-service/internal/domain"
	"github.com/spec-kit/rag-chat-service/internal/service"
	apperrors "github.com/spec-kit/rag-chat-service/pkg/util"
)

// UsersHandler exposes tenant-scoped user administration.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /api/v1/tenants/:tenantId/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	offset, limit := pagination(c)
	users, err := h.users.ListUsers(c.Context(), c.Params("tenantId"), offset, limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse{
		Data:    dto.NewUserResponses(users),
		Message: "users retrieved",
	})
}

// Create handles POST /api/v1/tenants/:tenantId/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return apperrors.NewValidationError("email, name and password required", nil)
	}
	role := domain.Role(req.Role)
	if req.Role == "" {
		role = domain.RoleUser
	}

	user, err := h.users.CreateUser(c.Context(), c.Params("tenantId"), req.Email, req.Password, req.Name, role)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.DataResponse{
		Data:    dto.NewUserResponse(user),
		Message: "user created",
	})
}

// Get handles GET /api/v1/tenants/:tenantId/users/:userId. The user must
// belong to the tenant named in the path.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.userInTenant(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse{
		Data:    dto.NewUserResponse(user),
		Message: "user retrieved",
	})
}

// Update handles PUT /api/v1/tenants/:tenantId/users/:userId.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	if _, err := h.userInTenant(c); err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.UpdateUserInput{Name: req.Name}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.users.UpdateUser(c.Context(), c.Params("userId"), input)
	if err != nil {
		return err
	}

	return c.JSON(dto.DataResponse{
		Data:    dto.NewUserResponse(user),
		Message: "user updated",
	})
}

// Delete handles DELETE /api/v1/tenants/:tenantId/users/:userId. Callers
// cannot delete themselves.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	user, err := h.userInTenant(c)
	if err != nil {
		return err
	}

	if identity, ok := auth.IdentityFromContext(c); ok && identity.UserID == user.ID {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}

	if err := h.users.DeleteUser(c.Context(), user.ID); err != nil {
		return err
	}

	return c.JSON(dto.DataResponse{
		Data:    fiber.Map{},
		Message: "user deleted",
	})
}

// userInTenant loads the addressed user and verifies it belongs to the
// tenant in the path. A user from another tenant reads as not found so the
// endpoint leaks nothing across tenants.
func (h *UsersHandler) userInTenant(c *fiber.Ctx) (*domain.User, error) {
	user, err := h.users.GetUser(c.Context(), c.Params("userId"))
	if err != nil {
		return nil, err
	}
	if user.TenantID == nil || *user.TenantID != c.Params("tenantId") {
		return nil, apperrors.NewNotFound("user", nil)
	}
	return user, nil
}
