package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rag-chat-service/internal/api/dto"
	"github.com/spec-kit/rag-chat-service/internal/domain"
	"github.com/spec-kit/rag-chat-service/internal/service"
	apperrors "github.com/spec-kit/rag-chat-service/pkg/util"
)

// TenantsHandler exposes tenant administration endpoints. Lifecycle routes
// are guarded superadmin-only by the router; tenant admins may read and
// rename their own tenant.
type TenantsHandler struct {
	tenants *service.TenantService
}

// NewTenantsHandler constructs the handler.
func NewTenantsHandler(tenantService *service.TenantService) *TenantsHandler {
	return &TenantsHandler{tenants: tenantService}
}

// List handles GET /api/v1/tenants.
func (h *TenantsHandler) List(c *fiber.Ctx) error {
	offset, limit := pagination(c)

	tenants, err := h.tenants.ListTenants(c.Context(), offset, limit)
	if err != nil {
		return err
	}

	responses := make([]dto.TenantResponse, 0, len(tenants))
	for _, tenant := range tenants {
		stats, err := h.tenants.TenantStats(c.Context(), tenant.ID)
		if err != nil {
			return err
		}
		responses = append(responses, dto.NewTenantResponse(tenant, stats))
	}

	return c.JSON(dto.DataResponse{Data: responses, Message: "tenants retrieved"})
}

// Create handles POST /api/v1/tenants.
func (h *TenantsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Slug == "" || req.AdminEmail == "" || req.AdminPassword == "" {
		return apperrors.NewValidationError("name, slug, admin_email, admin_password required", nil)
	}

	tenant, _, err := h.tenants.CreateTenant(c.Context(), service.CreateTenantInput{
		Name:          req.Name,
		Slug:          req.Slug,
		AdminEmail:    req.AdminEmail,
		AdminName:     req.AdminName,
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		return err
	}

	// A new tenant has exactly its admin user and no documents.
	return c.Status(http.StatusCreated).JSON(dto.DataResponse{
		Data:    dto.NewTenantResponse(tenant, &domain.TenantStats{UserCount: 1}),
		Message: "tenant created",
	})
}

// Get handles GET /api/v1/tenants/:tenantId.
func (h *TenantsHandler) Get(c *fiber.Ctx) error {
	tenant, err := h.tenants.GetTenant(c.Context(), c.Params("tenantId"))
	if err != nil {
		return err
	}
	stats, err := h.tenants.TenantStats(c.Context(), tenant.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse{Data: dto.NewTenantResponse(tenant, stats), Message: "tenant retrieved"})
}

// Update handles PUT /api/v1/tenants/:tenantId.
func (h *TenantsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	tenant, err := h.tenants.UpdateTenant(c.Context(), c.Params("tenantId"), service.UpdateTenantInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		return err
	}
	stats, err := h.tenants.TenantStats(c.Context(), tenant.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse{Data: dto.NewTenantResponse(tenant, stats), Message: "tenant updated"})
}

// Delete handles DELETE /api/v1/tenants/:tenantId.
func (h *TenantsHandler) Delete(c *fiber.Ctx) error {
	if err := h.tenants.DeleteTenant(c.Context(), c.Params("tenantId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
