package dto

import (
	"time"

	"github.com/spec-kit/rag-chat-service/internal/domain"
)

// TenantResponse is the wire shape of a tenant.
type TenantResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	UserCount     int64     `json:"user_count"`
	DocumentCount int64     `json:"document_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewTenantResponse maps a domain tenant with optional stats.
func NewTenantResponse(tenant *domain.Tenant, stats *domain.TenantStats) TenantResponse {
	resp := TenantResponse{
		ID:        tenant.ID,
		Name:      tenant.Name,
		Slug:      tenant.Slug,
		CreatedAt: tenant.CreatedAt,
		UpdatedAt: tenant.UpdatedAt,
	}
	if stats != nil {
		resp.UserCount = stats.UserCount
		resp.DocumentCount = stats.DocumentCount
	}
	return resp
}

// CreateTenantRequest payload for tenant creation with its admin user.
type CreateTenantRequest struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	AdminEmail    string `json:"admin_email"`
	AdminName     string `json:"admin_name"`
	AdminPassword string `json:"admin_password"`
}

// UpdateTenantRequest payload for tenant updates.
type UpdateTenantRequest struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}
