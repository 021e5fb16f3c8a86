package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/rag-chat-service/internal/auth"
	"github.com/spec-kit/rag-chat-service/internal/domain"
	"github.com/spec-kit/rag-chat-service/internal/events"
	"github.com/spec-kit/rag-chat-service/internal/repository"
	apperrors "github.com/spec-kit/rag-chat-service/pkg/util"
)

// TenantService manages tenants and their admin accounts.
type TenantService struct {
	tenants    repository.TenantRepository
	hasher     *auth.PasswordHasher
	dispatcher events.Dispatcher
}

// NewTenantService builds the service.
func NewTenantService(tenants repository.TenantRepository, hasher *auth.PasswordHasher, dispatcher events.Dispatcher) *TenantService {
	return &TenantService{tenants: tenants, hasher: hasher, dispatcher: dispatcher}
}

// CreateTenantInput carries tenant creation data including its admin user.
type CreateTenantInput struct {
	Name          string
	Slug          string
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

// CreateTenant creates a tenant together with its tenant_admin user in one
// transaction, so a tenant never exists without an administrator.
func (s *TenantService) CreateTenant(ctx context.Context, input CreateTenantInput) (*domain.Tenant, *domain.User, error) {
	if _, err := s.tenants.GetBySlug(ctx, input.Slug); err == nil {
		return nil, nil, apperrors.NewConflict("tenant with this slug already exists", map[string]any{"slug": input.Slug})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperrors.MapError(err)
	}

	if ok, reason := s.hasher.ValidateStrength(input.AdminPassword); !ok {
		return nil, nil, apperrors.NewValidationError(reason, nil)
	}
	hash, err := s.hasher.Hash(input.AdminPassword)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}

	tenant := &domain.Tenant{Name: input.Name, Slug: input.Slug}
	admin := &domain.User{
		Email:        input.AdminEmail,
		Name:         input.AdminName,
		Role:         domain.RoleTenantAdmin,
		PasswordHash: hash,
	}

	if err := s.tenants.CreateWithAdmin(ctx, tenant, admin); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTenantCreated,
			ActorID:   admin.ID,
			TenantID:  &tenant.ID,
			Timestamp: time.Now().UTC(),
			Payload: events.TenantCreatedPayload{
				TenantID: tenant.ID,
				Slug:     tenant.Slug,
				AdminID:  admin.ID,
			},
		})
	}

	return tenant, admin, nil
}

// GetTenant loads a tenant by id.
func (s *TenantService) GetTenant(ctx context.Context, id string) (*domain.Tenant, error) {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("tenant", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return tenant, nil
}

// ListTenants returns tenants page by page.
func (s *TenantService) ListTenants(ctx context.Context, offset, limit int) ([]*domain.Tenant, error) {
	tenants, err := s.tenants.List(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tenants, nil
}

// UpdateTenantInput carries optional tenant updates.
type UpdateTenantInput struct {
	Name *string
	Slug *string
}

// UpdateTenant updates name and slug, enforcing slug uniqueness.
func (s *TenantService) UpdateTenant(ctx context.Context, id string, input UpdateTenantInput) (*domain.Tenant, error) {
	tenant, err := s.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Slug != nil && *input.Slug != tenant.Slug {
		if _, err := s.tenants.GetBySlug(ctx, *input.Slug); err == nil {
			return nil, apperrors.NewConflict("tenant with this slug already exists", map[string]any{"slug": *input.Slug})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		tenant.Slug = *input.Slug
	}
	if input.Name != nil {
		tenant.Name = *input.Name
	}

	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, apperrors.MapError(err)
	}
	return tenant, nil
}

// DeleteTenant removes the tenant and all data it owns.
func (s *TenantService) DeleteTenant(ctx context.Context, id string) error {
	if err := s.tenants.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("tenant", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// TenantStats returns user and document counts for a tenant.
func (s *TenantService) TenantStats(ctx context.Context, id string) (*domain.TenantStats, error) {
	stats, err := s.tenants.Stats(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}
