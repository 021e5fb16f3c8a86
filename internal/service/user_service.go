package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/rag-chat-service/internal/domain"
	"github.com/spec-kit/rag-chat-service/internal/repository"
	apperrors "github.com/spec-kit/rag-chat-service/pkg/util"
)

// UserService manages tenant-scoped user administration. Creation with a
// password goes through AuthService so strength and uniqueness rules apply.
type UserService struct {
	users repository.UserRepository
	auth  *AuthService
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, authService *AuthService) *UserService {
	return &UserService{users: users, auth: authService}
}

// CreateUser creates a user inside the given tenant. Only user and
// tenant_admin roles may be created here; superadmins have no tenant.
func (s *UserService) CreateUser(ctx context.Context, tenantID string, email, password, name string, role domain.Role) (*domain.User, error) {
	if !role.Valid() || role == domain.RoleSuperadmin {
		return nil, apperrors.NewValidationError("role must be user or tenant_admin", nil)
	}
	return s.auth.CreateUserWithPassword(ctx, email, password, name, role, &tenantID)
}

// GetUser loads a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListUsers returns the tenant's users page by page.
func (s *UserService) ListUsers(ctx context.Context, tenantID string, offset, limit int) ([]*domain.User, error) {
	users, err := s.users.ListByTenant(ctx, tenantID, offset, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// UpdateUserInput carries optional user updates.
type UpdateUserInput struct {
	Name *string
	Role *domain.Role
}

// UpdateUser updates name and role. Promoting to superadmin is not allowed
// through tenant administration.
func (s *UserService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		if !input.Role.Valid() || *input.Role == domain.RoleSuperadmin {
			return nil, apperrors.NewValidationError("role must be user or tenant_admin", nil)
		}
		user.Role = *input.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}
