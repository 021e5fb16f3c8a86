package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/rag-chat-service/internal/auth"
	"github.com/spec-kit/rag-chat-service/internal/domain"
	apperrors "github.com/spec-kit/rag-chat-service/pkg/util"
)

// fakeTenantRepo is an in-memory TenantRepository. createErr lets tests
// inject constraint violations the database would raise.
type fakeTenantRepo struct {
	tenants   map[string]*domain.Tenant
	createErr error
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: make(map[string]*domain.Tenant)}
}

func (r *fakeTenantRepo) CreateWithAdmin(_ context.Context, tenant *domain.Tenant, admin *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	tenant.ID = uuid.NewString()
	tenant.CreatedAt = time.Now().UTC()
	tenant.UpdatedAt = tenant.CreatedAt
	admin.ID = uuid.NewString()
	admin.TenantID = &tenant.ID
	clone := *tenant
	r.tenants[tenant.ID] = &clone
	return nil
}

func (r *fakeTenantRepo) GetByID(_ context.Context, id string) (*domain.Tenant, error) {
	tenant, ok := r.tenants[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *tenant
	return &clone, nil
}

func (r *fakeTenantRepo) GetBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	for _, tenant := range r.tenants {
		if tenant.Slug == slug {
			clone := *tenant
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTenantRepo) List(_ context.Context, _, _ int) ([]*domain.Tenant, error) {
	var out []*domain.Tenant
	for _, tenant := range r.tenants {
		clone := *tenant
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeTenantRepo) Update(_ context.Context, tenant *domain.Tenant) error {
	if _, ok := r.tenants[tenant.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *tenant
	r.tenants[tenant.ID] = &clone
	return nil
}

func (r *fakeTenantRepo) DeleteCascade(_ context.Context, id string) error {
	if _, ok := r.tenants[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tenants, id)
	return nil
}

func (r *fakeTenantRepo) Stats(_ context.Context, _ string) (*domain.TenantStats, error) {
	return &domain.TenantStats{}, nil
}

func newTestTenantService(repo *fakeTenantRepo) *TenantService {
	hasher := auth.NewPasswordHasher(bcrypt.MinCost, 8)
	return NewTenantService(repo, hasher, nil)
}

func validTenantInput() CreateTenantInput {
	return CreateTenantInput{
		Name:          "Acme Corp",
		Slug:          "acme",
		AdminEmail:    "admin@acme.com",
		AdminName:     "Acme Admin",
		AdminPassword: "SecurePass1",
	}
}

func TestCreateTenantWithAdmin(t *testing.T) {
	ctx := context.Background()
	svc := newTestTenantService(newFakeTenantRepo())

	tenant, admin, err := svc.CreateTenant(ctx, validTenantInput())
	require.NoError(t, err)
	assert.Equal(t, "acme", tenant.Slug)
	assert.Equal(t, domain.RoleTenantAdmin, admin.Role)
	require.NotNil(t, admin.TenantID)
	assert.Equal(t, tenant.ID, *admin.TenantID)
	assert.NotEqual(t, "SecurePass1", admin.PasswordHash)
}

func TestCreateTenantRejectsDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	svc := newTestTenantService(newFakeTenantRepo())

	_, _, err := svc.CreateTenant(ctx, validTenantInput())
	require.NoError(t, err)

	input := validTenantInput()
	input.AdminEmail = "other@acme.com"
	_, _, err = svc.CreateTenant(ctx, input)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestCreateTenantRejectsWeakAdminPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestTenantService(newFakeTenantRepo())

	input := validTenantInput()
	input.AdminPassword = "weak"
	_, _, err := svc.CreateTenant(ctx, input)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestCreateTenantMapsDuplicateAdminEmailToConflict(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTenantRepo()
	// The users.email unique index fires inside the creation transaction.
	repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	svc := newTestTenantService(repo)

	_, _, err := svc.CreateTenant(ctx, validTenantInput())
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.Equal(t, 409, domainErr.HTTPStatus)
	assert.Equal(t, "users_email_key", domainErr.Details["constraint"])
}
