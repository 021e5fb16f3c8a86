package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/rag-chat-service/internal/auth"
	"github.com/spec-kit/rag-chat-service/internal/domain"
	"github.com/spec-kit/rag-chat-service/internal/events"
	apperrors "github.com/spec-kit/rag-chat-service/pkg/util"
)

// fakeUserRepo is an in-memory UserRepository used to exercise the service
// without a database.
type fakeUserRepo struct {
	byID map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	user, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.LastLogin = &at
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.byID {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListByTenant(_ context.Context, tenantID string, _, _ int) ([]*domain.User, error) {
	var out []*domain.User
	for _, user := range r.byID {
		if user.TenantID != nil && *user.TenantID == tenantID {
			clone := *user
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func newTestAuthService(repo *fakeUserRepo) *AuthService {
	tokens := auth.NewTokenService("test-secret", time.Hour, 30*24*time.Hour)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost, 8)
	return NewAuthService(repo, tokens, hasher, events.NewInMemoryDispatcher())
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).Code
}

func TestAuthenticateAndIssueTokens(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	tenantID := "tenant-1"
	created, err := svc.CreateUserWithPassword(ctx, "alice@acme.com", "SecurePass1", "Alice", domain.RoleTenantAdmin, &tenantID)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.NotEqual(t, "SecurePass1", created.PasswordHash)

	user, err := svc.Authenticate(ctx, "alice@acme.com", "SecurePass1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	require.NotNil(t, user.LastLogin)

	pair, err := svc.CreateTokens(user)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := svc.tokens.Validate(pair.AccessToken, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, domain.RoleTenantAdmin, claims.Role)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, "tenant-1", *claims.TenantID)
}

func TestAuthenticateFailureIsUniform(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	tenantID := "tenant-1"
	_, err := svc.CreateUserWithPassword(ctx, "alice@acme.com", "SecurePass1", "Alice", domain.RoleUser, &tenantID)
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(ctx, "alice@acme.com", "WrongPass1")
	_, unknownEmail := svc.Authenticate(ctx, "nobody@acme.com", "SecurePass1")

	assert.Equal(t, "INVALID_CREDENTIALS", errCode(t, wrongPassword))
	assert.Equal(t, "INVALID_CREDENTIALS", errCode(t, unknownEmail))
	// Identical messages: the response must not reveal which part failed.
	assert.Equal(t,
		apperrors.ToDomainError(wrongPassword).Message,
		apperrors.ToDomainError(unknownEmail).Message,
	)
}

func TestCreateUserRejectsWeakPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(newFakeUserRepo())
	tenantID := "tenant-1"

	_, err := svc.CreateUserWithPassword(ctx, "bob@acme.com", "short1", "Bob", domain.RoleUser, &tenantID)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
	assert.Equal(t, "password must be at least 8 characters long", apperrors.ToDomainError(err).Message)

	_, err = svc.CreateUserWithPassword(ctx, "bob@acme.com", "alllowercase1", "Bob", domain.RoleUser, &tenantID)
	require.Error(t, err)
	assert.Equal(t, "password must contain at least one uppercase letter", apperrors.ToDomainError(err).Message)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(newFakeUserRepo())
	tenantID := "tenant-1"

	_, err := svc.CreateUserWithPassword(ctx, "alice@acme.com", "SecurePass1", "Alice", domain.RoleUser, &tenantID)
	require.NoError(t, err)

	_, err = svc.CreateUserWithPassword(ctx, "alice@acme.com", "OtherPass1", "Alice Again", domain.RoleUser, &tenantID)
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestRefreshRotatesAndReflectsCurrentRole(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	tenantID := "tenant-1"
	user, err := svc.CreateUserWithPassword(ctx, "alice@acme.com", "SecurePass1", "Alice", domain.RoleUser, &tenantID)
	require.NoError(t, err)

	pair, err := svc.CreateTokens(user)
	require.NoError(t, err)

	// Role changes between issuance and refresh.
	stored := repo.byID[user.ID]
	stored.Role = domain.RoleTenantAdmin

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEmpty(t, rotated.RefreshToken)

	claims, err := svc.tokens.Validate(rotated.AccessToken, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTenantAdmin, claims.Role)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	tenantID := "tenant-1"
	user, err := svc.CreateUserWithPassword(ctx, "alice@acme.com", "SecurePass1", "Alice", domain.RoleUser, &tenantID)
	require.NoError(t, err)

	pair, err := svc.CreateTokens(user)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.Equal(t, "INVALID_TOKEN", errCode(t, err))
}

func TestRefreshRejectsDeletedUser(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	tenantID := "tenant-1"
	user, err := svc.CreateUserWithPassword(ctx, "alice@acme.com", "SecurePass1", "Alice", domain.RoleUser, &tenantID)
	require.NoError(t, err)

	pair, err := svc.CreateTokens(user)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, "INVALID_TOKEN", errCode(t, err))
}

func TestCreateUserPublishesEvent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	tokens := auth.NewTokenService("test-secret", time.Hour, time.Hour)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost, 8)
	dispatcher := events.NewInMemoryDispatcher()

	var seen []events.Event
	dispatcher.Subscribe(events.EventUserCreated, func(_ context.Context, event events.Event) error {
		seen = append(seen, event)
		return nil
	})

	svc := NewAuthService(repo, tokens, hasher, dispatcher)
	tenantID := "tenant-1"
	user, err := svc.CreateUserWithPassword(ctx, "alice@acme.com", "SecurePass1", "Alice", domain.RoleUser, &tenantID)
	require.NoError(t, err)

	require.Len(t, seen, 1)
	payload, ok := seen[0].Payload.(events.UserCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, user.ID, payload.UserID)
	assert.Equal(t, "alice@acme.com", payload.Email)
}
