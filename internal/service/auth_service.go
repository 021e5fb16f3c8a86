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

// TokenPair bundles the two tokens issued on login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// AuthService coordinates credential checks, token issuance and user creation.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenService
	hasher     *auth.PasswordHasher
	dispatcher events.Dispatcher
}

// NewAuthService builds the service with explicit dependencies.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, hasher *auth.PasswordHasher, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{users: users, tokens: tokens, hasher: hasher, dispatcher: dispatcher}
}

// Authenticate checks credentials and updates last-login on success. The
// failure is uniform: callers cannot tell an unknown email from a wrong
// password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.MapError(err)
	}

	if user.PasswordHash == "" || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.NewInvalidCredentials()
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, apperrors.MapError(err)
	}
	user.LastLogin = &now

	s.publish(ctx, events.EventUserLoggedIn, user.ID, user.TenantID, events.UserLoggedInPayload{
		UserID: user.ID,
		Email:  user.Email,
	})

	return user, nil
}

// CreateTokens issues an access/refresh pair for the user. The embedded role
// and tenant are a snapshot; later role changes do not affect issued tokens
// until they expire.
func (s *AuthService) CreateTokens(user *domain.User) (*TokenPair, error) {
	accessToken, err := s.tokens.IssueAccess(user.ID, user.Email, user.Role, user.TenantID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	refreshToken, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// Refresh validates a refresh token and rotates the pair. The user is
// re-fetched so tokens do not survive a deleted account, and the new access
// token reflects the user's current role and tenant.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Validate(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperrors.NewTokenExpired()
		}
		return nil, apperrors.NewInvalidToken()
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidToken()
		}
		return nil, apperrors.MapError(err)
	}

	return s.CreateTokens(user)
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// CreateUserWithPassword enforces password strength and email uniqueness,
// then persists the user with a hashed password. The role/tenant combination
// is the caller's responsibility.
func (s *AuthService) CreateUserWithPassword(ctx context.Context, email, password, name string, role domain.Role, tenantID *string) (*domain.User, error) {
	if ok, reason := s.hasher.ValidateStrength(password); !ok {
		return nil, apperrors.NewValidationError(reason, nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("user with this email already exists", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		Role:         role,
		TenantID:     tenantID,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventUserCreated, user.ID, user.TenantID, events.UserCreatedPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})

	return user, nil
}

// Logout is a no-op: tokens are stateless and there is no server-side
// revocation list. Clients discard their tokens.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, actorID string, tenantID *string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		TenantID:  tenantID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
