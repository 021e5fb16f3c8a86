package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/rag-chat-service/internal/domain"
)

// TokenType discriminates access from refresh tokens. A refresh token is
// never accepted where an access token is required, and vice versa.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	// ErrInvalidToken covers malformed tokens, bad signatures and type mismatches.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when validation fails purely due to expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims describes the signed JWT payload. Refresh tokens carry only the
// subject; access tokens also embed email, role and tenant.
type Claims struct {
	Email     string          `json:"email,omitempty"`
	Role      domain.Role     `json:"role,omitempty"`
	TenantID  *string         `json:"tenant_id,omitempty"`
	TokenType TokenType       `json:"type"`
	jwt.RegisteredClaims
}

// TokenService issues and validates signed tokens. Tokens have no mutable
// state after issuance; validity is a pure function of signature, expiry and
// type.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService builds a service signing with the given secret.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 60 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// AccessTTL returns the configured access token lifetime.
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

// IssueAccess signs an access token embedding the user's identity snapshot.
// The role and tenant are only as fresh as the moment of issuance.
func (s *TokenService) IssueAccess(userID, email string, role domain.Role, tenantID *string) (string, error) {
	now := s.now()
	claims := &Claims{
		Email:     email,
		Role:      role,
		TenantID:  tenantID,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// IssueRefresh signs a refresh token carrying only the subject, so it cannot
// be mistaken for an authorization credential.
func (s *TokenService) IssueRefresh(userID string) (string, error) {
	now := s.now()
	claims := &Claims{
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate verifies signature and expiry, then checks the token type matches.
// Callers map the returned error to an authentication failure at the boundary.
func (s *TokenService) Validate(tokenStr string, expected TokenType) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expected {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
