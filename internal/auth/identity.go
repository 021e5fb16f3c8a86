package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rag-chat-service/internal/domain"
)

const identityKey = "auth_identity"

// Identity is the per-request caller identity derived from a valid access
// token. It lives in request-scoped state and is never persisted.
type Identity struct {
	UserID   string
	Email    string
	Role     domain.Role
	TenantID *string
}

// IdentityFromClaims builds an Identity from a validated access claim set.
func IdentityFromClaims(claims *Claims) *Identity {
	return &Identity{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Role:     claims.Role,
		TenantID: claims.TenantID,
	}
}

// SetIdentity attaches the identity to the request.
func SetIdentity(c *fiber.Ctx, identity *Identity) {
	c.Locals(identityKey, identity)
}

// IdentityFromContext retrieves the authenticated caller, if any.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok && identity != nil
}

// CanAccessTenant reports whether the identity may touch data owned by the
// target tenant. Superadmins pass for every tenant id, including nonexistent
// ones; the check is purely claim-based.
func (i *Identity) CanAccessTenant(targetTenantID string) bool {
	if i.Role == domain.RoleSuperadmin {
		return true
	}
	return i.TenantID != nil && *i.TenantID == targetTenantID
}

// CanAccessResource reports whether the identity may touch a resource owned
// by another user. Superadmins always pass.
func (i *Identity) CanAccessResource(ownerUserID string) bool {
	if i.Role == domain.RoleSuperadmin {
		return true
	}
	return i.UserID == ownerUserID
}
