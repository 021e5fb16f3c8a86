package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rag-chat-service/internal/domain"
	apperrors "github.com/spec-kit/rag-chat-service/pkg/util"
)

// Guards fail closed: the middleware attaches identity best-effort, but an
// endpoint requiring identity rejects here when none was attached. Route
// guards compose with AND semantics.

// RequireRole ensures the caller is authenticated with at least the minimum
// role in the hierarchy user < tenant_admin < superadmin.
func RequireRole(min domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !identity.Role.AtLeast(min) {
			return apperrors.NewInsufficientRole(string(min))
		}
		return c.Next()
	}
}

// RequireTenantAccess ensures the caller may touch the tenant named by the
// route parameter. Superadmins pass for any tenant.
func RequireTenantAccess(tenantParam string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !identity.CanAccessTenant(c.Params(tenantParam)) {
			return apperrors.NewTenantAccessDenied()
		}
		return c.Next()
	}
}

// RequireResourceOwner ensures the caller owns the resource or is superadmin.
// Exposed as a plain predicate wrapper because ownership is usually known
// only after the handler loaded the resource.
func RequireResourceOwner(c *fiber.Ctx, ownerUserID string) error {
	identity, ok := IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !identity.CanAccessResource(ownerUserID) {
		return apperrors.NewResourceAccessDenied()
	}
	return nil
}

// CheckTenantAccess is the in-handler variant of RequireTenantAccess for
// resources whose owning tenant is known only after a lookup.
func CheckTenantAccess(c *fiber.Ctx, targetTenantID string) error {
	identity, ok := IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !identity.CanAccessTenant(targetTenantID) {
		return apperrors.NewTenantAccessDenied()
	}
	return nil
}
