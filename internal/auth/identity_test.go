package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/rag-chat-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestCanAccessTenant(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		target   string
		allowed  bool
	}{
		{"own tenant", Identity{Role: domain.RoleUser, TenantID: strPtr("t1")}, "t1", true},
		{"other tenant", Identity{Role: domain.RoleUser, TenantID: strPtr("t1")}, "t2", false},
		{"tenant admin own tenant", Identity{Role: domain.RoleTenantAdmin, TenantID: strPtr("t1")}, "t1", true},
		{"tenant admin other tenant", Identity{Role: domain.RoleTenantAdmin, TenantID: strPtr("t1")}, "t2", false},
		{"superadmin any tenant", Identity{Role: domain.RoleSuperadmin}, "t2", true},
		{"superadmin nonexistent tenant", Identity{Role: domain.RoleSuperadmin}, "no-such-tenant", true},
		{"no tenant bound", Identity{Role: domain.RoleUser}, "t1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.identity.CanAccessTenant(tt.target))
		})
	}
}

func TestCanAccessResource(t *testing.T) {
	owner := Identity{UserID: "u1", Role: domain.RoleUser}
	assert.True(t, owner.CanAccessResource("u1"))
	assert.False(t, owner.CanAccessResource("u2"))

	// Tenant admins get no blanket ownership override.
	admin := Identity{UserID: "u1", Role: domain.RoleTenantAdmin}
	assert.False(t, admin.CanAccessResource("u2"))

	super := Identity{UserID: "u1", Role: domain.RoleSuperadmin}
	assert.True(t, super.CanAccessResource("u2"))
}

func TestRoleHierarchy(t *testing.T) {
	assert.True(t, domain.RoleSuperadmin.AtLeast(domain.RoleUser))
	assert.True(t, domain.RoleSuperadmin.AtLeast(domain.RoleTenantAdmin))
	assert.True(t, domain.RoleTenantAdmin.AtLeast(domain.RoleUser))
	assert.True(t, domain.RoleUser.AtLeast(domain.RoleUser))

	assert.False(t, domain.RoleUser.AtLeast(domain.RoleTenantAdmin))
	assert.False(t, domain.RoleTenantAdmin.AtLeast(domain.RoleSuperadmin))

	// Unknown roles rank below every valid role.
	assert.False(t, domain.Role("ghost").AtLeast(domain.RoleUser))
}
