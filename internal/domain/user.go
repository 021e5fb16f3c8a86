package domain

import "time"

// Role enumerates user roles, totally ordered for hierarchy checks.
type Role string

const (
	RoleUser        Role = "user"
	RoleTenantAdmin Role = "tenant_admin"
	RoleSuperadmin  Role = "superadmin"
)

var roleRank = map[Role]int{
	RoleUser:        0,
	RoleTenantAdmin: 1,
	RoleSuperadmin:  2,
}

// Rank returns the position of the role in the hierarchy. Unknown roles rank
// lowest.
func (r Role) Rank() int {
	rank, ok := roleRank[r]
	if !ok {
		return -1
	}
	return rank
}

// AtLeast reports whether the role meets or exceeds the minimum role.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// User is the domain model for accounts across all tenants.
// TenantID is nil for superadmins and set for every other role.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	TenantID     *string
	PasswordHash string
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
