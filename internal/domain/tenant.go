package domain

import "time"

// Tenant models an isolated customer organization.
type Tenant struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TenantStats aggregates per-tenant counts.
type TenantStats struct {
	UserCount     int64
	DocumentCount int64
}
