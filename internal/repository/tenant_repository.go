package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/rag-chat-service/internal/domain"
)

// TenantRepository defines persistence access for tenants.
type TenantRepository interface {
	CreateWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Tenant, error)
	Update(ctx context.Context, tenant *domain.Tenant) error
	DeleteCascade(ctx context.Context, id string) error
	Stats(ctx context.Context, id string) (*domain.TenantStats, error)
}

type tenantRepository struct {
	pool *pgxpool.Pool
}

// NewTenantRepository returns a Postgres-backed implementation.
func NewTenantRepository(pool *pgxpool.Pool) TenantRepository {
	return &tenantRepository{pool: pool}
}

// CreateWithAdmin inserts the tenant and its admin user in one transaction so
// a tenant never exists without an administrator.
func (r *tenantRepository) CreateWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const tenantQuery = `
        INSERT INTO tenants (name, slug)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`

	if err := tx.QueryRow(ctx, tenantQuery, tenant.Name, tenant.Slug).
		Scan(&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt); err != nil {
		return err
	}

	admin.TenantID = &tenant.ID

	const userQuery = `
        INSERT INTO users (email, name, role, tenant_id, password_hash)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	if err := tx.QueryRow(ctx, userQuery,
		admin.Email,
		admin.Name,
		admin.Role,
		admin.TenantID,
		admin.PasswordHash,
	).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	const query = `SELECT id, name, slug, created_at, updated_at FROM tenants WHERE id=$1`
	return scanTenant(r.pool.QueryRow(ctx, query, id))
}

func (r *tenantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	const query = `SELECT id, name, slug, created_at, updated_at FROM tenants WHERE slug=$1`
	return scanTenant(r.pool.QueryRow(ctx, query, slug))
}

func (r *tenantRepository) List(ctx context.Context, offset, limit int) ([]*domain.Tenant, error) {
	const query = `SELECT id, name, slug, created_at, updated_at FROM tenants
        ORDER BY created_at DESC OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}

func (r *tenantRepository) Update(ctx context.Context, tenant *domain.Tenant) error {
	const query = `UPDATE tenants SET name=$1, slug=$2, updated_at=NOW() WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, tenant.Name, tenant.Slug, tenant.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteCascade removes the tenant and every row it owns. Messages and
// sessions fall out through the chats foreign keys.
func (r *tenantRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	statements := []string{
		`DELETE FROM messages WHERE session_id IN (
            SELECT s.id FROM sessions s JOIN chats c ON s.chat_id = c.id WHERE c.tenant_id=$1)`,
		`DELETE FROM sessions WHERE chat_id IN (SELECT id FROM chats WHERE tenant_id=$1)`,
		`DELETE FROM chats WHERE tenant_id=$1`,
		`DELETE FROM documents WHERE tenant_id=$1`,
		`DELETE FROM users WHERE tenant_id=$1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return err
		}
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM tenants WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

func (r *tenantRepository) Stats(ctx context.Context, id string) (*domain.TenantStats, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM users WHERE tenant_id=$1),
            (SELECT COUNT(*) FROM documents WHERE tenant_id=$1)`

	var stats domain.TenantStats
	if err := r.pool.QueryRow(ctx, query, id).Scan(&stats.UserCount, &stats.DocumentCount); err != nil {
		return nil, err
	}
	return &stats, nil
}

func scanTenant(row pgx.Row) (*domain.Tenant, error) {
	var tenant domain.Tenant
	if err := row.Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Slug,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tenant, nil
}
