package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/rag-chat-service/internal/domain"
)

// DocumentRepository defines persistence access for document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByTenant(ctx context.Context, tenantID string, offset, limit int) ([]*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMsg *string) error
	Delete(ctx context.Context, id string) error
}

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository returns a Postgres-backed implementation.
func NewDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepository{pool: pool}
}

const documentColumns = `id, filename, original_name, size, mime_type, status,
        processed_at, error, tenant_id, user_id, created_at, updated_at`

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	if err := row.Scan(
		&doc.ID,
		&doc.Filename,
		&doc.OriginalName,
		&doc.Size,
		&doc.MimeType,
		&doc.Status,
		&doc.ProcessedAt,
		&doc.Error,
		&doc.TenantID,
		&doc.UserID,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	const query = `
        INSERT INTO documents (filename, original_name, size, mime_type, status, tenant_id, user_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		doc.Filename,
		doc.OriginalName,
		doc.Size,
		doc.MimeType,
		doc.Status,
		doc.TenantID,
		doc.UserID,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	const query = `SELECT ` + documentColumns + ` FROM documents WHERE id=$1`
	return scanDocument(r.pool.QueryRow(ctx, query, id))
}

func (r *documentRepository) ListByTenant(ctx context.Context, tenantID string, offset, limit int) ([]*domain.Document, error) {
	const query = `SELECT ` + documentColumns + ` FROM documents
        WHERE tenant_id=$1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`

	rows, err := r.pool.Query(ctx, query, tenantID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *documentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMsg *string) error {
	const query = `
        UPDATE documents SET status=$1, error=$2,
            processed_at=CASE WHEN $1='processed' THEN NOW() ELSE processed_at END,
            updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, status, errMsg, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
