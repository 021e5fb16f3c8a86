package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/rag-chat-service/internal/domain"
	"github.com/spec-kit/rag-chat-service/internal/repository"
	apperrors "github.com/spec-kit/rag-chat-service/pkg/util"
)

const uploadStatusTTL = 24 * time.Hour

// DocumentService manages document upload bookkeeping. File bytes live in
// external object storage; this service records metadata only.
type DocumentService struct {
	documents repository.DocumentRepository
	statuses  repository.UploadStatusRepository
}

// NewDocumentService builds the service.
func NewDocumentService(documents repository.DocumentRepository, statuses repository.UploadStatusRepository) *DocumentService {
	return &DocumentService{documents: documents, statuses: statuses}
}

// RegisterUpload records an uploaded document with a system-generated
// filename and status uploaded.
func (s *DocumentService) RegisterUpload(ctx context.Context, tenantID, userID, originalName, mimeType string, size int64) (*domain.Document, error) {
	if originalName == "" {
		return nil, apperrors.NewValidationError("file name is required", nil)
	}
	if size <= 0 {
		return nil, apperrors.NewValidationError("file size must be positive", nil)
	}

	doc := &domain.Document{
		Filename:     fmt.Sprintf("%s_%s", uuid.NewString(), originalName),
		OriginalName: originalName,
		Size:         size,
		MimeType:     mimeType,
		Status:       domain.DocumentStatusUploaded,
		TenantID:     tenantID,
		UserID:       userID,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, apperrors.MapError(err)
	}
	return doc, nil
}

// GetDocument loads a document by id.
func (s *DocumentService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("document", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return doc, nil
}

// ListDocuments returns the tenant's documents page by page.
func (s *DocumentService) ListDocuments(ctx context.Context, tenantID string, offset, limit int) ([]*domain.Document, error) {
	docs, err := s.documents.ListByTenant(ctx, tenantID, offset, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return docs, nil
}

// UpdateDocumentStatus advances a document through the processing lifecycle.
// The error message is only recorded for the error status, and a processed
// document does not move back to an in-flight state.
func (s *DocumentService) UpdateDocumentStatus(ctx context.Context, id string, status domain.DocumentStatus, errMsg *string) (*domain.Document, error) {
	if !validDocumentStatus(status) {
		return nil, apperrors.NewValidationError("unknown document status", map[string]any{"status": string(status)})
	}
	if errMsg != nil && status != domain.DocumentStatusError {
		return nil, apperrors.NewValidationError("error message only allowed with error status", nil)
	}

	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.DocumentStatusProcessed && status != domain.DocumentStatusProcessed {
		return nil, apperrors.NewConflict("document is already processed", nil)
	}

	if err := s.documents.UpdateStatus(ctx, id, status, errMsg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("document", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return s.GetDocument(ctx, id)
}

func validDocumentStatus(status domain.DocumentStatus) bool {
	switch status {
	case domain.DocumentStatusUploaded, domain.DocumentStatusProcessing,
		domain.DocumentStatusProcessed, domain.DocumentStatusError:
		return true
	}
	return false
}

// DeleteDocument removes document metadata.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	if err := s.documents.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("document", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// TrackUploadBatch stores progress for a multi-file upload under its owning
// tenant.
func (s *DocumentService) TrackUploadBatch(ctx context.Context, tenantID, uploadID string, documentIDs []string, status string) error {
	if s.statuses == nil {
		return nil
	}
	record := &domain.UploadStatus{
		UploadID:    uploadID,
		TenantID:    tenantID,
		Status:      status,
		DocumentIDs: documentIDs,
		UpdatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.statuses.Set(ctx, record, uploadStatusTTL); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// UploadBatchStatus returns progress for a multi-file upload. Callers must
// check the returned TenantID against the requester before exposing it.
func (s *DocumentService) UploadBatchStatus(ctx context.Context, uploadID string) (*domain.UploadStatus, error) {
	if s.statuses == nil {
		return nil, apperrors.NewNotFound("upload", nil)
	}
	status, err := s.statuses.Get(ctx, uploadID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NewNotFound("upload", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return status, nil
}
