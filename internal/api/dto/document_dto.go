package dto

import (
	"time"

	"github.com/spec-kit/rag-chat-service/internal/domain"
)

// DocumentResponse is the wire shape of a document record.
type DocumentResponse struct {
	ID           string     `json:"id"`
	Filename     string     `json:"filename"`
	OriginalName string     `json:"original_name"`
	Size         int64      `json:"size"`
	MimeType     string     `json:"mime_type"`
	Status       string     `json:"status"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	Error        *string    `json:"error,omitempty"`
	TenantID     string     `json:"tenant_id"`
	UserID       string     `json:"user_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewDocumentResponse maps a domain document.
func NewDocumentResponse(doc *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:           doc.ID,
		Filename:     doc.Filename,
		OriginalName: doc.OriginalName,
		Size:         doc.Size,
		MimeType:     doc.MimeType,
		Status:       string(doc.Status),
		ProcessedAt:  doc.ProcessedAt,
		Error:        doc.Error,
		TenantID:     doc.TenantID,
		UserID:       doc.UserID,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

// RegisterUploadRequest payload for recording a completed upload.
type RegisterUploadRequest struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

// UpdateDocumentStatusRequest payload for processing lifecycle transitions.
type UpdateDocumentStatusRequest struct {
	Status string  `json:"status"`
	Error  *string `json:"error"`
}

// RegisterUploadsRequest payload for recording a multi-file upload batch.
type RegisterUploadsRequest struct {
	Files []RegisterUploadRequest `json:"files"`
}

// RegisterUploadsResponse returns the created records and the batch id used
// to poll upload status.
type RegisterUploadsResponse struct {
	UploadID  string             `json:"upload_id"`
	Documents []DocumentResponse `json:"documents"`
}

// UploadStatusResponse reports progress of a multi-file upload batch.
type UploadStatusResponse struct {
	UploadID    string   `json:"upload_id"`
	Status      string   `json:"status"`
	DocumentIDs []string `json:"document_ids"`
}
