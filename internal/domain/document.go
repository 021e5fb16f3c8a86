package domain

import "time"

// DocumentStatus enumerates processing lifecycle states.
type DocumentStatus string

const (
	DocumentStatusUploaded   DocumentStatus = "uploaded"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusProcessed  DocumentStatus = "processed"
	DocumentStatusError      DocumentStatus = "error"
)

// UploadStatus tracks a multi-file upload batch. It is transient progress
// state scoped to the owning tenant; cross-tenant reads are rejected at the
// HTTP boundary.
type UploadStatus struct {
	UploadID    string   `json:"upload_id"`
	TenantID    string   `json:"tenant_id"`
	Status      string   `json:"status"`
	DocumentIDs []string `json:"document_ids"`
	UpdatedAt   string   `json:"updated_at"`
}

// Document records upload bookkeeping for a tenant file. The service tracks
// metadata only; file bytes live in external object storage.
type Document struct {
	ID           string
	Filename     string
	OriginalName string
	Size         int64
	MimeType     string
	Status       DocumentStatus
	ProcessedAt  *time.Time
	Error        *string
	TenantID     string
	UserID       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
