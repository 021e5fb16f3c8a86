package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/rag-chat-service/internal/api/dto"
	"github.com/spec-kit/rag-chat-service/internal/auth"
	"github.com/spec-kit/rag-chat-service/internal/domain"
	"github.com/spec-kit/rag-chat-service/internal/service"
	apperrors "github.com/spec-kit/rag-chat-service/pkg/util"
)

// DocumentsHandler exposes document upload bookkeeping. Bytes live in object
// storage elsewhere; these endpoints record and query metadata.
type DocumentsHandler struct {
	documents *service.DocumentService
}

// NewDocumentsHandler constructs the handler.
func NewDocumentsHandler(documentService *service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{documents: documentService}
}

// List handles GET /api/v1/documents.
func (h *DocumentsHandler) List(c *fiber.Ctx) error {
	tenantID, err := callerTenant(c)
	if err != nil {
		return err
	}

	offset, limit := pagination(c)
	docs, err := h.documents.ListDocuments(c.Context(), tenantID, offset, limit)
	if err != nil {
		return err
	}

	responses := make([]dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, dto.NewDocumentResponse(doc))
	}

	return c.JSON(dto.DataResponse{
		Data:    responses,
		Message: "documents retrieved",
	})
}

// Register handles POST /api/v1/documents. One or more completed uploads are
// recorded, and a batch id is issued so clients can poll processing status.
func (h *DocumentsHandler) Register(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tenantID, err := callerTenant(c)
	if err != nil {
		return err
	}

	var req dto.RegisterUploadsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.Files) == 0 {
		return apperrors.NewValidationError("at least one file required", nil)
	}

	documents := make([]dto.DocumentResponse, 0, len(req.Files))
	documentIDs := make([]string, 0, len(req.Files))
	for _, file := range req.Files {
		doc, err := h.documents.RegisterUpload(c.Context(), tenantID, identity.UserID, file.FileName, file.MimeType, file.FileSize)
		if err != nil {
			return err
		}
		documents = append(documents, dto.NewDocumentResponse(doc))
		documentIDs = append(documentIDs, doc.ID)
	}

	uploadID := uuid.NewString()
	if err := h.documents.TrackUploadBatch(c.Context(), tenantID, uploadID, documentIDs, string(domain.DocumentStatusUploaded)); err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.DataResponse{
		Data: dto.RegisterUploadsResponse{
			UploadID:  uploadID,
			Documents: documents,
		},
		Message: "upload registered",
	})
}

// Get handles GET /api/v1/documents/:documentId.
func (h *DocumentsHandler) Get(c *fiber.Ctx) error {
	doc, err := h.documentForCaller(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse{
		Data:    dto.NewDocumentResponse(doc),
		Message: "document retrieved",
	})
}

// Delete handles DELETE /api/v1/documents/:documentId.
func (h *DocumentsHandler) Delete(c *fiber.Ctx) error {
	doc, err := h.documentForCaller(c)
	if err != nil {
		return err
	}

	if err := h.documents.DeleteDocument(c.Context(), doc.ID); err != nil {
		return err
	}

	return c.JSON(dto.DataResponse{
		Data:    fiber.Map{},
		Message: "document deleted",
	})
}

// UpdateStatus handles PATCH /api/v1/documents/:documentId/status. An
// external processing pipeline reports lifecycle transitions here.
func (h *DocumentsHandler) UpdateStatus(c *fiber.Ctx) error {
	if _, err := h.documentForCaller(c); err != nil {
		return err
	}

	var req dto.UpdateDocumentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	doc, err := h.documents.UpdateDocumentStatus(c.Context(), c.Params("documentId"), domain.DocumentStatus(req.Status), req.Error)
	if err != nil {
		return err
	}

	return c.JSON(dto.DataResponse{
		Data:    dto.NewDocumentResponse(doc),
		Message: "document status updated",
	})
}

// UploadStatus handles GET /api/v1/documents/uploads/:uploadId. The batch is
// scoped to its owning tenant.
func (h *DocumentsHandler) UploadStatus(c *fiber.Ctx) error {
	status, err := h.documents.UploadBatchStatus(c.Context(), c.Params("uploadId"))
	if err != nil {
		return err
	}
	if err := auth.CheckTenantAccess(c, status.TenantID); err != nil {
		return err
	}
	return c.JSON(dto.DataResponse{
		Data: dto.UploadStatusResponse{
			UploadID:    status.UploadID,
			Status:      status.Status,
			DocumentIDs: status.DocumentIDs,
		},
		Message: "upload status retrieved",
	})
}

// documentForCaller loads the addressed document and verifies the caller's
// tenant owns it.
func (h *DocumentsHandler) documentForCaller(c *fiber.Ctx) (*domain.Document, error) {
	doc, err := h.documents.GetDocument(c.Context(), c.Params("documentId"))
	if err != nil {
		return nil, err
	}
	if err := auth.CheckTenantAccess(c, doc.TenantID); err != nil {
		return nil, err
	}
	return doc, nil
}
