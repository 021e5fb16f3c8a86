package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/rag-chat-service/internal/api/http"
	"github.com/spec-kit/rag-chat-service/internal/api/http/handlers"
	"github.com/spec-kit/rag-chat-service/internal/auth"
	"github.com/spec-kit/rag-chat-service/internal/domain"
	"github.com/spec-kit/rag-chat-service/internal/service"
)

type memDocumentRepo struct {
	docs map[string]*domain.Document
}

func (r *memDocumentRepo) Create(_ context.Context, doc *domain.Document) error {
	doc.ID = uuid.NewString()
	clone := *doc
	r.docs[doc.ID] = &clone
	return nil
}

func (r *memDocumentRepo) GetByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *doc
	return &clone, nil
}

func (r *memDocumentRepo) ListByTenant(_ context.Context, tenantID string, _, _ int) ([]*domain.Document, error) {
	var out []*domain.Document
	for _, doc := range r.docs {
		if doc.TenantID == tenantID {
			clone := *doc
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memDocumentRepo) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, errMsg *string) error {
	doc, ok := r.docs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	doc.Status = status
	doc.Error = errMsg
	return nil
}

func (r *memDocumentRepo) Delete(_ context.Context, id string) error {
	delete(r.docs, id)
	return nil
}

type memUploadStatusRepo struct {
	records map[string]*domain.UploadStatus
}

func (r *memUploadStatusRepo) Set(_ context.Context, status *domain.UploadStatus, _ time.Duration) error {
	clone := *status
	r.records[status.UploadID] = &clone
	return nil
}

func (r *memUploadStatusRepo) Get(_ context.Context, uploadID string) (*domain.UploadStatus, error) {
	status, ok := r.records[uploadID]
	if !ok {
		return nil, redis.Nil
	}
	clone := *status
	return &clone, nil
}

func newDocumentsService() *service.DocumentService {
	return service.NewDocumentService(
		&memDocumentRepo{docs: make(map[string]*domain.Document)},
		&memUploadStatusRepo{records: make(map[string]*domain.UploadStatus)},
	)
}

// documentsApp serves the documents routes with a fixed caller identity, nil
// meaning anonymous.
func documentsApp(documents *service.DocumentService, identity *auth.Identity) *fiber.App {
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	app.Use(func(c *fiber.Ctx) error {
		if identity != nil {
			auth.SetIdentity(c, identity)
		}
		return c.Next()
	})

	h := handlers.NewDocumentsHandler(documents)
	app.Post("/api/v1/documents", h.Register)
	app.Get("/api/v1/documents/uploads/:uploadId", h.UploadStatus)
	return app
}

func tenantIdentity(tenantID string) *auth.Identity {
	return &auth.Identity{
		UserID:   uuid.NewString(),
		Email:    "admin@" + tenantID + ".example.com",
		Role:     domain.RoleTenantAdmin,
		TenantID: &tenantID,
	}
}

func registerBatch(t *testing.T, app *fiber.App) string {
	t.Helper()
	payload := `{"files":[{"file_name":"report.pdf","mime_type":"application/pdf","file_size":1024}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", bytes.NewBufferString(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Data struct {
			UploadID string `json:"upload_id"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Data.UploadID)
	return body.Data.UploadID
}

func uploadStatusCode(t *testing.T, app *fiber.App, uploadID string) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/documents/uploads/"+uploadID, nil))
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestUploadStatusVisibleToOwningTenant(t *testing.T) {
	documents := newDocumentsService()
	owner := documentsApp(documents, tenantIdentity("tenant-a"))

	uploadID := registerBatch(t, owner)
	assert.Equal(t, http.StatusOK, uploadStatusCode(t, owner, uploadID))
}

// A batch registered under one tenant must not be readable by members of
// another tenant, even with a valid upload id.
func TestUploadStatusRejectsForeignTenant(t *testing.T) {
	documents := newDocumentsService()
	owner := documentsApp(documents, tenantIdentity("tenant-a"))
	uploadID := registerBatch(t, owner)

	foreign := documentsApp(documents, tenantIdentity("tenant-b"))
	resp, err := foreign.Test(httptest.NewRequest(http.MethodGet, "/api/v1/documents/uploads/"+uploadID, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "TENANT_ACCESS_DENIED", body.Error.Code)
}

func TestUploadStatusAllowsSuperadmin(t *testing.T) {
	documents := newDocumentsService()
	owner := documentsApp(documents, tenantIdentity("tenant-a"))
	uploadID := registerBatch(t, owner)

	superadmin := documentsApp(documents, &auth.Identity{
		UserID: uuid.NewString(),
		Email:  "root@example.com",
		Role:   domain.RoleSuperadmin,
	})
	assert.Equal(t, http.StatusOK, uploadStatusCode(t, superadmin, uploadID))
}

func TestUploadStatusRequiresAuthentication(t *testing.T) {
	documents := newDocumentsService()
	owner := documentsApp(documents, tenantIdentity("tenant-a"))
	uploadID := registerBatch(t, owner)

	anonymous := documentsApp(documents, nil)
	assert.Equal(t, http.StatusUnauthorized, uploadStatusCode(t, anonymous, uploadID))
}

func TestUploadStatusUnknownBatch(t *testing.T) {
	documents := newDocumentsService()
	owner := documentsApp(documents, tenantIdentity("tenant-a"))

	assert.Equal(t, http.StatusNotFound, uploadStatusCode(t, owner, uuid.NewString()))
}
