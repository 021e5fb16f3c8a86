package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/rag-chat-service/internal/domain"
)

// middlewareApp wires the identity middleware in front of a probe route that
// reports whether an identity was attached.
func middlewareApp(tokens *TokenService, bypass []string) *fiber.App {
	app := fiber.New()
	mw := NewIdentityMiddleware(tokens, bypass)
	app.Use(mw.Handle)
	probe := func(c *fiber.Ctx) error {
		if identity, ok := IdentityFromContext(c); ok {
			return c.JSON(fiber.Map{"user_id": identity.UserID})
		}
		return c.JSON(fiber.Map{"user_id": ""})
	}
	app.Get("/probe", probe)
	app.Get("/public/probe", probe)
	return app
}

func probeUserID(t *testing.T, app *fiber.App, path, authorization string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		UserID string `json:"user_id"`
	}
	require.NoError(t, jsonDecode(resp.Body, &body))
	return body.UserID
}

func jsonDecode(r io.ReadCloser, v interface{}) error {
	defer r.Close()
	return json.NewDecoder(r).Decode(v)
}

func TestIdentityMiddlewareAttachesValidToken(t *testing.T) {
	tokens := newTestTokenService()
	app := middlewareApp(tokens, nil)

	token, err := tokens.IssueAccess("user-1", "alice@example.com", domain.RoleUser, nil)
	require.NoError(t, err)

	assert.Equal(t, "user-1", probeUserID(t, app, "/probe", "Bearer "+token))
}

func TestIdentityMiddlewareFailsOpen(t *testing.T) {
	tokens := newTestTokenService()
	app := middlewareApp(tokens, nil)

	// No header, malformed header, bad token: request proceeds anonymous.
	assert.Empty(t, probeUserID(t, app, "/probe", ""))
	assert.Empty(t, probeUserID(t, app, "/probe", "Token abc"))
	assert.Empty(t, probeUserID(t, app, "/probe", "Bearer not.a.jwt"))
}

func TestIdentityMiddlewareIgnoresExpiredToken(t *testing.T) {
	expired := NewTokenService("test-secret", time.Hour, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := expired.IssueAccess("user-1", "alice@example.com", domain.RoleUser, nil)
	require.NoError(t, err)

	app := middlewareApp(newTestTokenService(), nil)
	assert.Empty(t, probeUserID(t, app, "/probe", "Bearer "+token))
}

func TestIdentityMiddlewareRejectsRefreshTokenAsAccess(t *testing.T) {
	tokens := newTestTokenService()
	app := middlewareApp(tokens, nil)

	refresh, err := tokens.IssueRefresh("user-1")
	require.NoError(t, err)

	assert.Empty(t, probeUserID(t, app, "/probe", "Bearer "+refresh))
}

func TestIdentityMiddlewareBypassSkipsExtraction(t *testing.T) {
	tokens := newTestTokenService()
	app := middlewareApp(tokens, []string{"/public"})

	token, err := tokens.IssueAccess("user-1", "alice@example.com", domain.RoleUser, nil)
	require.NoError(t, err)

	// Even a valid token attaches nothing on a bypassed path.
	assert.Empty(t, probeUserID(t, app, "/public/probe", "Bearer "+token))
	assert.Equal(t, "user-1", probeUserID(t, app, "/probe", "Bearer "+token))
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("Bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	_, ok = bearerToken("")
	assert.False(t, ok)

	_, ok = bearerToken("Basic dXNlcjpwYXNz")
	assert.False(t, ok)

	_, ok = bearerToken("Bearer")
	assert.False(t, ok)

	// Scheme match is case-insensitive.
	token, ok = bearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
}
