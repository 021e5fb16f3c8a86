package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// IdentityMiddleware decodes bearer tokens into request-scoped identity.
// It fails open: a missing, malformed or expired token leaves the request
// anonymous and the route guards make the final decision.
type IdentityMiddleware struct {
	tokens         *TokenService
	bypassPrefixes []string
}

// NewIdentityMiddleware constructs the middleware. Requests whose path
// matches a bypass prefix skip token extraction entirely.
func NewIdentityMiddleware(tokens *TokenService, bypassPrefixes []string) *IdentityMiddleware {
	return &IdentityMiddleware{tokens: tokens, bypassPrefixes: bypassPrefixes}
}

// Handle extracts and validates the bearer token, attaching the identity on
// success. It never rejects the request itself.
func (m *IdentityMiddleware) Handle(c *fiber.Ctx) error {
	if m.shouldBypass(c.Path()) {
		return c.Next()
	}

	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return c.Next()
	}

	claims, err := m.tokens.Validate(token, TokenTypeAccess)
	if err != nil {
		// Anonymous pass-through; guards reject where identity is required.
		return c.Next()
	}

	SetIdentity(c, IdentityFromClaims(claims))
	return c.Next()
}

func (m *IdentityMiddleware) shouldBypass(path string) bool {
	for _, prefix := range m.bypassPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), parts[1] != ""
}
