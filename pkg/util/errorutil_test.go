package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	err := NewInvalidCredentials()
	domainErr := ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	assert.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	domainErr := ToDomainError(errors.New("boom"))
	require.NotNil(t, domainErr)
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	// The cause stays attached for logging but the message stays generic.
	assert.EqualError(t, domainErr.Unwrap(), "boom")
	assert.Equal(t, "internal server error", domainErr.Message)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestGuardErrorStatuses(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, ToDomainError(NewInsufficientRole("tenant_admin")).HTTPStatus)
	assert.Equal(t, http.StatusForbidden, ToDomainError(NewTenantAccessDenied()).HTTPStatus)
	assert.Equal(t, http.StatusForbidden, ToDomainError(NewResourceAccessDenied()).HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, ToDomainError(NewTokenExpired()).HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, ToDomainError(NewInvalidToken()).HTTPStatus)
}

func TestToDomainErrorMapsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	domainErr := ToDomainError(fmt.Errorf("create user: %w", pgErr))
	require.NotNil(t, domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
	assert.Equal(t, "users_email_key", domainErr.Details["constraint"])
}

func TestToDomainErrorMapsMalformedUUID(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "22P02"}
	domainErr := ToDomainError(pgErr)
	require.NotNil(t, domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
}

func TestInsufficientRoleDetails(t *testing.T) {
	domainErr := ToDomainError(NewInsufficientRole("superadmin"))
	assert.Equal(t, "superadmin", domainErr.Details["required_role"])
}
