package middleware_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-authorizer/internal/config"
	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/middleware"
	"doc-authorizer/internal/service/credential"
)

func TestErrorHandler_MapsDomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", domain.NewValidationError("folio", "folio is required"), 400, "VALIDATION_ERROR"},
		{"not found", domain.NewNotFoundError("notification", ""), 404, "NOT_FOUND"},
		{"expired", &domain.ExpiredError{Message: "expired"}, 410, "LINK_EXPIRED"},
		{"conflict", &domain.ConflictError{Message: "dup"}, 409, "CONFLICT"},
		{"already processed", fmt.Errorf("approve: %w", domain.ErrAlreadyProcessed), 409, "CONFLICT"},
		{"upstream", domain.NewUpstreamError("directory", errors.New("dial tcp")), 502, "UPSTREAM_ERROR"},
		{"fiber", fiber.NewError(fiber.StatusForbidden, "nope"), 403, "FORBIDDEN"},
		{"unknown", errors.New("pq: relation does not exist"), 500, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(nil)})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body middleware.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Len(t, body.TraceID, 8)
			assert.NotContains(t, body.Message, "pq:")
			assert.NotContains(t, body.Message, "dial tcp")
		})
	}
}

func TestErrorHandler_ValidationCarriesField(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(nil)})
	app.Get("/", func(c *fiber.Ctx) error {
		return domain.NewValidationError("authorizerId", "Authorizer not reachable")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "authorizerId", body.Field)
	assert.Equal(t, "Authorizer not reachable", body.Message)
}

func newCreds() credential.Service {
	return credential.NewService(&config.Config{JWTSecret: "secret", ServiceName: "Purchasing", ServiceTokenTTL: time.Minute})
}

func protectedApp(creds credential.Service, roles ...string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(nil)})
	handlers := []fiber.Handler{middleware.AuthRequired(creds)}
	if len(roles) > 0 {
		handlers = append(handlers, middleware.RequireAnyRole(roles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.SendString(middleware.GetClaims(c).Name)
	})
	app.Get("/", handlers...)
	return app
}

func TestAuthRequired(t *testing.T) {
	creds := newCreds()
	app := protectedApp(creds)

	token, err := creds.Issue()
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode, header)
	}
}

func TestAuthRequired_ForeignSecret(t *testing.T) {
	app := protectedApp(newCreds())
	other := credential.NewService(&config.Config{JWTSecret: "other", ServiceName: "x", ServiceTokenTTL: time.Minute})
	token, err := other.Issue()
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestRequireAnyRole(t *testing.T) {
	creds := newCreds()
	token, err := creds.Issue()
	require.NoError(t, err)

	allowed := protectedApp(creds, "Admin", credential.ServiceRole)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := allowed.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	denied := protectedApp(creds, "Admin")
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = denied.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}
