package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"murmur/internal/auth"
	"murmur/internal/config"
	"murmur/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodec(t *testing.T) *auth.Codec {
	t.Helper()
	return auth.NewCodec(&config.Config{
		JWTSecret:   "test-secret-at-least-32-chars-long!!",
		JWTIssuer:   "murmur-api",
		JWTAudience: "murmur-client",
		JWTTTLHours: 1,
	})
}

func expiredCodec(t *testing.T) *auth.Codec {
	t.Helper()
	return auth.NewCodec(&config.Config{
		JWTSecret:   "test-secret-at-least-32-chars-long!!",
		JWTIssuer:   "murmur-api",
		JWTAudience: "murmur-client",
		JWTTTLHours: -1,
	})
}

// authTestApp wires the given middleware in front of a handler that reports
// the resolved caller.
func authTestApp(mw fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/protected", mw, func(c *fiber.Ctx) error {
		caller := CallerFromCtx(c)
		if caller == nil {
			return c.JSON(fiber.Map{"anonymous": true})
		}
		return c.JSON(fiber.Map{"user_id": caller.ID, "role": caller.Role})
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	codec := testCodec(t)
	app := authTestApp(AuthRequired(codec))

	t.Run("valid credential resolves the caller", func(t *testing.T) {
		t.Parallel()
		token, err := codec.Issue(42, "alice", models.RoleAdmin, nil)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			UserID uint        `json:"user_id"`
			Role   models.Role `json:"role"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, uint(42), body.UserID)
		assert.Equal(t, models.RoleAdmin, body.Role)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()
		resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		var body models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, string(models.KindUnauthenticated), body.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Token abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		token, err := expiredCodec(t).Issue(42, "alice", models.RoleUser, nil)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		var body models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, auth.ErrExpiredToken.Message, body.Error)
	})
}

func TestAuthOptional(t *testing.T) {
	t.Parallel()

	codec := testCodec(t)
	app := authTestApp(AuthOptional(codec))

	t.Run("anonymous passes through", func(t *testing.T) {
		t.Parallel()
		resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			Anonymous bool `json:"anonymous"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.Anonymous)
	})

	t.Run("valid credential still resolves", func(t *testing.T) {
		t.Parallel()
		token, err := codec.Issue(7, "bob", models.RoleUser, nil)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			UserID uint `json:"user_id"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, uint(7), body.UserID)
	})

	t.Run("present but invalid credential is rejected", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestCallerFromCtx_Anonymous(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Nil(t, CallerFromCtx(c))
		return nil
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
