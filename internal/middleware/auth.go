// Package middleware provides authentication, logging, and tracing
// middleware for the HTTP layer.
package middleware

import (
	"errors"
	"strings"

	"murmur/internal/auth"
	"murmur/internal/models"
	"murmur/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// CallerLocalKey is the fiber locals key holding the resolved *auth.Caller.
const CallerLocalKey = "caller"

// CallerFromCtx returns the caller resolved by the auth middleware, or nil
// for an anonymous request.
func CallerFromCtx(c *fiber.Ctx) *auth.Caller {
	caller, _ := c.Locals(CallerLocalKey).(*auth.Caller)
	return caller
}

// AuthRequired enforces a valid bearer credential and stores the resolved
// caller in locals. The identity comes entirely from the verified claims; no
// storage lookup happens per request.
func AuthRequired(codec *auth.Codec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := resolveCaller(codec, c)
		if err != nil {
			observability.AuthFailures.WithLabelValues(failureReason(err)).Inc()
			return models.RespondWithError(c, err)
		}

		c.Locals(CallerLocalKey, caller)
		c.Locals("userID", caller.ID)
		c.SetUserContext(observability.WithUserID(c.UserContext(), caller.ID))
		return c.Next()
	}
}

// AuthOptional resolves the caller when a credential is present but lets
// anonymous requests through. A present-but-invalid credential is still
// rejected; silently downgrading to anonymous would mask client bugs.
func AuthOptional(codec *auth.Codec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}

		caller, err := resolveCaller(codec, c)
		if err != nil {
			observability.AuthFailures.WithLabelValues(failureReason(err)).Inc()
			return models.RespondWithError(c, err)
		}

		c.Locals(CallerLocalKey, caller)
		c.Locals("userID", caller.ID)
		c.SetUserContext(observability.WithUserID(c.UserContext(), caller.ID))
		return c.Next()
	}
}

func resolveCaller(codec *auth.Codec, c *fiber.Ctx) (*auth.Caller, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return nil, models.NewUnauthenticatedError("Authorization header required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, models.NewUnauthenticatedError("Invalid authorization header format")
	}

	claims, err := codec.Verify(parts[1])
	if err != nil {
		return nil, err
	}
	return &auth.Caller{ID: claims.UserID, Role: claims.Role}, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return "invalid"
	default:
		return "missing"
	}
}
