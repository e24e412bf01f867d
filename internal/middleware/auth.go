package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/akverma/order-management-api/internal/utils"
)

// Context keys populated by IsAuthenticated for downstream handlers.
const (
	CtxUserID   = "userId"
	CtxFullName = "fullName"
	CtxRole     = "role"
)

// IsAuthenticated returns an Echo middleware that validates a Bearer access
// token and injects the token's claims into the request context. A missing
// Authorization header yields 401; a present but invalid or expired token
// yields 403. The secret must be the access-token signing secret.
func IsAuthenticated(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.VerifyToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxFullName, claims.FullName)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

// AuthRole returns a middleware that enforces an exact role match against
// the role claim stored by IsAuthenticated. There is no role hierarchy; a
// mismatch is rejected with 401. It must run after IsAuthenticated.
func AuthRole(requiredRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(string)
			if !ok || role != requiredRole {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authorized"})
			}
			return next(c)
		}
	}
}
