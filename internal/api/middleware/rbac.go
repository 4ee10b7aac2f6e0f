package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// RequireRole admits callers ranked at or above min. It must run after an
// auth gate.
func RequireRole(min domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := CallerFrom(c)
			if !ok {
				return domain.Unauthenticated("authentication required")
			}
			if !caller.Role.AtLeast(min) {
				return domain.Forbidden("requires role " + min.String())
			}
			return next(c)
		}
	}
}

// RequireCapability admits callers whose role grants capability.
func RequireCapability(capability domain.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := CallerFrom(c)
			if !ok {
				return domain.Unauthenticated("authentication required")
			}
			if !caller.Role.Can(capability) {
				return domain.Forbidden("missing permission " + string(capability))
			}
			return next(c)
		}
	}
}
