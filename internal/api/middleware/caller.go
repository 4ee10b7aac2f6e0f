package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/core/domain"
)

const callerKey = "caller"

// SetCaller attaches the authenticated identity to the request.
func SetCaller(c echo.Context, caller domain.Caller) {
	c.Set(callerKey, caller)
}

// CallerFrom returns the identity attached by an auth gate.
func CallerFrom(c echo.Context) (domain.Caller, bool) {
	caller, ok := c.Get(callerKey).(domain.Caller)
	if !ok || caller.ID == "" {
		return domain.Caller{}, false
	}
	return caller, true
}
