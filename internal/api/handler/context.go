package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/api/middleware"
	"github.com/inkwell/blog-api/internal/core/domain"
)

// ctxCaller extracts the identity injected by an auth gate. Its absence
// means the route was registered without one, so it is reported as 401
// rather than trusted.
func ctxCaller(c echo.Context) (domain.Caller, error) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return domain.Caller{}, domain.Unauthenticated("missing authentication")
	}
	return caller, nil
}

// listBaseURL is the absolute URL pagination links are built on. The Host
// fallback is client controlled; config refuses an empty base URL outside
// development.
func listBaseURL(c echo.Context, publicBaseURL string) string {
	base := publicBaseURL
	if base == "" {
		base = c.Scheme() + "://" + c.Request().Host
	}
	return base + c.Request().URL.Path
}
