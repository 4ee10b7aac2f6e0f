package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/api/metrics"
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// BearerToken validates an access token from the Authorization header and
// attaches the caller it names.
func BearerToken(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.AuthAttemptsTotal.WithLabelValues("bearer", "failure").Inc()
				return domain.Unauthenticated("missing authorization header")
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				metrics.AuthAttemptsTotal.WithLabelValues("bearer", "failure").Inc()
				return domain.Unauthenticated("invalid authorization header")
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				metrics.AuthAttemptsTotal.WithLabelValues("bearer", "failure").Inc()
				return err
			}

			metrics.AuthAttemptsTotal.WithLabelValues("bearer", "success").Inc()
			SetCaller(c, domain.Caller{
				ID:     claims.Subject,
				Role:   claims.Role,
				Method: domain.AuthMethodBearer,
			})
			return next(c)
		}
	}
}
