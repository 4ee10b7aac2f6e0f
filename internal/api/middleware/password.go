package middleware

import (
	"encoding/base64"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/api/metrics"
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// PasswordHeader authenticates every request from Basic credentials
// (email:password) and attaches the full author record.
func PasswordHeader(verifier ports.CredentialVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, password, err := basicCredentials(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				metrics.AuthAttemptsTotal.WithLabelValues("password_header", "failure").Inc()
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="blog"`)
				return err
			}

			author, err := verifier.Verify(c.Request().Context(), email, password)
			if err != nil {
				return err
			}
			if author == nil {
				metrics.AuthAttemptsTotal.WithLabelValues("password_header", "failure").Inc()
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="blog"`)
				return domain.Unauthenticated("invalid email or password")
			}

			metrics.AuthAttemptsTotal.WithLabelValues("password_header", "success").Inc()
			SetCaller(c, domain.Caller{
				ID:     author.ID,
				Role:   author.Role,
				Method: domain.AuthMethodPassword,
				Author: author,
			})
			return next(c)
		}
	}
}

// basicCredentials splits on the first ':' only, so passwords may contain
// colons.
func basicCredentials(header string) (string, string, error) {
	if header == "" {
		return "", "", domain.Unauthenticated("missing authorization header")
	}
	scheme, encoded, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "basic") {
		return "", "", domain.Unauthenticated("invalid authorization header")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", "", domain.Unauthenticated("invalid authorization header")
	}
	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", domain.Unauthenticated("invalid authorization header")
	}
	return parts[0], parts[1], nil
}
