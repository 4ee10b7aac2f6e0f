package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell/blog-api/internal/core/domain"
)

type stubVerifier struct {
	email, secret string
	author        *domain.Author
	err           error
}

func (s *stubVerifier) Verify(_ context.Context, email, secret string) (*domain.Author, error) {
	if s.err != nil {
		return nil, s.err
	}
	if email == s.email && secret == s.secret {
		return s.author, nil
	}
	return nil, nil
}

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func runPasswordHeader(t *testing.T, v *stubVerifier, header string) (domain.Caller, *httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/authors/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var caller domain.Caller
	err := PasswordHeader(v)(func(c echo.Context) error {
		caller, _ = CallerFrom(c)
		return nil
	})(c)
	return caller, rec, err
}

func TestPasswordHeader_Success(t *testing.T) {
	author := &domain.Author{ID: "a1", Email: "a@example.com", Role: domain.RoleStandard}
	v := &stubVerifier{email: "a@example.com", secret: "pa:ss", author: author}

	caller, _, err := runPasswordHeader(t, v, basic("a@example.com", "pa:ss"))
	require.NoError(t, err)
	assert.Equal(t, "a1", caller.ID)
	assert.Equal(t, domain.AuthMethodPassword, caller.Method)
	assert.Same(t, author, caller.Author)
}

func TestPasswordHeader_Rejects(t *testing.T) {
	v := &stubVerifier{email: "a@example.com", secret: "pass", author: &domain.Author{ID: "a1"}}

	for name, header := range map[string]string{
		"missing":        "",
		"bearer scheme":  "Bearer abc",
		"bad base64":     "Basic !!!",
		"no colon":       "Basic " + base64.StdEncoding.EncodeToString([]byte("nocolon")),
		"wrong password": basic("a@example.com", "nope"),
		"unknown email":  basic("b@example.com", "pass"),
	} {
		t.Run(name, func(t *testing.T) {
			_, rec, err := runPasswordHeader(t, v, header)
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
			assert.NotEmpty(t, rec.Header().Get(echo.HeaderWWWAuthenticate))
		})
	}
}

func TestPasswordHeader_StoreError(t *testing.T) {
	boom := errors.New("mongo down")
	_, _, err := runPasswordHeader(t, &stubVerifier{err: boom}, basic("a@example.com", "pass"))
	assert.ErrorIs(t, err, boom)
}
