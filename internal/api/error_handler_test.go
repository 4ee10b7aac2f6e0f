package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/core/domain"
)

func TestHTTPErrorHandler_MapsSentinels(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.Invalid("title is required"), http.StatusBadRequest, "validation failed: title is required"},
		{domain.Unauthenticated("bad token"), http.StatusUnauthorized, "unauthenticated: bad token"},
		{domain.Forbidden("not yours"), http.StatusForbidden, "access forbidden: not yours"},
		{domain.ErrBlogNotFound, http.StatusNotFound, "blog not found"},
		{fmt.Errorf("wrapped: %w", domain.ErrAuthorNotFound), http.StatusNotFound, "wrapped: author not found"},
		{domain.ErrAuthorExists, http.StatusConflict, "author already exists"},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too many failed login attempts"},
		{echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "nope"},
		{errors.New("mongo: connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.New(io.Discard))
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		h(tc.err, e.NewContext(req, rec))

		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if body["message"] != tc.msg {
			t.Fatalf("%v: expected message %q, got %q", tc.err, tc.msg, body["message"])
		}
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.NoContent(http.StatusNoContent)

	NewHTTPErrorHandler(zerolog.New(io.Discard))(domain.ErrBlogNotFound, c)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected committed status to stand, got %d", rec.Code)
	}
}
