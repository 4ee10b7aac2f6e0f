package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/core/domain"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequireRole_Allows(t *testing.T) {
	c, rec := newContext()
	SetCaller(c, domain.Caller{ID: "a1", Role: domain.RoleAdmin})

	called := false
	handler := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_AdminPassesStandardGate(t *testing.T) {
	c, _ := newContext()
	SetCaller(c, domain.Caller{ID: "a1", Role: domain.RoleAdmin})

	handler := RequireRole(domain.RoleStandard)(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("expected admin to pass, got %v", err)
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	c, _ := newContext()
	SetCaller(c, domain.Caller{ID: "u1", Role: domain.RoleStandard})

	handler := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireRole_NoCaller(t *testing.T) {
	c, _ := newContext()

	handler := RequireRole(domain.RoleStandard)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireCapability(t *testing.T) {
	c, _ := newContext()
	SetCaller(c, domain.Caller{ID: "u1", Role: domain.RoleStandard})

	next := func(c echo.Context) error { return nil }
	if err := RequireCapability(domain.CapWriteOwnContent)(next)(c); err != nil {
		t.Fatalf("expected standard role to write own content, got %v", err)
	}
	if err := RequireCapability(domain.CapManageAuthors)(next)(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
