package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkwell/blog-api/internal/core/domain"
)

func TestTokenService_IssueVerify(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue("author-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "author-1" || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %s", got)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("secret", time.Minute)
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue("author-1", domain.RoleStandard)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	other, _ := NewTokenService("other-secret", time.Hour).Issue("author-1", domain.RoleAdmin)
	if _, err := svc.Verify(other); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected wrong-key token to fail, got %v", err)
	}

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "author-1",
		"role": "Admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := svc.Verify(none); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected alg=none token to fail, got %v", err)
	}

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "author-1",
		"role": "Admin",
	}).SignedString([]byte("secret"))
	if _, err := svc.Verify(noExp); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected token without exp to fail, got %v", err)
	}

	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "author-1",
		"role": "Root",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if _, err := svc.Verify(badRole); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unknown role to fail, got %v", err)
	}

	if _, err := svc.Verify("not-a-jwt"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected garbage to fail, got %v", err)
	}
}
