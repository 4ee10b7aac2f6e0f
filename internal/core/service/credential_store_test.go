package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/testutil"
)

func TestCredentialStore_CreateAndVerify(t *testing.T) {
	repo := testutil.NewAuthorStore()
	store := NewCredentialStore(repo, bcrypt.MinCost)

	created, err := store.Create(context.Background(), &domain.Author{Name: "Ann", Email: "ann@example.com"}, "hunter2")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Role != domain.RoleStandard {
		t.Fatalf("expected default role, got %s", created.Role)
	}
	if created.PasswordHash == "" || created.PasswordHash == "hunter2" {
		t.Fatalf("expected stored hash, got %q", created.PasswordHash)
	}

	got, err := store.Verify(context.Background(), "ANN@example.com ", "hunter2")
	if err != nil || got == nil || got.ID != created.ID {
		t.Fatalf("expected match, got %+v err=%v", got, err)
	}

	for _, tc := range []struct{ email, secret string }{
		{"ann@example.com", "wrong"},
		{"missing@example.com", "hunter2"},
		{"", "hunter2"},
		{"ann@example.com", ""},
	} {
		got, err := store.Verify(context.Background(), tc.email, tc.secret)
		if err != nil || got != nil {
			t.Fatalf("Verify(%q, %q): expected no match, got %+v err=%v", tc.email, tc.secret, got, err)
		}
	}
}

func TestCredentialStore_VerifyPasswordlessAccount(t *testing.T) {
	repo := testutil.NewAuthorStore()
	store := NewCredentialStore(repo, bcrypt.MinCost)

	if _, err := store.Create(context.Background(), &domain.Author{Name: "G", Email: "g@example.com", GoogleID: "g-1"}, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := store.Verify(context.Background(), "g@example.com", "")
	if err != nil || got != nil {
		t.Fatalf("expected no match for empty secret, got %+v err=%v", got, err)
	}
	got, err = store.Verify(context.Background(), "g@example.com", "anything")
	if err != nil || got != nil {
		t.Fatalf("expected no match for passwordless account, got %+v err=%v", got, err)
	}
}

func TestCredentialStore_HashPatch(t *testing.T) {
	store := NewCredentialStore(testutil.NewAuthorStore(), bcrypt.MinCost)

	name := "n"
	untouched := domain.AuthorPatch{Name: &name}
	if err := store.HashPatch(&untouched); err != nil || untouched.PasswordHash != nil {
		t.Fatalf("patch without password must be left alone: %+v err=%v", untouched, err)
	}

	secret := "new-secret"
	patch := domain.AuthorPatch{Password: &secret}
	if err := store.HashPatch(&patch); err != nil {
		t.Fatalf("hash patch: %v", err)
	}
	if patch.Password != nil || patch.PasswordHash == nil {
		t.Fatalf("expected plaintext replaced by hash: %+v", patch)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*patch.PasswordHash), []byte(secret)); err != nil {
		t.Fatalf("hash mismatch: %v", err)
	}
}

func TestCredentialStore_HashRejectsLongSecret(t *testing.T) {
	store := NewCredentialStore(testutil.NewAuthorStore(), bcrypt.MinCost)
	if _, err := store.Hash(strings.Repeat("x", 80)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := store.Hash(""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty secret, got %v", err)
	}
}

func TestNewCredentialStore_InvalidCostFallsBack(t *testing.T) {
	store := NewCredentialStore(testutil.NewAuthorStore(), 99)
	if store.cost != DefaultHashCost {
		t.Fatalf("expected default cost, got %d", store.cost)
	}
}

func TestCredentialStore_Verify_SharedEmailPrefersPasswordAccount(t *testing.T) {
	repo := testutil.NewAuthorStore()
	store := NewCredentialStore(repo, bcrypt.MinCost)

	repo.Put(&domain.Author{Name: "Ann", Email: "ann@example.com", GoogleID: "g-ann", Role: domain.RoleStandard})
	created, err := store.Create(context.Background(), &domain.Author{Name: "Ann", Email: "ann@example.com"}, "hunter2")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Verify(context.Background(), "ann@example.com", "hunter2")
	if err != nil || got == nil || got.ID != created.ID {
		t.Fatalf("expected the password account %s, got %+v err=%v", created.ID, got, err)
	}
}
