package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

const DefaultHashCost = 10

// CredentialStore owns secret hashing for author records. Plaintext secrets
// never reach the repository.
type CredentialStore struct {
	repo      ports.AuthorRepository
	cost      int
	dummyHash []byte
}

// NewCredentialStore returns a store hashing with the given bcrypt cost.
// Out-of-range costs fall back to DefaultHashCost.
func NewCredentialStore(repo ports.AuthorRepository, cost int) *CredentialStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	// compared against when no real hash exists, so lookups that miss cost
	// the same as lookups that hit
	dummy, _ := bcrypt.GenerateFromPassword([]byte("no-such-author"), cost)
	return &CredentialStore{repo: repo, cost: cost, dummyHash: dummy}
}

// Hash returns the bcrypt hash of secret.
func (s *CredentialStore) Hash(secret string) (string, error) {
	if secret == "" {
		return "", domain.Invalid("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.Invalid("password must be at most 72 bytes")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Create persists author, storing only the hash of secret when one is given.
func (s *CredentialStore) Create(ctx context.Context, author *domain.Author, secret string) (*domain.Author, error) {
	if author.Role == "" {
		author.Role = domain.RoleStandard
	}
	author.PasswordHash = ""
	if secret != "" {
		hash, err := s.Hash(secret)
		if err != nil {
			return nil, err
		}
		author.PasswordHash = hash
	}
	return s.repo.Create(ctx, author)
}

// Verify implements ports.CredentialVerifier.
func (s *CredentialStore) Verify(ctx context.Context, email, secret string) (*domain.Author, error) {
	email = NormalizeEmail(email)
	if email == "" || secret == "" {
		return nil, nil
	}

	author, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAuthorNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(secret))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if !author.HasPassword() {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(secret))
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(author.PasswordHash), []byte(secret)) != nil {
		return nil, nil
	}
	return author, nil
}

// HashPatch replaces a plaintext password in patch with its hash. Patches
// that do not touch the password are left as they are.
func (s *CredentialStore) HashPatch(patch *domain.AuthorPatch) error {
	if patch.Password == nil {
		return nil
	}
	hash, err := s.Hash(*patch.Password)
	if err != nil {
		return err
	}
	patch.PasswordHash = &hash
	patch.Password = nil
	return nil
}

// NormalizeEmail lower-cases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
