package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
	"github.com/inkwell/blog-api/internal/core/query"
)

// AuthorQueryOptions lists what clients may filter, sort and project on.
// The password hash is deliberately absent.
var AuthorQueryOptions = query.Options{
	Fields:   []string{"_id", "name", "lastName", "avatar", "email", "role", "googleId", "createdAt", "updatedAt"},
	IDFields: []string{"_id"},
}

type AuthorService struct {
	authors     ports.AuthorRepository
	blogs       ports.BlogRepository
	credentials *CredentialStore
	log         zerolog.Logger
}

func NewAuthorService(authors ports.AuthorRepository, blogs ports.BlogRepository, credentials *CredentialStore, log zerolog.Logger) *AuthorService {
	return &AuthorService{authors: authors, blogs: blogs, credentials: credentials, log: log}
}

func (s *AuthorService) Get(ctx context.Context, id string) (*domain.Author, error) {
	return s.authors.FindByID(ctx, id)
}

func (s *AuthorService) List(ctx context.Context, rawQuery string) (*ports.AuthorList, error) {
	q, err := query.Parse(rawQuery, AuthorQueryOptions)
	if err != nil {
		return nil, err
	}
	items, total, err := s.authors.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return &ports.AuthorList{Items: items, Total: total, Query: q}, nil
}

func (s *AuthorService) UpdateSelf(ctx context.Context, caller domain.Caller, patch domain.AuthorPatch) (*domain.Author, error) {
	if caller.ID == "" {
		return nil, domain.Unauthenticated("missing caller identity")
	}
	if patch.Role != nil {
		return nil, domain.Forbidden("role can only be changed by an administrator")
	}
	return s.update(ctx, caller.ID, patch)
}

func (s *AuthorService) UpdateByAdmin(ctx context.Context, id string, patch domain.AuthorPatch) (*domain.Author, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, domain.Invalid("role must be one of: %s %s", domain.RoleStandard, domain.RoleAdmin)
	}
	return s.update(ctx, id, patch)
}

func (s *AuthorService) update(ctx context.Context, id string, patch domain.AuthorPatch) (*domain.Author, error) {
	patch.PasswordHash = nil
	if patch.Empty() {
		return nil, domain.Invalid("nothing to update")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.Invalid("name cannot be empty")
	}

	if patch.Email != nil {
		email := NormalizeEmail(*patch.Email)
		if email == "" {
			return nil, domain.Invalid("email cannot be empty")
		}
		other, err := s.authors.FindByEmail(ctx, email)
		switch {
		case err == nil && other != nil && other.ID != id:
			return nil, domain.ErrAuthorExists
		case err != nil && !errors.Is(err, domain.ErrAuthorNotFound):
			return nil, fmt.Errorf("update author: %w", err)
		}
		patch.Email = &email
	}

	if err := s.credentials.HashPatch(&patch); err != nil {
		return nil, err
	}

	author, err := s.authors.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("author_id", id).Bool("password_changed", patch.PasswordHash != nil).Msg("author updated")
	return author, nil
}

func (s *AuthorService) Delete(ctx context.Context, id string) error {
	if err := s.authors.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("author_id", id).Msg("author deleted")
	return nil
}

// Stories returns every post owned by authorID.
func (s *AuthorService) Stories(ctx context.Context, authorID string) ([]*domain.BlogPost, error) {
	posts, err := s.blogs.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return posts, nil
}
