package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/query"
)

// AuthorRepository defines persistence for author records.
type AuthorRepository interface {
	Create(ctx context.Context, author *domain.Author) (*domain.Author, error)
	FindByID(ctx context.Context, id string) (*domain.Author, error)
	// FindByEmail returns domain.ErrAuthorNotFound when no author matches.
	FindByEmail(ctx context.Context, email string) (*domain.Author, error)
	// FindByIDs returns the authors that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Author, error)
	// List returns one page of authors matching q and the total match count.
	List(ctx context.Context, q *query.Query) ([]*domain.Author, int64, error)
	Update(ctx context.Context, id string, patch domain.AuthorPatch) (*domain.Author, error)
	Delete(ctx context.Context, id string) error
	// FindOrCreateByExternalID looks up an author by provider identity and
	// creates it in the same store operation when absent. created reports
	// whether this call inserted the record.
	FindOrCreateByExternalID(ctx context.Context, profile domain.ExternalProfile) (author *domain.Author, created bool, err error)
}
