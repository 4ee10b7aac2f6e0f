package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/query"
)

// AuthorList is one page of authors plus what the handler needs to build the
// pagination envelope.
type AuthorList struct {
	Items []*domain.Author
	Total int64
	Query *query.Query
}

// AuthorService defines author profile use cases.
type AuthorService interface {
	Get(ctx context.Context, id string) (*domain.Author, error)
	List(ctx context.Context, rawQuery string) (*AuthorList, error)
	// UpdateSelf applies a self-service patch; role changes are rejected.
	UpdateSelf(ctx context.Context, caller domain.Caller, patch domain.AuthorPatch) (*domain.Author, error)
	UpdateByAdmin(ctx context.Context, id string, patch domain.AuthorPatch) (*domain.Author, error)
	Delete(ctx context.Context, id string) error
	Stories(ctx context.Context, authorID string) ([]*domain.BlogPost, error)
}

// CreateBlogInput carries a new post. The owner always comes from the caller.
type CreateBlogInput struct {
	Category string
	Title    string
	Cover    string
	ReadTime *domain.ReadTime
	Content  string
}

// BlogList is one page of posts with authors expanded.
type BlogList struct {
	Items []*domain.BlogPost
	Total int64
	Query *query.Query
}

// BlogService defines post and comment use cases.
type BlogService interface {
	Create(ctx context.Context, caller domain.Caller, in CreateBlogInput) (string, error)
	Get(ctx context.Context, id string) (*domain.BlogPost, error)
	List(ctx context.Context, rawQuery string) (*BlogList, error)
	Update(ctx context.Context, caller domain.Caller, id string, patch domain.BlogPatch) (*domain.BlogPost, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error

	AddComment(ctx context.Context, caller domain.Caller, postID, content string) (*domain.BlogPost, error)
	ListComments(ctx context.Context, postID string) ([]domain.Comment, error)
	GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error)
	UpdateComment(ctx context.Context, caller domain.Caller, postID, commentID, content string) (*domain.BlogPost, error)
	DeleteComment(ctx context.Context, caller domain.Caller, postID, commentID string) (*domain.BlogPost, error)
}
