package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/query"
)

// BlogRepository defines persistence for blog posts and their embedded
// comments. Every comment mutation is a single atomic document update.
type BlogRepository interface {
	Create(ctx context.Context, post *domain.BlogPost) (string, error)
	FindByID(ctx context.Context, id string) (*domain.BlogPost, error)
	List(ctx context.Context, q *query.Query) ([]*domain.BlogPost, int64, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.BlogPost, error)

	// Update and Delete only match posts owned by ownerID. They return
	// domain.ErrForbidden when the post exists under another owner.
	Update(ctx context.Context, id, ownerID string, patch domain.BlogPatch) (*domain.BlogPost, error)
	Delete(ctx context.Context, id, ownerID string) error

	AddComment(ctx context.Context, postID string, comment domain.Comment) (*domain.BlogPost, error)
	FindComment(ctx context.Context, postID, commentID string) (*domain.Comment, error)
	// UpdateComment and DeleteComment only match comments written by authorID.
	UpdateComment(ctx context.Context, postID, commentID, authorID, content string) (*domain.BlogPost, error)
	DeleteComment(ctx context.Context, postID, commentID, authorID string) (*domain.BlogPost, error)
}
