package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
	"github.com/inkwell/blog-api/internal/core/query"
)

// BlogQueryOptions lists what clients may filter, sort and project on.
var BlogQueryOptions = query.Options{
	Fields: []string{
		"_id", "category", "title", "cover", "readTime", "readTime.value", "readTime.unit",
		"author", "content", "comments", "comments._id", "comments.author", "createdAt", "updatedAt",
	},
	IDFields: []string{"_id", "author", "comments._id", "comments.author"},
}

type BlogService struct {
	blogs   ports.BlogRepository
	authors ports.AuthorRepository
	logger  zerolog.Logger
}

func NewBlogService(blogs ports.BlogRepository, authors ports.AuthorRepository, logger zerolog.Logger) *BlogService {
	return &BlogService{blogs: blogs, authors: authors, logger: logger}
}

// Create stores a new post owned by the caller.
func (s *BlogService) Create(ctx context.Context, caller domain.Caller, in ports.CreateBlogInput) (string, error) {
	if caller.ID == "" {
		return "", domain.Unauthenticated("missing caller identity")
	}
	if strings.TrimSpace(in.Category) == "" || strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return "", domain.Invalid("category, title and content are required")
	}
	if err := s.requireAuthor(ctx, caller); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	id, err := s.blogs.Create(ctx, &domain.BlogPost{
		Category:  in.Category,
		Title:     in.Title,
		Cover:     in.Cover,
		ReadTime:  in.ReadTime,
		AuthorID:  caller.ID,
		Content:   in.Content,
		Comments:  []domain.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create blog post")
		return "", err
	}

	s.logger.Info().Str("blog_id", id).Str("author_id", caller.ID).Msg("blog post created")
	return id, nil
}

func (s *BlogService) Get(ctx context.Context, id string) (*domain.BlogPost, error) {
	post, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.expandAuthors(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// List returns one page of posts with each owning author resolved.
func (s *BlogService) List(ctx context.Context, rawQuery string) (*ports.BlogList, error) {
	q, err := query.Parse(rawQuery, BlogQueryOptions)
	if err != nil {
		return nil, err
	}
	items, total, err := s.blogs.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	if err := s.expandAuthors(ctx, items...); err != nil {
		return nil, err
	}
	return &ports.BlogList{Items: items, Total: total, Query: q}, nil
}

func (s *BlogService) Update(ctx context.Context, caller domain.Caller, id string, patch domain.BlogPatch) (*domain.BlogPost, error) {
	if caller.ID == "" {
		return nil, domain.Unauthenticated("missing caller identity")
	}
	if patch.Empty() {
		return nil, domain.Invalid("nothing to update")
	}
	for _, f := range []*string{patch.Category, patch.Title, patch.Content} {
		if f != nil && strings.TrimSpace(*f) == "" {
			return nil, domain.Invalid("category, title and content cannot be empty")
		}
	}

	post, err := s.blogs.Update(ctx, id, caller.ID, patch)
	if err != nil {
		return nil, err
	}
	if err := s.expandAuthors(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BlogService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if caller.ID == "" {
		return domain.Unauthenticated("missing caller identity")
	}
	if err := s.blogs.Delete(ctx, id, caller.ID); err != nil {
		return err
	}
	s.logger.Info().Str("blog_id", id).Str("author_id", caller.ID).Msg("blog post deleted")
	return nil
}

// AddComment appends a comment written by the caller. The content is what
// the caller sent; nothing is copied from the parent post.
func (s *BlogService) AddComment(ctx context.Context, caller domain.Caller, postID, content string) (*domain.BlogPost, error) {
	if caller.ID == "" {
		return nil, domain.Unauthenticated("missing caller identity")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.Invalid("content is required")
	}

	if err := s.requireAuthor(ctx, caller); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post, err := s.blogs.AddComment(ctx, postID, domain.Comment{
		Content:   content,
		AuthorID:  caller.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return s.expanded(ctx, post, err)
}

func (s *BlogService) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	post, err := s.blogs.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Comments == nil {
		return []domain.Comment{}, nil
	}
	return post.Comments, nil
}

func (s *BlogService) GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error) {
	return s.blogs.FindComment(ctx, postID, commentID)
}

func (s *BlogService) UpdateComment(ctx context.Context, caller domain.Caller, postID, commentID, content string) (*domain.BlogPost, error) {
	if caller.ID == "" {
		return nil, domain.Unauthenticated("missing caller identity")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.Invalid("content is required")
	}
	post, err := s.blogs.UpdateComment(ctx, postID, commentID, caller.ID, content)
	return s.expanded(ctx, post, err)
}

func (s *BlogService) DeleteComment(ctx context.Context, caller domain.Caller, postID, commentID string) (*domain.BlogPost, error) {
	if caller.ID == "" {
		return nil, domain.Unauthenticated("missing caller identity")
	}
	post, err := s.blogs.DeleteComment(ctx, postID, commentID, caller.ID)
	return s.expanded(ctx, post, err)
}

// requireAuthor rejects callers whose account is gone. Bearer tokens stay
// valid until expiry, so this is the only place a deleted author is caught
// before it creates content.
func (s *BlogService) requireAuthor(ctx context.Context, caller domain.Caller) error {
	if _, err := s.authors.FindByID(ctx, caller.ID); err != nil {
		if errors.Is(err, domain.ErrAuthorNotFound) {
			return domain.Unauthenticated("author no longer exists")
		}
		return fmt.Errorf("resolve caller: %w", err)
	}
	return nil
}

func (s *BlogService) expanded(ctx context.Context, post *domain.BlogPost, err error) (*domain.BlogPost, error) {
	if err != nil {
		return nil, err
	}
	if err := s.expandAuthors(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// expandAuthors resolves AuthorID on each post with one batched lookup.
// Posts whose author no longer exists keep a nil Author.
func (s *BlogService) expandAuthors(ctx context.Context, posts ...*domain.BlogPost) error {
	seen := make(map[string]struct{}, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if p == nil || p.AuthorID == "" {
			continue
		}
		if _, ok := seen[p.AuthorID]; ok {
			continue
		}
		seen[p.AuthorID] = struct{}{}
		ids = append(ids, p.AuthorID)
	}
	if len(ids) == 0 {
		return nil
	}

	authors, err := s.authors.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("expand authors: %w", err)
	}
	byID := make(map[string]*domain.Author, len(authors))
	for _, a := range authors {
		byID[a.ID] = a
	}
	for _, p := range posts {
		if p != nil {
			p.Author = byID[p.AuthorID]
		}
	}
	return nil
}
