// Package testutil holds in-memory adapters for exercising services and
// handlers without MongoDB or Redis.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/query"
)

// AuthorStore implements ports.AuthorRepository on a map.
type AuthorStore struct {
	mu      sync.Mutex
	authors map[string]*domain.Author
	order   []string
}

func NewAuthorStore() *AuthorStore {
	return &AuthorStore{authors: make(map[string]*domain.Author)}
}

func cloneAuthor(a *domain.Author) *domain.Author {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func (s *AuthorStore) Create(_ context.Context, author *domain.Author) (*domain.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cloneAuthor(author)
	c.ID = primitive.NewObjectID().Hex()
	s.authors[c.ID] = c
	s.order = append(s.order, c.ID)
	return cloneAuthor(c), nil
}

func (s *AuthorStore) FindByID(_ context.Context, id string) (*domain.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.authors[id]
	if !ok {
		return nil, domain.ErrAuthorNotFound
	}
	return cloneAuthor(a), nil
}

func (s *AuthorStore) FindByEmail(_ context.Context, email string) (*domain.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *domain.Author
	for _, id := range s.order {
		a := s.authors[id]
		if a == nil || a.Email != email {
			continue
		}
		if a.HasPassword() {
			return cloneAuthor(a), nil
		}
		if found == nil {
			found = a
		}
	}
	if found == nil {
		return nil, domain.ErrAuthorNotFound
	}
	return cloneAuthor(found), nil
}

func (s *AuthorStore) FindByIDs(_ context.Context, ids []string) ([]*domain.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Author, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.authors[id]; ok {
			out = append(out, cloneAuthor(a))
		}
	}
	return out, nil
}

// List ignores criteria and applies only offset and limit.
func (s *AuthorStore) List(_ context.Context, q *query.Query) ([]*domain.Author, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*domain.Author, 0, len(s.authors))
	for _, id := range s.order {
		if a, ok := s.authors[id]; ok {
			all = append(all, cloneAuthor(a))
		}
	}
	return page(all, q), int64(len(all)), nil
}

func (s *AuthorStore) Update(_ context.Context, id string, patch domain.AuthorPatch) (*domain.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.authors[id]
	if !ok {
		return nil, domain.ErrAuthorNotFound
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.LastName != nil {
		a.LastName = *patch.LastName
	}
	if patch.Avatar != nil {
		a.Avatar = *patch.Avatar
	}
	if patch.Email != nil {
		a.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		a.PasswordHash = *patch.PasswordHash
	}
	if patch.Role != nil {
		a.Role = *patch.Role
	}
	a.UpdatedAt = time.Now().UTC()
	return cloneAuthor(a), nil
}

func (s *AuthorStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.authors[id]; !ok {
		return domain.ErrAuthorNotFound
	}
	delete(s.authors, id)
	return nil
}

func (s *AuthorStore) FindOrCreateByExternalID(_ context.Context, p domain.ExternalProfile) (*domain.Author, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		if a := s.authors[id]; a != nil && a.GoogleID == p.ExternalID {
			return cloneAuthor(a), false, nil
		}
	}
	a := &domain.Author{
		ID:       primitive.NewObjectID().Hex(),
		Name:     p.Name,
		LastName: p.LastName,
		Avatar:   p.Avatar,
		Email:    p.Email,
		Role:     domain.RoleStandard,
		GoogleID: p.ExternalID,
	}
	s.authors[a.ID] = a
	s.order = append(s.order, a.ID)
	return cloneAuthor(a), true, nil
}

// Put stores a fully formed author, keeping its id. Tests use it to seed
// admins.
func (s *AuthorStore) Put(a *domain.Author) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}
	if _, ok := s.authors[a.ID]; !ok {
		s.order = append(s.order, a.ID)
	}
	s.authors[a.ID] = cloneAuthor(a)
}

func page[T any](items []T, q *query.Query) []T {
	if q == nil {
		return items
	}
	if q.Offset >= len(items) {
		return []T{}
	}
	items = items[q.Offset:]
	if q.Limit > 0 && len(items) > q.Limit {
		items = items[:q.Limit]
	}
	return items
}

// BlogStore implements ports.BlogRepository on a map.
type BlogStore struct {
	mu    sync.Mutex
	posts map[string]*domain.BlogPost
	order []string
}

func NewBlogStore() *BlogStore {
	return &BlogStore{posts: make(map[string]*domain.BlogPost)}
}

func clonePost(p *domain.BlogPost) *domain.BlogPost {
	if p == nil {
		return nil
	}
	c := *p
	if p.ReadTime != nil {
		rt := *p.ReadTime
		c.ReadTime = &rt
	}
	c.Comments = append([]domain.Comment(nil), p.Comments...)
	c.Author = nil
	return &c
}

func (s *BlogStore) Create(_ context.Context, post *domain.BlogPost) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := clonePost(post)
	c.ID = primitive.NewObjectID().Hex()
	s.posts[c.ID] = c
	s.order = append(s.order, c.ID)
	return c.ID, nil
}

func (s *BlogStore) FindByID(_ context.Context, id string) (*domain.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	return clonePost(p), nil
}

func (s *BlogStore) List(_ context.Context, q *query.Query) ([]*domain.BlogPost, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*domain.BlogPost, 0, len(s.posts))
	for _, id := range s.order {
		if p, ok := s.posts[id]; ok {
			all = append(all, clonePost(p))
		}
	}
	return page(all, q), int64(len(all)), nil
}

func (s *BlogStore) ListByAuthor(_ context.Context, authorID string) ([]*domain.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*domain.BlogPost{}
	for _, id := range s.order {
		if p, ok := s.posts[id]; ok && p.AuthorID == authorID {
			out = append(out, clonePost(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *BlogStore) owned(id, ownerID string) (*domain.BlogPost, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	if !p.IsOwnedBy(ownerID) {
		return nil, domain.Forbidden("only the author can modify this post")
	}
	return p, nil
}

func (s *BlogStore) Update(_ context.Context, id, ownerID string, patch domain.BlogPatch) (*domain.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.owned(id, ownerID)
	if err != nil {
		return nil, err
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Cover != nil {
		p.Cover = *patch.Cover
	}
	if patch.ReadTime != nil {
		rt := *patch.ReadTime
		p.ReadTime = &rt
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	p.UpdatedAt = time.Now().UTC()
	return clonePost(p), nil
}

func (s *BlogStore) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.owned(id, ownerID); err != nil {
		return err
	}
	delete(s.posts, id)
	return nil
}

func (s *BlogStore) AddComment(_ context.Context, postID string, comment domain.Comment) (*domain.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	comment.ID = primitive.NewObjectID().Hex()
	p.Comments = append(p.Comments, comment)
	return clonePost(p), nil
}

func (s *BlogStore) FindComment(_ context.Context, postID, commentID string) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	for _, c := range p.Comments {
		if c.ID == commentID {
			out := c
			return &out, nil
		}
	}
	return nil, domain.ErrCommentNotFound
}

func (s *BlogStore) comment(postID, commentID, authorID string) (*domain.BlogPost, int, error) {
	p, ok := s.posts[postID]
	if !ok {
		return nil, 0, domain.ErrBlogNotFound
	}
	for i, c := range p.Comments {
		if c.ID != commentID {
			continue
		}
		if c.AuthorID != authorID {
			return nil, 0, domain.Forbidden("only the author can modify this comment")
		}
		return p, i, nil
	}
	return nil, 0, domain.ErrCommentNotFound
}

func (s *BlogStore) UpdateComment(_ context.Context, postID, commentID, authorID, content string) (*domain.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, i, err := s.comment(postID, commentID, authorID)
	if err != nil {
		return nil, err
	}
	p.Comments[i].Content = content
	p.Comments[i].UpdatedAt = time.Now().UTC()
	return clonePost(p), nil
}

func (s *BlogStore) DeleteComment(_ context.Context, postID, commentID, authorID string) (*domain.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, i, err := s.comment(postID, commentID, authorID)
	if err != nil {
		return nil, err
	}
	p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
	return clonePost(p), nil
}
