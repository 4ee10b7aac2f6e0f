package handler

import (
	"time"

	"github.com/inkwell/blog-api/internal/core/query"
)

// --- Request types ---

type readTimeRequest struct {
	Value float64 `json:"value" validate:"gte=0"`
	Unit  string  `json:"unit"  validate:"required"`
}

type createBlogRequest struct {
	Category string           `json:"category" validate:"required"`
	Title    string           `json:"title"    validate:"required"`
	Cover    string           `json:"cover"`
	ReadTime *readTimeRequest `json:"readTime" validate:"omitempty"`
	Content  string           `json:"content"  validate:"required"`
}

type updateBlogRequest struct {
	Category *string          `json:"category"`
	Title    *string          `json:"title"`
	Cover    *string          `json:"cover"`
	ReadTime *readTimeRequest `json:"readTime" validate:"omitempty"`
	Content  *string          `json:"content"`
}

type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

// --- Response types ---

type readTimeResponse struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type commentResponse struct {
	ID          string    `json:"_id"`
	Content     string    `json:"content"`
	Author      string    `json:"author,omitempty"`
	CommentDate time.Time `json:"commentDate"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// blogResponse carries the expanded author; it is null when the owning
// author no longer exists.
type blogResponse struct {
	ID        string            `json:"_id"`
	Category  string            `json:"category"`
	Title     string            `json:"title"`
	Cover     string            `json:"cover,omitempty"`
	ReadTime  *readTimeResponse `json:"readTime,omitempty"`
	Author    *authorResponse   `json:"author"`
	Content   string            `json:"content"`
	Comments  []commentResponse `json:"comments"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type createdResponse struct {
	ID string `json:"_id"`
}

type listBlogsResponse struct {
	Links      query.Links    `json:"links"`
	TotalPages int            `json:"totalPages"`
	Blogs      []blogResponse `json:"blogs"`
}
