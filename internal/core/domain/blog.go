package domain

import "time"

// ReadTime is an optional reading-time estimate.
type ReadTime struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Comment lives embedded in a BlogPost and has no existence outside it.
type Comment struct {
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"commentDate"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BlogPost is the content aggregate. Author is resolved from AuthorID on
// reads and stays nil when the referenced author no longer exists.
type BlogPost struct {
	ID        string
	Category  string
	Title     string
	Cover     string
	ReadTime  *ReadTime
	AuthorID  string
	Author    *Author
	Content   string
	Comments  []Comment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy reports whether authorID owns the post.
func (p *BlogPost) IsOwnedBy(authorID string) bool {
	return authorID != "" && p.AuthorID == authorID
}

// BlogPatch carries a partial post update. Ownership cannot be transferred.
type BlogPatch struct {
	Category *string
	Title    *string
	Cover    *string
	ReadTime *ReadTime
	Content  *string
}

// Empty reports whether the patch would change nothing.
func (p BlogPatch) Empty() bool {
	return p.Category == nil && p.Title == nil && p.Cover == nil && p.ReadTime == nil && p.Content == nil
}
