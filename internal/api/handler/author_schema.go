package handler

import "github.com/inkwell/blog-api/internal/core/query"

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	LastName string `json:"lastName"`
	Avatar   string `json:"avatar"   validate:"omitempty,url"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateAuthorRequest uses pointers so absent fields stay untouched.
type updateAuthorRequest struct {
	Name     *string `json:"name"`
	LastName *string `json:"lastName"`
	Avatar   *string `json:"avatar"   validate:"omitempty,url"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,max=72"`
	Role     *string `json:"role"     validate:"omitempty,oneof=User Admin"`
}

// --- Response types ---
// These are separate from domain types so the JSON contract never carries
// the password hash or internal bookkeeping.

type authorResponse struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	LastName string `json:"lastName,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	GoogleID string `json:"googleId,omitempty"`
}

type registerResponse struct {
	ID          string `json:"_id"`
	AccessToken string `json:"accessToken"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type listAuthorsResponse struct {
	Links      query.Links      `json:"links"`
	TotalPages int              `json:"totalPages"`
	Authors    []authorResponse `json:"authors"`
}
