package domain

import "time"

// Author models a registered identity. PasswordHash is empty for accounts
// created through an external provider.
type Author struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	LastName     string    `json:"lastName,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	GoogleID     string    `json:"googleId,omitempty"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// HasPassword reports whether the account can authenticate with a secret.
func (a *Author) HasPassword() bool {
	return a.PasswordHash != ""
}

// AuthorPatch carries a partial update. Nil fields are left untouched.
// Password is plaintext on the way in and is replaced by PasswordHash before
// it reaches a repository.
type AuthorPatch struct {
	Name         *string
	LastName     *string
	Avatar       *string
	Email        *string
	Password     *string
	PasswordHash *string
	Role         *Role
}

// Empty reports whether the patch would change nothing.
func (p AuthorPatch) Empty() bool {
	return p.Name == nil && p.LastName == nil && p.Avatar == nil && p.Email == nil &&
		p.Password == nil && p.PasswordHash == nil && p.Role == nil
}

// ExternalProfile is the identity returned by a third-party provider.
type ExternalProfile struct {
	Provider   string
	ExternalID string
	Name       string
	LastName   string
	Email      string
	Avatar     string
}
