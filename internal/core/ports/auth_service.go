package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at self-registration.
type RegisterInput struct {
	Name     string
	LastName string
	Avatar   string
	Email    string
	Password string
}

// AuthService covers registration, password login and the OAuth handoff.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Author, string, error)
	Login(ctx context.Context, email, password string) (string, *domain.Author, error)
	// OAuthLoginURL returns the provider consent URL bound to a fresh state.
	OAuthLoginURL(ctx context.Context) (string, error)
	// OAuthCallback consumes state, exchanges code and issues a local token.
	OAuthCallback(ctx context.Context, state, code string) (string, *domain.Author, error)
}

// CredentialVerifier checks an email/secret pair. A nil author with a nil
// error means "no match"; callers must not distinguish unknown emails from
// wrong secrets.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, secret string) (*domain.Author, error)
}

// TokenService issues and verifies stateless access tokens.
type TokenService interface {
	Issue(subject string, role domain.Role) (string, error)
	Verify(token string) (*domain.Claims, error)
}

// OAuthProvider is a third-party identity provider using the authorization
// code flow.
type OAuthProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.ExternalProfile, error)
}

// StateStore issues single-use nonces that bind a provider callback to the
// login that started it.
type StateStore interface {
	Issue(ctx context.Context) (string, error)
	// Consume reports whether state was outstanding and removes it.
	Consume(ctx context.Context, state string) (bool, error)
}

// LoginThrottle counts failed logins per key inside a rolling window.
type LoginThrottle interface {
	Blocked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}
