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
)

// AuthService implements registration, password login and the OAuth handoff.
type AuthService struct {
	credentials *CredentialStore
	authors     ports.AuthorRepository
	tokens      ports.TokenService
	provider    ports.OAuthProvider
	states      ports.StateStore
	throttle    ports.LoginThrottle
	log         zerolog.Logger
}

func NewAuthService(credentials *CredentialStore, authors ports.AuthorRepository, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{credentials: credentials, authors: authors, tokens: tokens, log: log}
}

// WithOAuth enables the provider login flow.
func (s *AuthService) WithOAuth(provider ports.OAuthProvider, states ports.StateStore) *AuthService {
	s.provider = provider
	s.states = states
	return s
}

// WithLoginThrottle enables failed-login counting.
func (s *AuthService) WithLoginThrottle(throttle ports.LoginThrottle) *AuthService {
	s.throttle = throttle
	return s
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Author, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, "", domain.Invalid("name, email and password are required")
	}

	existing, err := s.authors.FindByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, "", domain.ErrAuthorExists
	case err != nil && !errors.Is(err, domain.ErrAuthorNotFound):
		return nil, "", fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	author, err := s.credentials.Create(ctx, &domain.Author{
		Name:      in.Name,
		LastName:  in.LastName,
		Avatar:    in.Avatar,
		Email:     in.Email,
		Role:      domain.RoleStandard,
		CreatedAt: now,
		UpdatedAt: now,
	}, in.Password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(author.ID, author.Role)
	if err != nil {
		return nil, "", fmt.Errorf("register: issue token: %w", err)
	}

	s.log.Info().Str("author_id", author.ID).Msg("author registered")
	return author, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Author, error) {
	key := NormalizeEmail(email)
	if key == "" || password == "" {
		return "", nil, domain.Unauthenticated("invalid email or password")
	}

	if s.throttle != nil {
		blocked, err := s.throttle.Blocked(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
		} else if blocked {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	author, err := s.credentials.Verify(ctx, key, password)
	if err != nil {
		return "", nil, err
	}
	if author == nil {
		if s.throttle != nil {
			if err := s.throttle.RecordFailure(ctx, key); err != nil {
				s.log.Warn().Err(err).Msg("failed to record login failure")
			}
		}
		return "", nil, domain.Unauthenticated("invalid email or password")
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, key); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login failures")
		}
	}

	token, err := s.tokens.Issue(author.ID, author.Role)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}
	return token, author, nil
}

func (s *AuthService) OAuthLoginURL(ctx context.Context) (string, error) {
	if s.provider == nil || s.states == nil {
		return "", fmt.Errorf("oauth login is not configured: %w", domain.ErrNotFound)
	}
	state, err := s.states.Issue(ctx)
	if err != nil {
		return "", fmt.Errorf("issue oauth state: %w", err)
	}
	return s.provider.AuthCodeURL(state), nil
}

func (s *AuthService) OAuthCallback(ctx context.Context, state, code string) (string, *domain.Author, error) {
	if s.provider == nil || s.states == nil {
		return "", nil, fmt.Errorf("oauth login is not configured: %w", domain.ErrNotFound)
	}
	if state == "" || code == "" {
		return "", nil, domain.Unauthenticated("missing oauth state or code")
	}

	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return "", nil, fmt.Errorf("consume oauth state: %w", err)
	}
	if !ok {
		return "", nil, domain.Unauthenticated("unknown or expired oauth state")
	}

	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.log.Warn().Err(err).Str("provider", s.provider.Name()).Msg("oauth exchange failed")
		return "", nil, domain.Unauthenticated(s.provider.Name() + " login failed")
	}
	if profile == nil || profile.ExternalID == "" {
		return "", nil, domain.Unauthenticated(s.provider.Name() + " returned no identity")
	}
	profile.Email = NormalizeEmail(profile.Email)

	author, created, err := s.authors.FindOrCreateByExternalID(ctx, *profile)
	if err != nil {
		return "", nil, fmt.Errorf("oauth find or create: %w", err)
	}

	token, err := s.tokens.Issue(author.ID, author.Role)
	if err != nil {
		return "", nil, fmt.Errorf("oauth: issue token: %w", err)
	}

	s.log.Info().
		Str("author_id", author.ID).
		Str("provider", s.provider.Name()).
		Bool("created", created).
		Msg("oauth login")
	return token, author, nil
}
