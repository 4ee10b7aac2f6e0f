package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// StateStore implements ports.StateStore with sequential states.
type StateStore struct {
	mu     sync.Mutex
	next   int
	issued map[string]bool
}

func NewStateStore() *StateStore {
	return &StateStore{issued: make(map[string]bool)}
}

func (s *StateStore) Issue(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	state := "state-" + strconv.Itoa(s.next)
	s.issued[state] = true
	return state, nil
}

func (s *StateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.issued[state]
	delete(s.issued, state)
	return ok, nil
}

// Throttle implements ports.LoginThrottle with a plain counter per key.
type Throttle struct {
	mu       sync.Mutex
	Max      int
	failures map[string]int
	Err      error
}

func NewThrottle(max int) *Throttle {
	return &Throttle{Max: max, failures: make(map[string]int)}
}

func (t *Throttle) Blocked(_ context.Context, key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return false, t.Err
	}
	return t.failures[key] >= t.Max, nil
}

func (t *Throttle) RecordFailure(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures[key]++
	return nil
}

func (t *Throttle) Reset(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.failures, key)
	return nil
}

func (t *Throttle) Failures(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failures[key]
}

// ErrBadCode is returned by Provider.Exchange for codes it does not know.
var ErrBadCode = errors.New("unknown authorization code")

// Provider implements ports.OAuthProvider from a fixed code table.
type Provider struct {
	Profiles map[string]domain.ExternalProfile
}

func (p *Provider) Name() string { return "google" }

func (p *Provider) AuthCodeURL(state string) string {
	return "https://accounts.example.test/auth?state=" + state
}

func (p *Provider) Exchange(_ context.Context, code string) (*domain.ExternalProfile, error) {
	profile, ok := p.Profiles[code]
	if !ok {
		return nil, ErrBadCode
	}
	return &profile, nil
}
